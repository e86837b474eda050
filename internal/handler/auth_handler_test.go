package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"homerent/internal/apperror"
	"homerent/internal/model"
	"homerent/internal/testutil"
	"homerent/pkg/config"
	"homerent/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	jwtutil.Initialize(&config.JWTConfig{
		SigningKey:      "handler-test-key",
		Issuer:          "homerent",
		ExpirationHours: 2,
	})
}

func requireAppError(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.Status)
}

func TestLoginSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)

	c, rec := testutil.JSONContext(http.MethodPost, "/login",
		`{"email":"ana@example.com","password":"Passw0rd"}`)
	require.NoError(t, Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Equal(t, "Ana", body["name"])
	assert.Equal(t, "CLIENT", body["role"])
	require.NotEmpty(t, body["token"])

	subject, err := jwtutil.ParseSubject(body["token"])
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", subject)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)

	c, _ := testutil.JSONContext(http.MethodPost, "/login",
		`{"email":"ana@example.com","password":"wrong"}`)
	requireAppError(t, Login(c), http.StatusUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	testutil.SetupTestDB(t)

	c, _ := testutil.JSONContext(http.MethodPost, "/login",
		`{"email":"ghost@example.com","password":"Passw0rd"}`)
	requireAppError(t, Login(c), http.StatusUnauthorized)
}

func TestLoginInactiveUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)
	user.IsActive = false
	require.NoError(t, db.Save(user).Error)

	c, _ := testutil.JSONContext(http.MethodPost, "/login",
		`{"email":"ana@example.com","password":"Passw0rd"}`)
	requireAppError(t, Login(c), http.StatusUnauthorized)
}

func TestLoginMissingFields(t *testing.T) {
	testutil.SetupTestDB(t)

	c, _ := testutil.JSONContext(http.MethodPost, "/login", `{"email":"ana@example.com"}`)
	requireAppError(t, Login(c), http.StatusBadRequest)
}
