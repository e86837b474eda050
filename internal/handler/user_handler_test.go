package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"homerent/internal/middleware"
	"homerent/internal/model"
	"homerent/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)

	c, rec := testutil.JSONContext(http.MethodPost, "/user",
		`{"name":"Ana","email":"ana@example.com","password":"Passw0rd","role":"CLIENT"}`)
	require.NoError(t, CreateUser(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var user model.User
	require.NoError(t, db.Where("email = ?", "ana@example.com").First(&user).Error)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, model.RoleClient, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Passw0rd", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Passw0rd")))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)

	c, _ := testutil.JSONContext(http.MethodPost, "/user",
		`{"name":"Other","email":"ana@example.com","password":"Passw0rd","role":"OWNER"}`)
	requireAppError(t, CreateUser(c), http.StatusBadRequest)
}

func TestCreateUserWeakPassword(t *testing.T) {
	testutil.SetupTestDB(t)

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		c, _ := testutil.JSONContext(http.MethodPost, "/user",
			`{"name":"Ana","email":"ana@example.com","password":"`+password+`","role":"CLIENT"}`)
		requireAppError(t, CreateUser(c), http.StatusBadRequest)
	}
}

func TestCreateUserInvalidRole(t *testing.T) {
	testutil.SetupTestDB(t)

	c, _ := testutil.JSONContext(http.MethodPost, "/user",
		`{"name":"Ana","email":"ana@example.com","password":"Passw0rd","role":"SUPERUSER"}`)
	requireAppError(t, CreateUser(c), http.StatusBadRequest)
}

func TestGetUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	user.Stars = 4.5
	require.NoError(t, db.Save(user).Error)

	c, rec := testutil.JSONContext(http.MethodGet, "/user/ana@example.com", "")
	c.SetParamNames("email")
	c.SetParamValues("ana@example.com")
	require.NoError(t, GetUser(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Ana", body["name"])
	assert.Equal(t, "OWNER", body["role"])
	assert.InDelta(t, 4.5, body["stars"], 0.001)
	assert.NotContains(t, body, "password")
}

func TestGetUserNotFound(t *testing.T) {
	testutil.SetupTestDB(t)

	c, _ := testutil.JSONContext(http.MethodGet, "/user/ghost@example.com", "")
	c.SetParamNames("email")
	c.SetParamValues("ghost@example.com")
	requireAppError(t, GetUser(c), http.StatusNotFound)
}

func TestUpdateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)

	c, rec := testutil.JSONContext(http.MethodPut, "/user/update",
		`{"new_name":"Ana Maria","new_email":"ana.maria@example.com"}`)
	middleware.SetCurrentUser(c, user)
	require.NoError(t, UpdateUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "ana.maria@example.com", updated.Email)
}

func TestUpdateUserEmailTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)
	testutil.CreateUser(t, db, "Bob", "bob@example.com", "Passw0rd", model.RoleClient)

	c, _ := testutil.JSONContext(http.MethodPut, "/user/update",
		`{"new_name":"Ana","new_email":"bob@example.com"}`)
	middleware.SetCurrentUser(c, user)
	requireAppError(t, UpdateUser(c), http.StatusBadRequest)
}

func TestUpdateUserPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)

	c, rec := testutil.JSONContext(http.MethodPut, "/user/update/password",
		`{"password":"Passw0rd","new_password":"NewPassw0rd"}`)
	middleware.SetCurrentUser(c, user)
	require.NoError(t, UpdateUserPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("NewPassw0rd")))
}

func TestUpdateUserPasswordWrongCurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)

	c, _ := testutil.JSONContext(http.MethodPut, "/user/update/password",
		`{"password":"wrong","new_password":"NewPassw0rd"}`)
	middleware.SetCurrentUser(c, user)
	requireAppError(t, UpdateUserPassword(c), http.StatusNotFound)
}

func TestDeleteUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleClient)

	c, rec := testutil.JSONContext(http.MethodDelete, "/user", "")
	middleware.SetCurrentUser(c, user)
	require.NoError(t, DeleteUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var deleted model.User
	require.NoError(t, db.First(&deleted, user.ID).Error)
	assert.False(t, deleted.IsActive)
}

func TestDeleteUserWithActiveHouse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	testutil.CreateHouse(t, db, owner, "Calle 10")

	c, _ := testutil.JSONContext(http.MethodDelete, "/user", "")
	middleware.SetCurrentUser(c, owner)
	requireAppError(t, DeleteUser(c), http.StatusForbidden)
}

func TestDeleteUserWithAcceptedRent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com", "Passw0rd", model.RoleOwner)
	client := testutil.CreateUser(t, db, "Bob", "bob@example.com", "Passw0rd", model.RoleClient)
	house := testutil.CreateHouse(t, db, owner, "Calle 10")

	rent := model.Rent{
		HouseID:   house.ID,
		LocatorID: client.ID,
		Price:     800,
		Accepted:  true,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&rent).Error)

	c, _ := testutil.JSONContext(http.MethodDelete, "/user", "")
	middleware.SetCurrentUser(c, client)
	requireAppError(t, DeleteUser(c), http.StatusForbidden)
}
