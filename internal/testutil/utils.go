package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homerent/internal/model"
	"homerent/pkg/database"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a per-test in-memory database, migrates the schema and
// installs it as the global connection for the duration of the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an active user with a bcrypt-hashed password.
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, role model.Role) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateHouse inserts an active, available house for the owner at the given
// street; the rest of the address is fixed.
func CreateHouse(t *testing.T, db *gorm.DB, owner *model.User, street string) *model.House {
	t.Helper()

	house := &model.House{
		Description: "two bedroom house near the city center",
		Address: model.Address{
			Street: street,
			City:   "Manizales",
			State:  "Caldas",
			Number: "100",
		},
		OwnerID:     owner.ID,
		IsAvailable: true,
		IsActive:    true,
	}
	require.NoError(t, db.Create(house).Error)
	return house
}

// JSONContext builds an echo context carrying a JSON body, ready to hand to
// a handler directly.
func JSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
