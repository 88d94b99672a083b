package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/tablemate/database"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/router"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

const restaurant = "1234 Restaurant St."

type envelope struct {
	Status    bool            `json:"status"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Retriable bool            `json:"retriable"`
}

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
}

// setupTestApp wires the full router over a private SQLite in-memory store.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	utils.InitLogger("warn")
	utils.ConfigureTokens("controllers-test-secret", 0)
	utils.Blacklist = utils.NewMemoryBlacklist()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return &testApp{db: db, router: router.SetupRouter(db, router.Options{})}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	if len(env.Data) == 0 {
		return
	}
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
}

// customer registers through the service layer and mints a token without going through /auth.
func (a *testApp) customer(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	user, err := services.NewUserService(a.db).Register(context.Background(), services.RegisterInput{
		FirstName: name,
		Email:     fmt.Sprintf("%s@example.com", name),
		Password:  "secret",
	})
	require.NoError(t, err)
	token, err := utils.GenerateToken(user.ID, utils.RoleCustomer)
	require.NoError(t, err)
	return user, token
}

func (a *testApp) server(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	user, _ := a.customer(t, name)
	require.NoError(t, a.db.Model(user).Updates(map[string]interface{}{
		"is_server":          true,
		"is_working":         true,
		"working_restaurant": restaurant,
	}).Error)
	token, err := utils.GenerateToken(user.ID, utils.RoleServer)
	require.NoError(t, err)
	return user, token
}

func (a *testApp) join(t *testing.T, token, tableNumber string) models.Table {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/tables/join", token, map[string]string{
		"restaurant_address": restaurant,
		"restaurant_name":    "Woodhouse Diner",
		"table_number":       tableNumber,
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	var table models.Table
	decode(t, env, &table)
	return table
}

func urlEscape(s string) string {
	return url.QueryEscape(s)
}
