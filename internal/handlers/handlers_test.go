package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/secondbrain-dev/secondbrain/db"
	"github.com/secondbrain-dev/secondbrain/internal/auth"
	"github.com/secondbrain-dev/secondbrain/internal/models"
	"github.com/secondbrain-dev/secondbrain/internal/router"
	"github.com/secondbrain-dev/secondbrain/internal/search"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTest wires a fresh in-memory database and search index behind the real
// router. Tests share the package-level db.DB, so they must not run parallel.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	// busy_timeout keeps concurrent writers waiting instead of erroring out
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(10000)", t.Name())

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Tag{}, &models.Content{}, &models.Share{}))

	db.DB = gdb

	require.NoError(t, search.Init())

	return router.NewRouter()
}

func createTestUser(t *testing.T, username string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Username: username, PasswordHash: string(hash)}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := auth.GenerateJWT(user.ID, user.Username)
	require.NoError(t, err)

	return user, token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func createTestContent(t *testing.T, r *gin.Engine, token, title string, tags []string) uint {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/v1/content", token, gin.H{
		"link":  "https://example.com/" + title,
		"type":  "url",
		"title": title,
		"tags":  tags,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	content := body["content"].(map[string]any)

	return uint(content["id"].(float64))
}
