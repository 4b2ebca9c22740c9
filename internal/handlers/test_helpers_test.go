package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogapi/internal/middleware"
	"blogapi/internal/repository"
	"blogapi/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const testJWTSecret = "blogapi_test_jwt_secret_key_1234567890"

const (
	authorID   = "11111111-1111-4111-8111-111111111111"
	otherID    = "22222222-2222-4222-8222-222222222222"
	postID     = "33333333-3333-4333-8333-333333333333"
	categoryID = "64b7f0c2a1e4b5d6c7e8f901"
)

var postRowColumns = []string{"id", "title", "content", "author_id", "category", "slug", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return db, mock, cleanup
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func newTestTokens(t *testing.T) *utils.TokenManager {
	t.Helper()
	tokens, err := utils.NewTokenManager([]byte(testJWTSecret), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tokens
}

// newPostsRouter wires the post routes the same way the server does, with
// the real auth guard in front of the mutating routes.
func newPostsRouter(t *testing.T, db *sql.DB) (*gin.Engine, *utils.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := newTestTokens(t)
	handler := NewPostHandler(repository.NewPostRepository(db), quietLogger())

	router := gin.New()
	guard := middleware.AuthMiddleware(tokens)
	router.GET("/api/posts", handler.ListPosts)
	router.GET("/api/posts/:id", handler.GetPost)
	router.POST("/api/posts", guard, handler.CreatePost)
	router.PUT("/api/posts/:id", guard, handler.UpdatePost)
	router.DELETE("/api/posts/:id", guard, handler.DeletePost)
	return router, tokens
}

func bearer(t *testing.T, tokens *utils.TokenManager, userID string) string {
	t.Helper()
	signed, err := tokens.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + signed
}

func doJSON(router http.Handler, method, path, authorization string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeObject(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v (body=%s)", err, resp.Body.String())
	}
	return out
}

func mustStatus(t *testing.T, actual int, expected int) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func expectHTTP200(t *testing.T, status int) {
	t.Helper()
	mustStatus(t, status, http.StatusOK)
}

func expectSQL(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func doMonitorRequest(router http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Monitoring-Key", key)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}
