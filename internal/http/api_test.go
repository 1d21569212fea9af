package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbook/internal/auth"
	"eventbook/internal/repository/sqlite"
	"eventbook/internal/service"
)

const testSecret = "handler-test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	require.NoError(t, userRepo.Init(t.Context()))
	require.NoError(t, eventRepo.Init(t.Context()))

	tokens := auth.NewTokenManager(testSecret, time.Hour)
	users := service.NewUserService(userRepo, tokens)
	events := service.NewEventService(eventRepo, userRepo)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	router := gin.New()
	NewHandler(users, events, tokens, logger).RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, router *gin.Engine, email string) int64 {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/api/auth/register", map[string]any{
		"firstname": "Ana",
		"lastname":  "Li",
		"email":     email,
		"password":  "longenough",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	user := decodeBody(t, w)["user"].(map[string]any)
	return int64(user["id"].(float64))
}

func loginUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": "longenough",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody(t, w)["token"].(string)
}

func createEvent(t *testing.T, router *gin.Engine, token, title string, userID int64) int64 {
	t.Helper()

	start := time.Now().UTC().Add(24 * time.Hour)
	w := doRequest(t, router, http.MethodPost, "/api/events", map[string]any{
		"title":      title,
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.Add(2 * time.Hour).Format(time.RFC3339),
		"location":   "Rotterdam",
		"user_id":    userID,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(decodeBody(t, w)["id"].(float64))
}

func TestRegisterOmitsPassword(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/auth/register", map[string]any{
		"firstname": "Ana",
		"lastname":  "Li",
		"email":     "ana@x.com",
		"password":  "longenough",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "User registered successfully", body["message"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "ana@x.com", user["email"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "password must never be serialized")
}

func TestRegisterValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/auth/register", map[string]any{
		"firstname": "An4",
		"email":     "bad",
		"password":  "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{
		"firstname cannot contain numbers",
		"lastname is required",
		"email must be a valid email address",
		"password must be at least 8 characters long",
	}, errs)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ana@x.com")

	w := doRequest(t, router, http.MethodPost, "/api/auth/register", map[string]any{
		"firstname": "Ana",
		"lastname":  "Li",
		"email":     "ana@x.com",
		"password":  "longenough",
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", decodeBody(t, w)["error"])
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ana@x.com")

	w := doRequest(t, router, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ana@x.com",
		"password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, w)["error"])
}

func TestLoginMissingFields(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/auth/login", map[string]any{}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", decodeBody(t, w)["error"])
}

func TestEventMutationRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/events", map[string]any{"title": "Party"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token required", decodeBody(t, w)["error"])

	w = doRequest(t, router, http.MethodDelete, "/api/events/1", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventMutationRejectsBadToken(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/events", map[string]any{"title": "Party"}, "garbage")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid or expired token", decodeBody(t, w)["error"])
}

func TestExpiredTokenRejected(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ana@x.com")

	// validly signed but already expired
	expired, err := auth.NewTokenManager(testSecret, -time.Minute).Issue(1, "ana@x.com")
	require.NoError(t, err)

	w := doRequest(t, router, http.MethodPost, "/api/events", map[string]any{"title": "Party"}, expired)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid or expired token", decodeBody(t, w)["error"])
}

func TestCreateEventUnknownOwner(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ana@x.com")
	token := loginUser(t, router, "ana@x.com")

	start := time.Now().UTC().Add(24 * time.Hour)
	w := doRequest(t, router, http.MethodPost, "/api/events", map[string]any{
		"title":      "Party",
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.Add(time.Hour).Format(time.RFC3339),
		"location":   "Rotterdam",
		"user_id":    9999,
	}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["error"])
}

func TestListEventsPaginationEnvelope(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ana@x.com")
	token := loginUser(t, router, "ana@x.com")

	for _, title := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		createEvent(t, router, token, title, userID)
	}

	w := doRequest(t, router, http.MethodGet, "/api/events?limit=2&offset=0&sort=title&order=DESC", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	events := body["events"].([]any)
	require.Len(t, events, 2)
	assert.Equal(t, "Echo", events[0].(map[string]any)["title"])
	assert.Equal(t, "Delta", events[1].(map[string]any)["title"])

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["limit"])
	assert.Equal(t, float64(0), pagination["offset"])
	assert.Equal(t, float64(5), pagination["total"])
}

func TestListEventsRejectsUnknownSort(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/events?sort=password", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "Invalid sort column")
}

func TestSearchRequiresQuery(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/events/search", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "query parameter is required", decodeBody(t, w)["error"])
}

func TestSearchReturnsCount(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ana@x.com")
	token := loginUser(t, router, "ana@x.com")
	createEvent(t, router, token, "Launch party", userID)
	createEvent(t, router, token, "Retrospective", userID)

	w := doRequest(t, router, http.MethodGet, "/api/events/search?query=party", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
	events := body["events"].([]any)
	require.Len(t, events, 1)

	event := events[0].(map[string]any)
	assert.Equal(t, "Launch party", event["title"])
	assert.Equal(t, "Ana", event["firstname"], "events join owner identity")
	assert.Equal(t, "ana@x.com", event["user_email"])
}

func TestGetEventNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/events/999", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Event not found", decodeBody(t, w)["error"])
}

func TestUpdateUserEmptyBody(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ana@x.com")

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d", userID), map[string]any{}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", decodeBody(t, w)["error"])
}

func TestUpdateUserPartialFields(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ana@x.com")

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d", userID), map[string]any{
		"lastname": "Chen",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Chen", body["lastname"])
	assert.Equal(t, "Ana", body["firstname"])
}

func TestDeleteUserCascadesEvents(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ana@x.com")
	token := loginUser(t, router, "ana@x.com")

	first := createEvent(t, router, token, "Launch party", userID)
	second := createEvent(t, router, token, "Retrospective", userID)

	w := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/users/%d", userID), nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	for _, id := range []int64{first, second} {
		w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/events/%d", id), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestUpdateAndDeleteEventWithToken(t *testing.T) {
	router := newTestRouter(t)
	userID := registerUser(t, router, "ana@x.com")
	token := loginUser(t, router, "ana@x.com")
	eventID := createEvent(t, router, token, "Launch party", userID)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/events/%d", eventID), map[string]any{
		"title": "Rescheduled party",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rescheduled party", decodeBody(t, w)["title"])

	w = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/events/%d", eventID), nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/events/%d", eventID), nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouteNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/nope", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decodeBody(t, w)["error"])
}

func TestUsersListOmitsPasswords(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ana@x.com")
	registerUser(t, router, "bob@x.com")

	w := doRequest(t, router, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	for _, user := range users {
		_, hasPassword := user["password"]
		assert.False(t, hasPassword)
	}
}
