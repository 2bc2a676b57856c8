package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leadflow/internal/database"
	"leadflow/internal/middleware"
	"leadflow/internal/modules/auth"
	"leadflow/internal/modules/events"
	"leadflow/internal/modules/lead"
	jwtsvc "leadflow/internal/pkg/jwt"
	"leadflow/internal/repository"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db))

	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	hub := events.NewHub()
	t.Cleanup(hub.Close)
	notifier := events.NewNotifier(hub)
	eventsHandler := events.NewHandler(hub, jwtService, nil)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	leadService := lead.NewService(leadRepo, notifier, nil)
	leadHandler := lead.NewHandler(leadService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterPublicRoutes(v1)
	eventsHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		leadHandler.RegisterRoutes(protected)
	}

	return &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: jwtService,
	}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return &resp
}

// registerAndLogin creates a user and returns a valid bearer token.
func (s *E2ETestSuite) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	w := s.makeRequest(http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"email":     email,
		"password":  "password123",
		"firstName": "Test",
		"lastName":  "User",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	token, ok := resp.Data["token"].(string)
	require.True(t, ok, "no token in register response")
	return token
}

func (s *E2ETestSuite) createLead(t *testing.T, token string, overrides map[string]interface{}) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{
		"firstName": "John",
		"lastName":  "Smith",
		"email":     fmt.Sprintf("lead%d@example.com", time.Now().UnixNano()),
		"phone":     "+15550001111",
		"company":   "TechCorp",
		"city":      "Austin",
		"state":     "TX",
		"source":    "website",
	}
	for k, v := range overrides {
		body[k] = v
	}

	w := s.makeRequest(http.MethodPost, "/api/v1/leads", body, token)
	require.Equal(t, http.StatusCreated, w.Code, "create lead failed: %s", w.Body.String())
	return parseResponse(t, w).Data
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	s := setupTestSuite(t)

	token := s.registerAndLogin(t, "owner@example.com")

	// Duplicate registration is rejected.
	w := s.makeRequest(http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"email":     "owner@example.com",
		"password":  "password123",
		"firstName": "Test",
		"lastName":  "User",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", parseResponse(t, w).Error.Code)

	// Login with the right password.
	w = s.makeRequest(http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "owner@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Wrong password.
	w = s.makeRequest(http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "owner@example.com",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Me returns the profile without the password hash.
	w = s.makeRequest(http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "owner@example.com", resp.Data["email"])
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestLeads_RequireAuth(t *testing.T) {
	s := setupTestSuite(t)

	for _, path := range []string{"/api/v1/leads", "/api/v1/leads/stats", "/api/v1/leads/1"} {
		w := s.makeRequest(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path=%s", path)
	}

	w := s.makeRequest(http.MethodGet, "/api/v1/leads", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeads_CRUD(t *testing.T) {
	s := setupTestSuite(t)
	token := s.registerAndLogin(t, "crud@example.com")

	created := s.createLead(t, token, map[string]interface{}{"email": "john@example.com", "score": 75})
	id := int64(created["id"].(float64))
	require.NotZero(t, id)
	assert.Equal(t, "new", created["status"])

	// Get.
	w := s.makeRequest(http.MethodGet, fmt.Sprintf("/api/v1/leads/%d", id), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "john@example.com", parseResponse(t, w).Data["email"])

	// Update.
	w = s.makeRequest(http.MethodPut, fmt.Sprintf("/api/v1/leads/%d", id), map[string]interface{}{
		"status":      "qualified",
		"isQualified": true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "qualified", resp.Data["status"])
	assert.Equal(t, true, resp.Data["isQualified"])

	// Delete.
	w = s.makeRequest(http.MethodDelete, fmt.Sprintf("/api/v1/leads/%d", id), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, fmt.Sprintf("/api/v1/leads/%d", id), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeads_ValidationErrors(t *testing.T) {
	s := setupTestSuite(t)
	token := s.registerAndLogin(t, "val@example.com")

	// Missing required fields.
	w := s.makeRequest(http.MethodPost, "/api/v1/leads", map[string]interface{}{
		"firstName": "Only",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", parseResponse(t, w).Error.Code)

	// Bad enum and out-of-range score.
	w = s.makeRequest(http.MethodPost, "/api/v1/leads", map[string]interface{}{
		"firstName": "John",
		"lastName":  "Smith",
		"email":     "x@example.com",
		"phone":     "+15550001111",
		"company":   "TechCorp",
		"city":      "Austin",
		"state":     "TX",
		"source":    "carrier_pigeon",
		"score":     150,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed JSON body.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", parseResponse(t, rec).Error.Code)

	// Invalid ID.
	w = s.makeRequest(http.MethodGet, "/api/v1/leads/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", parseResponse(t, w).Error.Code)
}

func TestLeads_DuplicateEmail(t *testing.T) {
	s := setupTestSuite(t)
	tokenA := s.registerAndLogin(t, "a@example.com")
	tokenB := s.registerAndLogin(t, "b@example.com")

	s.createLead(t, tokenA, map[string]interface{}{"email": "dup@example.com"})

	w := s.makeRequest(http.MethodPost, "/api/v1/leads", map[string]interface{}{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "DUP@example.com", // normalized before the check
		"phone":     "+15550002222",
		"company":   "TechCorp",
		"city":      "Austin",
		"state":     "TX",
		"source":    "referral",
	}, tokenA)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", parseResponse(t, w).Error.Code)

	// The same email is fine under a different owner.
	s.createLead(t, tokenB, map[string]interface{}{"email": "dup@example.com"})
}

func TestLeads_TenantIsolation(t *testing.T) {
	s := setupTestSuite(t)
	tokenA := s.registerAndLogin(t, "tenant-a@example.com")
	tokenB := s.registerAndLogin(t, "tenant-b@example.com")

	created := s.createLead(t, tokenA, nil)
	id := int64(created["id"].(float64))

	// B cannot see, update or delete A's lead.
	w := s.makeRequest(http.MethodGet, fmt.Sprintf("/api/v1/leads/%d", id), nil, tokenB)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.makeRequest(http.MethodPut, fmt.Sprintf("/api/v1/leads/%d", id), map[string]interface{}{"status": "won"}, tokenB)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.makeRequest(http.MethodDelete, fmt.Sprintf("/api/v1/leads/%d", id), nil, tokenB)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// B's list is empty.
	w = s.makeRequest(http.MethodGet, "/api/v1/leads", nil, tokenB)
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, float64(0), resp.Data["total"])
}

func TestLeads_ListFiltersAndPagination(t *testing.T) {
	s := setupTestSuite(t)
	token := s.registerAndLogin(t, "list@example.com")

	for i := 0; i < 5; i++ {
		s.createLead(t, token, map[string]interface{}{
			"email":  fmt.Sprintf("won%d@example.com", i),
			"status": "won",
			"score":  80,
		})
	}
	for i := 0; i < 3; i++ {
		s.createLead(t, token, map[string]interface{}{
			"email":  fmt.Sprintf("new%d@example.com", i),
			"status": "new",
			"score":  20,
		})
	}

	// Filter by status.
	filters := url.QueryEscape(`{"status":{"equals":"won"}}`)
	w := s.makeRequest(http.MethodGet, "/api/v1/leads?filters="+filters, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, float64(5), resp.Data["total"])

	// Paginate the filtered set.
	w = s.makeRequest(http.MethodGet, "/api/v1/leads?filters="+filters+"&page=2&limit=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, float64(5), resp.Data["total"])
	assert.Equal(t, float64(3), resp.Data["totalPages"])
	assert.Equal(t, float64(2), resp.Data["page"])
	assert.Len(t, resp.Data["data"], 2)

	// Number range filter.
	filters = url.QueryEscape(`{"score":{"gt":50}}`)
	w = s.makeRequest(http.MethodGet, "/api/v1/leads?filters="+filters, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), parseResponse(t, w).Data["total"])

	// Unknown filter fields are ignored.
	filters = url.QueryEscape(`{"nickname":{"equals":"x"}}`)
	w = s.makeRequest(http.MethodGet, "/api/v1/leads?filters="+filters, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(8), parseResponse(t, w).Data["total"])

	// Malformed filters payload is a hard 400.
	w = s.makeRequest(http.MethodGet, "/api/v1/leads?filters="+url.QueryEscape("{broken"), nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MALFORMED_FILTER", parseResponse(t, w).Error.Code)

	// Out-of-range page parameters are clamped, not rejected.
	w = s.makeRequest(http.MethodGet, "/api/v1/leads?page=-1&limit=9999", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, float64(1), resp.Data["page"])
	assert.Equal(t, float64(100), resp.Data["limit"])
}

func TestLeads_Stats(t *testing.T) {
	s := setupTestSuite(t)
	token := s.registerAndLogin(t, "stats@example.com")

	s.createLead(t, token, map[string]interface{}{"email": "s1@example.com", "status": "won", "score": 80, "leadValue": 1000, "isQualified": true})
	s.createLead(t, token, map[string]interface{}{"email": "s2@example.com", "status": "won", "score": 60, "leadValue": 500})
	s.createLead(t, token, map[string]interface{}{"email": "s3@example.com", "status": "new", "score": 10, "leadValue": 200})

	w := s.makeRequest(http.MethodGet, "/api/v1/leads/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, float64(3), resp.Data["total"])
	assert.Equal(t, float64(1), resp.Data["qualified"])
	assert.Equal(t, float64(50), resp.Data["averageScore"])
	assert.Equal(t, float64(1700), resp.Data["totalValue"])

	statusCounts := resp.Data["statusCounts"].(map[string]interface{})
	assert.Equal(t, float64(2), statusCounts["won"])
	assert.Equal(t, float64(1), statusCounts["new"])
	assert.Equal(t, float64(0), statusCounts["lost"])

	// Stats honor filters and cover the whole filtered set, not a page.
	filters := url.QueryEscape(`{"status":{"equals":"won"}}`)
	w = s.makeRequest(http.MethodGet, "/api/v1/leads/stats?filters="+filters, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, float64(2), resp.Data["total"])
	assert.Equal(t, float64(70), resp.Data["averageScore"])

	// Empty set: zeroed stats with the full enum key set.
	filters = url.QueryEscape(`{"status":{"equals":"lost"}}`)
	w = s.makeRequest(http.MethodGet, "/api/v1/leads/stats?filters="+filters, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, float64(0), resp.Data["total"])
	assert.Equal(t, float64(0), resp.Data["averageScore"])
	assert.Len(t, resp.Data["sourceCounts"], 6)
}

func TestEvents_WebsocketRequiresToken(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(http.MethodGet, "/api/v1/leads/ws", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/leads/ws?token=garbage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
