package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"homeclean/internal/database"
	"homeclean/internal/domain"
	"homeclean/internal/middleware"
	"homeclean/internal/modules/auth"
	"homeclean/internal/modules/property"
	"homeclean/internal/modules/quote"
	jwtsvc "homeclean/internal/pkg/jwt"
	"homeclean/internal/repository"
)

const cookieName = "hc_session"

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
	users      *repository.UserRepository
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
	db, err := database.Open(":memory:")
	require.NoError(t, err, "Failed to open test database")

	require.NoError(t, repository.AutoMigrate(db), "Failed to migrate")

	userRepo := repository.NewUserRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 7*24*time.Hour)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService, cookieName, false, "Lax", "/", 7*24*time.Hour)

	quoteService := quote.NewService(quoteRepo)
	quoteHandler := quote.NewHandler(quoteService)

	propertyService := property.NewService(propertyRepo)
	propertyHandler := property.NewHandler(propertyService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	public := v1.Group("")
	public.Use(middleware.OptionalSessionAuth(jwtService, cookieName))
	{
		authHandler.RegisterPublicRoutes(public)
		quoteHandler.RegisterPublicRoutes(public)
	}

	protected := v1.Group("")
	protected.Use(middleware.SessionAuth(jwtService, cookieName))
	{
		authHandler.RegisterProtectedRoutes(protected)
		quoteHandler.RegisterProtectedRoutes(protected)
		propertyHandler.RegisterProtectedRoutes(protected)
	}

	return &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: jwtService,
		users:      userRepo,
	}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string, headers map[string]string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	return &resp
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}

// createStaff inserts a staff account directly; staff roles are provisioned
// out of band, there is no registration endpoint for them.
func (s *E2ETestSuite) createStaff(t *testing.T, email string, role domain.UserRole) string {
	hash, err := bcrypt.GenerateFromPassword([]byte("staff123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Staff Member",
		Phone:        "512-555-0002",
		Role:         role,
	}
	require.NoError(t, s.users.Create(context.Background(), u))

	token, err := s.jwtService.GenerateToken(u)
	require.NoError(t, err)
	return token
}

func registerClient(t *testing.T, suite *E2ETestSuite, email string) string {
	w := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"name":     "Test Client",
		"phone":    "512-555-0100",
	}, "", nil)
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())
	return sessionCookie(t, w)
}

func TestFlow_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("POST /auth/register", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "maria@example.com",
			"password": "password123",
			"name":     "Maria Lopez",
			"phone":    "512-555-0100",
		}, "", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := parseResponse(t, w)
		assert.True(t, resp.Success)

		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "maria@example.com", user["email"])
		assert.Equal(t, "client", user["role"])
		assert.NotEmpty(t, sessionCookie(t, w), "register starts a session")
	})

	t.Run("POST /auth/register duplicate", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "maria@example.com",
			"password": "password123",
			"name":     "Maria Again",
			"phone":    "512-555-0100",
		}, "", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "EMAIL_EXISTS", resp.Error.Code)
	})

	t.Run("POST /auth/login", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "maria@example.com",
			"password": "password123",
		}, "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, sessionCookie(t, w))
	})

	t.Run("POST /auth/login wrong password", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "maria@example.com",
			"password": "wrong",
		}, "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	})

	t.Run("GET /auth/me", func(t *testing.T) {
		loginW := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "maria@example.com",
			"password": "password123",
		}, "", nil)
		token := sessionCookie(t, loginW)

		w := suite.makeRequest("GET", "/api/v1/auth/me", nil, token, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "maria@example.com", user["email"])
	})

	t.Run("GET /auth/me without session", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/auth/me", nil, "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "UNAUTHENTICATED", resp.Error.Code)
	})
}

// The main funnel: an anonymous visitor starts a quote, fills it in using
// the draft key, signs up, claims the draft, and submits it.
func TestFlow_QuoteLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	var quoteID float64
	var draftKey string

	t.Run("POST /quotes/draft anonymous", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/quotes/draft", nil, "", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := parseResponse(t, w)
		quoteID = resp.Data["id"].(float64)
		draftKey = resp.Data["draftKey"].(string)
		assert.Len(t, draftKey, 32)
	})

	t.Run("PATCH /quotes/:id with draft key", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), map[string]interface{}{
			"contact": map[string]interface{}{
				"name":  "Maria Lopez",
				"phone": "512-555-0100",
			},
			"propertySnapshot": map[string]interface{}{
				"address": map[string]interface{}{
					"line1": "1204 Willow Creek Dr",
					"city":  "Austin",
					"state": "TX",
					"zip":   "78741",
				},
			},
			"frequency": "biweekly",
		}, "", map[string]string{"X-Draft-Key": draftKey})

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("PATCH /quotes/:id wrong key", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), map[string]interface{}{
			"notes": "sneaky",
		}, "", map[string]string{"X-Draft-Key": "0000000000000000deadbeefdeadbeef"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	var token string
	t.Run("claim after signup", func(t *testing.T) {
		token = registerClient(t, suite, "maria@example.com")

		w := suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%.0f/claim", quoteID), nil, token, map[string]string{"X-Draft-Key": draftKey})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("claim is one-shot", func(t *testing.T) {
		other := registerClient(t, suite, "intruder@example.com")

		w := suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%.0f/claim", quoteID), nil, other, map[string]string{"X-Draft-Key": draftKey})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("owner patches without key", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), map[string]interface{}{
			"notes": "second floor walkup",
		}, token, nil)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("POST /quotes/:id/submit", func(t *testing.T) {
		w := suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%.0f/submit", quoteID), nil, token, nil)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		q := resp.Data["quote"].(map[string]interface{})
		assert.Equal(t, "submitted", q["status"])
	})

	t.Run("no edits after submission", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), map[string]interface{}{
			"notes": "too late",
		}, token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "INVALID_STATE", resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "already submitted")
	})

	t.Run("GET /quotes/:id as owner", func(t *testing.T) {
		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), nil, token, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		q := resp.Data["quote"].(map[string]interface{})
		assert.Equal(t, "512-555-0100", q["contact"].(map[string]interface{})["phone"])
	})

	t.Run("GET /quotes/:id as stranger", func(t *testing.T) {
		other := registerClient(t, suite, "stranger@example.com")

		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), nil, other, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestFlow_SubmitValidation(t *testing.T) {
	suite := setupTestSuite(t)
	token := registerClient(t, suite, "empty@example.com")

	draftW := suite.makeRequest("POST", "/api/v1/quotes/draft", nil, "", nil)
	resp := parseResponse(t, draftW)
	quoteID := resp.Data["id"].(float64)
	draftKey := resp.Data["draftKey"].(string)

	t.Run("submit without phone", func(t *testing.T) {
		w := suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%.0f/submit", quoteID), nil, token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "Contact phone is required", resp.Error.Message)
	})

	t.Run("submit without property", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), map[string]interface{}{
			"contact": map[string]interface{}{"phone": "512-555-0100"},
		}, token, map[string]string{"X-Draft-Key": draftKey})
		require.Equal(t, http.StatusOK, w.Code)

		w = suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%.0f/submit", quoteID), nil, token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "Property is required (link or snapshot)", resp.Error.Message)
	})
}

func TestFlow_StaffLeadManagement(t *testing.T) {
	suite := setupTestSuite(t)

	// A submitted quote to work with.
	clientToken := registerClient(t, suite, "maria@example.com")
	draftW := suite.makeRequest("POST", "/api/v1/quotes/draft", nil, "", nil)
	resp := parseResponse(t, draftW)
	quoteID := resp.Data["id"].(float64)
	draftKey := resp.Data["draftKey"].(string)

	w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), map[string]interface{}{
		"contact": map[string]interface{}{"name": "Maria", "phone": "512-555-0100"},
		"propertySnapshot": map[string]interface{}{
			"address": map[string]interface{}{"line1": "1204 Willow Creek Dr", "city": "Austin", "state": "TX", "zip": "78741"},
		},
	}, clientToken, map[string]string{"X-Draft-Key": draftKey})
	require.Equal(t, http.StatusOK, w.Code)
	w = suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%.0f/submit", quoteID), nil, clientToken, map[string]string{"X-Draft-Key": draftKey})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	staffToken := suite.createStaff(t, "dan@brightandtidy.com", domain.RoleEmployee)

	t.Run("GET /quotes as staff sees all", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/quotes?status=submitted", nil, staffToken, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		quotes := resp.Data["quotes"].([]interface{})
		assert.Len(t, quotes, 1)
	})

	t.Run("GET /quotes as client sees own only", func(t *testing.T) {
		other := registerClient(t, suite, "other@example.com")

		w := suite.makeRequest("GET", "/api/v1/quotes", nil, other, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Empty(t, resp.Data["quotes"])
	})

	t.Run("PATCH /quotes/:id/lead-status", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f/lead-status", quoteID), map[string]interface{}{
			"leadStatus": "called",
			"note":       "spoke with Maria, wants biweekly",
		}, staffToken, nil)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		getW := suite.makeRequest("GET", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), nil, staffToken, nil)
		getResp := parseResponse(t, getW)
		admin := getResp.Data["quote"].(map[string]interface{})["admin"].(map[string]interface{})
		assert.Equal(t, "called", admin["leadStatus"])
	})

	t.Run("lead status rejected for clients", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f/lead-status", quoteID), map[string]interface{}{
			"leadStatus": "closed",
		}, clientToken, nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("PATCH /quotes/:id/assign", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f/assign", quoteID), map[string]interface{}{
			"assignedTo": 1,
		}, staffToken, nil)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("GET /quotes/stats", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/quotes/stats", nil, staffToken, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		stats := resp.Data["stats"].(map[string]interface{})
		assert.Equal(t, float64(1), stats["submitted"])
	})
}

func TestFlow_Properties(t *testing.T) {
	suite := setupTestSuite(t)
	token := registerClient(t, suite, "maria@example.com")

	var propertyID float64
	t.Run("POST /properties", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/properties", map[string]interface{}{
			"type":    "residential",
			"subtype": "house",
			"address": map[string]interface{}{
				"line1": "1204 Willow Creek Dr",
				"city":  "Austin",
				"state": "TX",
				"zip":   "78741",
			},
			"isDefault": true,
		}, token, nil)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		p := resp.Data["property"].(map[string]interface{})
		propertyID = p["id"].(float64)
		assert.NotZero(t, propertyID)
	})

	t.Run("GET /properties", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/properties", nil, token, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Len(t, resp.Data["properties"].([]interface{}), 1)
	})

	t.Run("GET /properties/:id stranger forbidden", func(t *testing.T) {
		other := registerClient(t, suite, "other@example.com")

		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/properties/%.0f", propertyID), nil, other, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("submit with linked property", func(t *testing.T) {
		draftW := suite.makeRequest("POST", "/api/v1/quotes/draft", nil, "", nil)
		resp := parseResponse(t, draftW)
		quoteID := resp.Data["id"].(float64)
		draftKey := resp.Data["draftKey"].(string)

		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/quotes/%.0f", quoteID), map[string]interface{}{
			"contact":    map[string]interface{}{"phone": "512-555-0100"},
			"propertyId": propertyID,
		}, token, map[string]string{"X-Draft-Key": draftKey})
		require.Equal(t, http.StatusOK, w.Code)

		w = suite.makeRequest("POST", fmt.Sprintf("/api/v1/quotes/%.0f/submit", quoteID), nil, token, nil)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
