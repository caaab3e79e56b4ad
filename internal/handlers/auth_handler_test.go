package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Bilal-BS/PF-Tracker/internal/errors"
	"github.com/Bilal-BS/PF-Tracker/internal/logger"
	"github.com/Bilal-BS/PF-Tracker/internal/middleware"
	"github.com/Bilal-BS/PF-Tracker/internal/models"
	"github.com/Bilal-BS/PF-Tracker/internal/services"
	"github.com/Bilal-BS/PF-Tracker/internal/validator"
)

const (
	testUserID     = "0190a6f0-0000-7000-8000-000000000001"
	testCategoryID = "0190a6f0-0000-7000-8000-0000000000c1"
	testTxID       = "0190a6f0-0000-7000-8000-0000000000f1"
)

// --- mock services ---

type mockUserService struct {
	registerFn     func(name, email, password string) (*models.User, error)
	authenticateFn func(email, password string) (*models.User, error)
	getUserByIDFn  func(id string) (*models.User, error)
}

func (m *mockUserService) Register(name, email, password string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(name, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Authenticate(email, password string) (*models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

var _ services.UserServicer = (*mockUserService)(nil)

type auditEntry struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func testTokens() *middleware.TokenManager {
	return middleware.NewTokenManager("test-secret", time.Hour)
}

func testUser() *models.User {
	return &models.User{
		Base:  models.Base{ID: testUserID, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Name:  "Alice",
		Email: "alice@example.com",
	}
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/auth/profile", injectUserID(testUserID), handler.GetProfile)
	return r
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func errorDetailFields(t *testing.T, result map[string]interface{}) []string {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	details, _ := errObj["details"].([]interface{})
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.(map[string]interface{})["field"].(string))
	}
	return fields
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotName, gotEmail string
		userSvc := &mockUserService{
			registerFn: func(name, email, _ string) (*models.User, error) {
				gotName, gotEmail = name, email
				u := testUser()
				u.Password = "hash"
				return u, nil
			},
		}
		audit := &mockAuditService{}
		tokens := testTokens()
		handler := NewAuthHandler(userSvc, audit, tokens)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"name":"Alice","email":"alice@example.com","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotName != "Alice" || gotEmail != "alice@example.com" {
			t.Errorf("service got name=%q email=%q", gotName, gotEmail)
		}

		result := parseJSON(t, rec)
		if result["message"] != "User created successfully" {
			t.Errorf("unexpected message %v", result["message"])
		}
		token, _ := result["token"].(string)
		claims, err := tokens.Parse(token)
		if err != nil {
			t.Fatalf("returned token does not verify: %v", err)
		}
		if claims.UserID != testUserID {
			t.Errorf("expected token for %s, got %s", testUserID, claims.UserID)
		}

		user := result["user"].(map[string]interface{})
		if user["id"] != testUserID || user["email"] != "alice@example.com" {
			t.Errorf("unexpected user %v", user)
		}
		if _, leaked := user["password"]; leaked {
			t.Error("password hash leaked in response")
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditRegister {
			t.Errorf("expected REGISTER audit entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 with details on invalid body", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"name":"A","email":"not-an-email","password":"short"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INVALID_INPUT")

		fields := errorDetailFields(t, result)
		want := map[string]bool{"name": true, "email": true, "password": true}
		if len(fields) != len(want) {
			t.Fatalf("expected details for %v, got %v", want, fields)
		}
		for _, f := range fields {
			if !want[f] {
				t.Errorf("unexpected detail field %s", f)
			}
		}
	})

	t.Run("returns 400 on malformed json", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"name":`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(_, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"name":"Alice","email":"dup@example.com","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(email, password string) (*models.User, error) {
				if email != "alice@example.com" || password != "password123" {
					t.Errorf("unexpected credentials %s/%s", email, password)
				}
				return testUser(), nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"alice@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["message"] != "Login successful" {
			t.Errorf("unexpected message %v", result["message"])
		}
		if token, _ := result["token"].(string); token == "" {
			t.Error("expected non-empty token")
		}
	})

	t.Run("returns 401 on invalid credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		audit := &mockAuditService{}
		handler := NewAuthHandler(userSvc, audit, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"alice@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
		if len(audit.entries) != 0 {
			t.Errorf("failed login must not be audited as LOGIN, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"alice@example.com"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	t.Run("returns 200 with user", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				if id != testUserID {
					t.Errorf("expected id %s, got %s", testUserID, id)
				}
				return testUser(), nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "GET", "/auth/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["name"] != "Alice" {
			t.Errorf("expected Alice, got %v", user["name"])
		}
	})

	t.Run("returns 404 when user is gone", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(_ string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "GET", "/auth/profile", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
	})

	t.Run("returns 401 without user in context", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{}, testTokens())
		r := gin.New()
		r.GET("/auth/profile", handler.GetProfile)

		rec := doRequest(r, "GET", "/auth/profile", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
