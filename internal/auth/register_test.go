package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHandler(NewService(NewInMemoryUserRepository(), nil))
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	return r
}

func post(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var validRegistration = map[string]string{
	"full_name":   "Марія Коваль",
	"email":       "maria@example.com",
	"password":    "Password@123",
	"school_code": "SCH-17",
}

func TestRegisterSuccess(t *testing.T) {
	r := setupTestRouter()

	w := post(r, "/auth/register", validRegistration)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["role"] != RoleParent {
		t.Fatalf("expected default role %s, got %s", RoleParent, resp["role"])
	}
}

func TestRegisterMissingFields(t *testing.T) {
	r := setupTestRouter()

	w := post(r, "/auth/register", map[string]string{
		"email": "maria@example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	r := setupTestRouter()

	payload := map[string]string{"role": "RESTAURANT"}
	for k, v := range validRegistration {
		payload[k] = v
	}

	w := post(r, "/auth/register", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupTestRouter()

	// First request (should succeed)
	w1 := post(r, "/auth/register", validRegistration)
	if w1.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w1.Code)
	}

	// Second request (should fail)
	w2 := post(r, "/auth/register", validRegistration)
	if w2.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w2.Code)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	r := setupTestRouter()

	post(r, "/auth/register", validRegistration)

	w := post(r, "/auth/login", map[string]string{
		"email":    "MARIA@example.com",
		"password": "Password@123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)

	claims, err := ValidateToken(resp["token"])
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if claims.SchoolCode != "SCH-17" || claims.Role != RoleParent {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	w = post(r, "/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}
