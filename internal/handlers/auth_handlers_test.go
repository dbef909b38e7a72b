package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Alexaslastina/makeadate/internal/domain"
	"github.com/Alexaslastina/makeadate/pkg/auth"
	"github.com/Alexaslastina/makeadate/pkg/config"
)

// stubAuthService scripts service outcomes per test case.
type stubAuthService struct {
	registerResp *domain.LoginResponse
	registerErr  error
	loginResp    *domain.LoginResponse
	loginErr     error
	resetReqErr  error
	resetErr     error

	resetRequests []string
}

func (s *stubAuthService) Register(context.Context, *domain.CreateUserRequest) (*domain.LoginResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) Login(context.Context, *domain.LoginRequest) (*domain.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) RequestPasswordReset(_ context.Context, email string) error {
	s.resetRequests = append(s.resetRequests, email)
	return s.resetReqErr
}

func (s *stubAuthService) ResetPassword(context.Context, string, string) error {
	return s.resetErr
}

type stubUserService struct {
	stats *domain.UserStats
}

func (s *stubUserService) List(context.Context, int, int) ([]domain.UserInfo, error) {
	return []domain.UserInfo{}, nil
}

func (s *stubUserService) FindByEmail(context.Context, string) (*domain.UserInfo, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) Stats(context.Context) (*domain.UserStats, error) {
	return s.stats, nil
}

func (s *stubUserService) UpdateRole(context.Context, string, string) (*domain.UserInfo, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) Delete(context.Context, string) error { return nil }

func (s *stubUserService) Create(context.Context, *domain.CreateUserRequest) (*domain.UserInfo, error) {
	return nil, nil
}

func testRouter(authSvc *stubAuthService, userSvc *stubUserService) http.Handler {
	cfg := &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTL: time.Hour},
	}
	h := New(authSvc, userSvc, nil, cfg)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/reset-password", h.ResetPassword)
		})
		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequireJWT(domain.RoleAdmin))
			r.Get("/stats/overview", h.GetUserStats)
		})
	})
	return r
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func sessionFixture() *domain.LoginResponse {
	return &domain.LoginResponse{
		User: &domain.UserInfo{
			ID:    "user-1",
			Email: "jane@example.com",
			Role:  domain.RoleCustomer,
		},
		AccessToken: "token",
	}
}

func TestRegisterCreated(t *testing.T) {
	svc := &stubAuthService{registerResp: sessionFixture()}
	router := testRouter(svc, &stubUserService{})

	rec := postJSON(t, router, "/api/auth/register", domain.CreateUserRequest{
		Email: "jane@example.com", Password: "secret1",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var resp domain.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("response missing access token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := &stubAuthService{registerErr: domain.ErrEmailTaken}
	router := testRouter(svc, &stubUserService{})

	rec := postJSON(t, router, "/api/auth/register", domain.CreateUserRequest{
		Email: "jane@example.com", Password: "secret1",
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var errResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp["code"] != "EMAIL_TAKEN" {
		t.Errorf("code = %q, want EMAIL_TAKEN", errResp["code"])
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	router := testRouter(svc, &stubUserService{})

	rec := postJSON(t, router, "/api/auth/login", domain.LoginRequest{
		Email: "jane@example.com", Password: "wrong",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginBadJSON(t *testing.T) {
	router := testRouter(&stubAuthService{}, &stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestForgotPasswordAlwaysGenericSuccess(t *testing.T) {
	// Even when the service reports a failure the caller sees the
	// same 200 and message, so account existence never leaks.
	for name, svc := range map[string]*stubAuthService{
		"ok":      {},
		"failing": {resetReqErr: domain.ErrUserNotFound},
	} {
		t.Run(name, func(t *testing.T) {
			router := testRouter(svc, &stubUserService{})
			rec := postJSON(t, router, "/api/auth/forgot-password", domain.ForgotPasswordRequest{
				Email: "whoever@example.com",
			})

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["message"] != "Password reset instructions sent to your email" {
				t.Errorf("message = %q", resp["message"])
			}
		})
	}
}

func TestForgotPasswordRequiresEmail(t *testing.T) {
	router := testRouter(&stubAuthService{}, &stubUserService{})

	rec := postJSON(t, router, "/api/auth/forgot-password", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestResetPasswordTokenErrors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"unknown token", domain.ErrTokenNotFound, http.StatusNotFound, "TOKEN_NOT_FOUND"},
		{"used token", domain.ErrTokenUsed, http.StatusBadRequest, "TOKEN_INVALID"},
		{"expired token", domain.ErrTokenExpired, http.StatusBadRequest, "TOKEN_INVALID"},
		{"short password", domain.NewValidationError("password must be at least 6 characters"), http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(&stubAuthService{resetErr: tt.serviceErr}, &stubUserService{})
			rec := postJSON(t, router, "/api/auth/reset-password", domain.ResetPasswordRequest{
				Token: "whatever", NewPassword: "newsecret1",
			})

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["code"] != tt.wantCode {
				t.Errorf("code = %q, want %q", resp["code"], tt.wantCode)
			}
		})
	}
}

func TestResetPasswordSuccess(t *testing.T) {
	router := testRouter(&stubAuthService{}, &stubUserService{})

	rec := postJSON(t, router, "/api/auth/reset-password", domain.ResetPasswordRequest{
		Token: "validtoken", NewPassword: "newsecret1",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	userSvc := &stubUserService{stats: &domain.UserStats{TotalUsers: 3, TotalAdmins: 1, TotalCustomers: 2}}
	router := testRouter(&stubAuthService{}, userSvc)

	adminToken, err := auth.NewAccessToken("admin-1", "boss@example.com", domain.RoleAdmin, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}
	customerToken, err := auth.NewAccessToken("user-1", "jane@example.com", domain.RoleCustomer, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("mint customer token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"customer token", "Bearer " + customerToken, http.StatusForbidden},
		{"admin token", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/stats/overview", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
