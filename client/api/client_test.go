package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Alexaslastina/makeadate/client/session"
	"github.com/Alexaslastina/makeadate/client/storage"
	"github.com/Alexaslastina/makeadate/internal/domain"
)

func TestLoginSavesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Email != "jane@example.com" {
			t.Errorf("email = %q", req.Email)
		}

		json.NewEncoder(w).Encode(domain.LoginResponse{
			User:        &domain.UserInfo{ID: "user-1", Email: req.Email, Role: domain.RoleCustomer},
			AccessToken: "server-token",
		})
	}))
	defer srv.Close()

	sess := session.NewCache(storage.NewMemStore())
	c := New(srv.URL, sess)

	resp, err := c.Login(context.Background(), "jane@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "server-token" {
		t.Errorf("token = %q", resp.AccessToken)
	}

	if !sess.IsLoggedIn() {
		t.Error("session not saved after login")
	}
	if got := sess.Token(); got != "server-token" {
		t.Errorf("session token = %q", got)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	sess := session.NewCache(storage.NewMemStore())
	if err := sess.Save(&domain.UserInfo{ID: "user-1", Email: "jane@example.com"}, "t"); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	c := New("http://unused", sess)
	if err := c.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sess.IsLoggedIn() {
		t.Error("still logged in after logout")
	}
}

func TestErrorResponsesDecodeIntoAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "this email is already registered",
			"message": "this email is already registered",
			"code":    "EMAIL_TAKEN",
		})
	}))
	defer srv.Close()

	sess := session.NewCache(storage.NewMemStore())
	c := New(srv.URL, sess)

	_, err := c.Register(context.Background(), &domain.CreateUserRequest{
		Email: "jane@example.com", Password: "secret1",
	})
	if err == nil {
		t.Fatal("Register succeeded against a 409")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("status = %d, want 409", apiErr.Status)
	}
	if apiErr.Code != "EMAIL_TAKEN" {
		t.Errorf("code = %q", apiErr.Code)
	}

	// A failed register leaves the client logged out.
	if sess.IsLoggedIn() {
		t.Error("session saved despite failed register")
	}
}

func TestBearerTokenAttachedWhenLoggedIn(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	sess := session.NewCache(storage.NewMemStore())
	if err := sess.Save(&domain.UserInfo{ID: "user-1", Email: "jane@example.com"}, "tok-123"); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	c := New(srv.URL, sess)
	if _, err := c.RequestPasswordReset(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestResetPasswordReturnsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Token != "tok" || req.NewPassword != "newsecret1" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Password has been reset successfully"})
	}))
	defer srv.Close()

	c := New(srv.URL, session.NewCache(storage.NewMemStore()))
	msg, err := c.ResetPassword(context.Background(), "tok", "newsecret1")
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if msg != "Password has been reset successfully" {
		t.Errorf("message = %q", msg)
	}
}
