// Package api is the HTTP client for the backend REST surface. On a
// successful register or login it writes the session cache, mirroring
// what the web client keeps in localStorage.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Alexaslastina/makeadate/client/session"
	"github.com/Alexaslastina/makeadate/internal/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Cache
}

func New(baseURL string, sess *session.Cache) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    sess,
	}
}

// APIError is a structured backend error response.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func (c *Client) Register(ctx context.Context, req *domain.CreateUserRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}

	if err := c.session.Save(resp.User, resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	req := domain.LoginRequest{Email: email, Password: password}
	if err := c.post(ctx, "/auth/login", &req, &resp); err != nil {
		return nil, err
	}

	if err := c.session.Save(resp.User, resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout() error {
	return c.session.Clear()
}

// RequestPasswordReset always yields the backend's generic message;
// it never reveals whether the address has an account.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	req := domain.ForgotPasswordRequest{Email: email}
	if err := c.post(ctx, "/auth/forgot-password", &req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	req := domain.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	if err := c.post(ctx, "/auth/reset-password", &req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
