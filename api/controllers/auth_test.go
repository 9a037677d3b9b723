package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mijnfegon/mijnfegon-backend/internal/auth"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
)

type stubAuthService struct {
	resp      *auth.LoginResponse
	err       error
	loggedOut []string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = append(s.loggedOut, accessID)
	return s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	handler := AuthLogin(&stubAuthService{resp: &auth.LoginResponse{AccessToken: "token-123"}}, nil)

	body := []byte(`{"email":"monteur@voorbeeld.nl","password":"geheim12"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token-123" {
		t.Fatalf("access token = %q", envelope.Data.AccessToken)
	}
}

func TestAuthLoginRejectsMissingFields(t *testing.T) {
	handler := AuthLogin(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"monteur@voorbeeld.nl"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginSurfacesUnauthorized(t *testing.T) {
	handler := AuthLogin(&stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	body := []byte(`{"email":"monteur@voorbeeld.nl","password":"onjuist12"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("error code = %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "invalid credentials" {
		t.Fatalf("error message = %q", envelope.Error.Message)
	}
}

func TestAuthRegisterCreated(t *testing.T) {
	handler := AuthRegister(&stubAuthService{resp: &auth.LoginResponse{AccessToken: "fresh"}}, nil)

	body := []byte(`{"email":"nieuw@voorbeeld.nl","password":"wachtwoord","name":"Piet"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}
