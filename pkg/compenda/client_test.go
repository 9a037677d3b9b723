package compenda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.CompendaConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestApproveRegistrationSuccess(t *testing.T) {
	regID := uuid.New()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/registrations/approve" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var req approveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.RegistrationID != regID.String() {
			t.Errorf("registration id = %s", req.RegistrationID)
		}
		json.NewEncoder(w).Encode(ApproveResult{
			Success:             true,
			CompendaID:          "C1",
			Points:              50,
			IsFirstRegistration: true,
		})
	})

	result, err := client.ApproveRegistration(context.Background(), regID)
	if err != nil {
		t.Fatalf("ApproveRegistration: %v", err)
	}
	if result.CompendaID != "C1" || result.Points != 50 || !result.IsFirstRegistration {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestApproveRegistrationGatewayMessageSurfaced(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "serienummer onbekend bij Compenda"})
	})

	_, err := client.ApproveRegistration(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Message() != "serienummer onbekend bij Compenda" {
		t.Fatalf("message = %q", typed.Message())
	}
}

func TestApproveRegistrationRejectsNilID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := client.ApproveRegistration(context.Background(), uuid.Nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestApproveRegistrationUnsuccessfulBody(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ApproveResult{Success: false})
	})
	if _, err := client.ApproveRegistration(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for success=false")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(config.CompendaConfig{APIKey: "k"}); err != errBaseURLRequired {
		t.Fatalf("expected base url error, got %v", err)
	}
	if _, err := NewClient(config.CompendaConfig{BaseURL: "https://x"}); err != errAPIKeyRequired {
		t.Fatalf("expected api key error, got %v", err)
	}
}
