package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mijnfegon/mijnfegon-backend/pkg/config"
)

func TestSend(t *testing.T) {
	var got sendgridRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mail/send" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sg-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewClient(
		config.SendgridConfig{APIKey: "sg-key", DefaultFrom: "noreply@mijnfegon.nl"},
		WithBaseURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	err = client.Send(context.Background(), Message{
		To:       "installer@example.nl",
		Subject:  "Registratie goedgekeurd",
		HTMLBody: "<p>50 Drops</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "installer@example.nl" {
		t.Fatalf("unexpected personalizations: %+v", got.Personalizations)
	}
	if got.From.Email != "noreply@mijnfegon.nl" {
		t.Fatalf("from = %s", got.From.Email)
	}
}

func TestSendSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad template"}]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := NewClient(config.SendgridConfig{APIKey: "k"}, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.Send(context.Background(), Message{To: "a@b.nl"}); err == nil {
		t.Fatal("expected error for 4xx response")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(config.SendgridConfig{}); err != errAPIKeyRequired {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	client, err := NewClient(config.SendgridConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.Send(context.Background(), Message{}); err == nil {
		t.Fatal("expected recipient error")
	}
}
