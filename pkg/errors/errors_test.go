package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	if got := MetadataFor(CodeValidation).HTTPStatus; got != http.StatusBadRequest {
		t.Fatalf("validation status = %d", got)
	}
	if got := MetadataFor(CodeStateConflict).HTTPStatus; got != http.StatusUnprocessableEntity {
		t.Fatalf("state conflict status = %d", got)
	}
	if got := MetadataFor(Code("something_else")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code should fall back to internal, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("compenda unreachable")
	err := Wrap(CodeDependency, cause, "approve registration")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("code = %s", err.Code())
	}
}

func TestAs(t *testing.T) {
	typed := New(CodeNotFound, "registration not found")
	if As(typed) == nil {
		t.Fatal("expected typed error to be recovered")
	}
	if As(errors.New("plain")) != nil {
		t.Fatal("plain error should not convert")
	}
	if As(nil) != nil {
		t.Fatal("nil should not convert")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad serial").WithDetails(map[string]string{"serial": "is invalid"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["serial"] != "is invalid" {
		t.Fatalf("unexpected details: %v", err.Details())
	}
}
