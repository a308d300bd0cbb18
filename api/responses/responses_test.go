package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/types"
)

func decodeError(t *testing.T, body []byte) types.ErrorEnvelope {
	t.Helper()

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"slug": "gravel-fork"})

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data["slug"] != "gravel-fork" {
		t.Fatalf("unexpected payload %+v", envelope)
	}
}

func TestWriteSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, 201, nil)
	if rec.Code != 201 {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestWriteErrorValidationKeepsMessageAndDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase").
		WithDetails(map[string]any{"fields": []string{"slug"}})

	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body.Bytes())
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "slug must be lowercase" {
		t.Fatalf("expected message passthrough, got %q", envelope.Error.Message)
	}
	if envelope.Error.Details == nil {
		t.Fatalf("expected details for validation errors")
	}
}

func TestWriteErrorInternalHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "pq: relation missing").
		WithDetails(map[string]string{"table": "orders"})

	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 500 {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body.Bytes())
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal message must not leak, got %q", envelope.Error.Message)
	}
	if envelope.Error.Details != nil {
		t.Fatalf("details must not leak for internal errors")
	}
}

func TestWriteErrorUntypedDefaultsToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, fmt.Errorf("raw failure"))

	if rec.Code != 500 {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	envelope := decodeError(t, rec.Body.Bytes())
	if envelope.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}
