package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/features/health"
	"github.com/dalemusser/rollcall/internal/testutil"
)

func TestServe_OK(t *testing.T) {
	db := testutil.SetupTestStore(t)
	h := health.NewHandler(db, zap.NewNop())

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" || body["database"] != "connected" {
		t.Errorf("body = %v", body)
	}
	if body["backend"] != "jsonfile" {
		t.Errorf("backend = %q, want jsonfile", body["backend"])
	}
}
