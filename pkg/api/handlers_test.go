package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ssargent/btreemset/pkg/service"
)

func newTestServer(t *testing.T) (*Server, *chi.Mux) {
	t.Helper()
	svc, err := service.New(3)
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	server := NewServer(svc, ServerConfig{Port: 0, Degree: 3}, NewMetricsWithRegistry(prometheus.NewRegistry()))

	r := chi.NewRouter()
	r.Post("/api/v1/keys", server.handleInsert)
	r.Get("/api/v1/keys", server.handleListKeys)
	r.Get("/api/v1/keys/{key}", server.handleContains)
	r.Delete("/api/v1/keys/{key}", server.handleRemove)
	r.Get("/api/v1/health", server.handleHealth)
	r.Get("/api/v1/stats", server.handleStats)
	return server, r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v, body=%s", err, rec.Body.String())
	}
	return resp
}

func TestHandleInsertAndContains(t *testing.T) {
	_, r := newTestServer(t)

	body, _ := json.Marshal(InsertRequest{Key: "alpha"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/keys", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("insert: got status %d, body=%s", rec.Code, rec.Body.String())
	}
	if !decodeResponse(t, rec).Success {
		t.Fatalf("insert: expected success response")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/keys/alpha", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("contains: got status %d, want 200", rec.Code)
	}
}

func TestHandleInsertRejectsEmptyKey(t *testing.T) {
	_, r := newTestServer(t)

	body, _ := json.Marshal(InsertRequest{Key: ""})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/keys", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestHandleContainsMissingKeyReturns404(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/keys/absent", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestHandleRemoveThenContainsFalse(t *testing.T) {
	_, r := newTestServer(t)

	insertBody, _ := json.Marshal(InsertRequest{Key: "beta"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/keys", bytes.NewReader(insertBody))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/keys/beta", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: got status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/keys/beta", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404 after remove", rec.Code)
	}
}

func TestHandleRemoveAbsentKeyIsNoOp(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/keys/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 for no-op remove", rec.Code)
	}
}

func TestHandleListKeysAscendingWithDuplicates(t *testing.T) {
	_, r := newTestServer(t)

	for _, k := range []string{"c", "a", "b", "a"} {
		body, _ := json.Marshal(InsertRequest{Key: k})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/keys", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/keys", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %#v", resp.Data)
	}
	keys, ok := data["keys"].([]interface{})
	if !ok {
		t.Fatalf("unexpected keys shape: %#v", data["keys"])
	}
	want := []string{"a", "a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}

func TestHandleListKeysDistinct(t *testing.T) {
	_, r := newTestServer(t)

	for _, k := range []string{"c", "a", "b", "a"} {
		body, _ := json.Marshal(InsertRequest{Key: k})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/keys", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/keys?distinct=true", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	keys := data["keys"].([]interface{})
	if len(keys) != 3 {
		t.Fatalf("got %v, want 3 distinct keys", keys)
	}
}

func TestHandleHealth(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
}

func TestHandleStatsReflectsApproxSize(t *testing.T) {
	_, r := newTestServer(t)

	for _, k := range []string{"x", "y"} {
		body, _ := json.Marshal(InsertRequest{Key: k})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/keys", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp struct {
		Success bool          `json:"success"`
		Data    StatsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.ApproxSize != 2 {
		t.Fatalf("got ApproxSize=%d, want 2", resp.Data.ApproxSize)
	}
}
