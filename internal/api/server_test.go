package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testServer() *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(log)
}

func getJSON(t *testing.T, srv *Server, path string, wantStatus int) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("GET %s = %d, want %d: %s", path, rec.Code, wantStatus, rec.Body.String())
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("GET %s: bad JSON: %v", path, err)
	}
	return out
}

func TestHealth(t *testing.T) {
	out := getJSON(t, testServer(), "/health", http.StatusOK)
	if out["status"] != "ok" {
		t.Errorf("health = %v", out)
	}
}

func TestVersionEndpoint(t *testing.T) {
	out := getJSON(t, testServer(), "/api/v1/version", http.StatusOK)
	if out["version"] == "" {
		t.Errorf("version = %v", out)
	}
}

func TestListModels(t *testing.T) {
	out := getJSON(t, testServer(), "/api/v1/models", http.StatusOK)
	ms, ok := out["models"].([]interface{})
	if !ok || len(ms) != 3 {
		t.Errorf("models = %v", out["models"])
	}
}

func TestParameterSets(t *testing.T) {
	srv := testServer()

	out := getJSON(t, srv, "/api/v1/parameter-sets", http.StatusOK)
	sets, ok := out["parameter_sets"].([]interface{})
	if !ok || len(sets) != 3 {
		t.Fatalf("parameter_sets = %v", out)
	}

	out = getJSON(t, srv, "/api/v1/parameter-sets/chen2020", http.StatusOK)
	values, ok := out["values"].(map[string]interface{})
	if !ok {
		t.Fatalf("values = %v", out)
	}
	if values["Nominal cell capacity [A.h]"] != 5.0 {
		t.Errorf("capacity = %v", values["Nominal cell capacity [A.h]"])
	}

	getJSON(t, srv, "/api/v1/parameter-sets/lgm50_2047", http.StatusNotFound)
}

func TestPresetsEndpoint(t *testing.T) {
	out := getJSON(t, testServer(), "/api/v1/presets", http.StatusOK)
	presets, ok := out["presets"].(map[string]interface{})
	if !ok || presets["spm"] == nil {
		t.Errorf("presets = %v", out)
	}
}

func postSolve(t *testing.T, srv *Server, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSolveShortRun(t *testing.T) {
	srv := testServer()
	rec := postSolve(t, srv, SolveRequest{
		Model:    "spm",
		Duration: 30,
		Protocol: ProtocolRequest{Type: "cc", Amps: 5},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("solve = %d: %s", rec.Code, rec.Body.String())
	}

	var resp SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Model != "spm" || resp.ParameterSet != "chen2020" {
		t.Errorf("resp meta = %+v", resp)
	}
	if resp.Samples != 31 || len(resp.Voltage) != 31 {
		t.Errorf("samples = %d, voltages = %d", resp.Samples, len(resp.Voltage))
	}
	if resp.SOC[len(resp.SOC)-1] >= resp.SOC[0] {
		t.Error("SOC did not fall during discharge")
	}
}

func TestSolveCaching(t *testing.T) {
	srv := testServer()
	req := SolveRequest{Model: "spm", Duration: 10, Protocol: ProtocolRequest{Type: "rest"}}

	first := postSolve(t, srv, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first solve = %d", first.Code)
	}
	second := postSolve(t, srv, req)
	if second.Code != http.StatusOK {
		t.Fatalf("second solve = %d", second.Code)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached response differs from original")
	}
}

func TestSolveRejectsBadRequests(t *testing.T) {
	srv := testServer()

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"unknown model", SolveRequest{Model: "p6d", Duration: 10}, http.StatusBadRequest},
		{"unknown set", SolveRequest{ParameterSet: "nope", Duration: 10}, http.StatusBadRequest},
		{"excessive duration", SolveRequest{Duration: 1e9}, http.StatusBadRequest},
		{"unknown protocol", SolveRequest{Duration: 10, Protocol: ProtocolRequest{Type: "sine"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSolve(t, srv, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON = %d", rec.Code)
	}
}
