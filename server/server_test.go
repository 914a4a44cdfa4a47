package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ricedoctor/knowledge"
	"ricedoctor/metrics"
)

func newTestServer(t *testing.T, password string) *Server {
	t.Helper()

	store := metrics.NewStore(metrics.DefaultStoreConfig(), time.Now())
	store.SetModelLoaded(true)
	api := NewAPI(&stubDiagnoser{result: leafBlastResult()},
		knowledge.MustNewBase(), store, nil, DefaultAPIConfig(), nil)

	auth, err := NewBasicAuth(password, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(DefaultServerConfig(), api, auth, nil)
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t, "")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/health", http.StatusOK},
		{"/api/labels", http.StatusOK},
		{"/api/metrics", http.StatusOK},
		{"/api/history", http.StatusOK},
		{"/nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestServerAuthProtectsAPIButNotHealth(t *testing.T) {
	srv := newTestServer(t, "secret")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// Health stays open for orchestration probes.
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// API endpoints require credentials.
	resp, err = http.Get(ts.URL + "/api/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("GET /api/metrics without creds = %d, want %d",
			resp.StatusCode, http.StatusUnauthorized)
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/metrics", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth("operator", "secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /api/metrics with creds = %d, want %d",
			resp.StatusCode, http.StatusOK)
	}
}
