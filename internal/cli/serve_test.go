package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/jsonkit/ecmason/pkg/cache"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := charmlog.NewWithOptions(io.Discard, charmlog.Options{})
	srv := httptest.NewServer(newRouter(logger, cache.NewNullCache(), time.Hour))
	t.Cleanup(srv.Close)
	return srv
}

func TestServeHealthz(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response should carry a request ID")
	}
}

func TestServeFormat(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/v1/format?indent=2", "application/json",
		strings.NewReader(`{ "a" : 1 }`))
	if err != nil {
		t.Fatalf("POST /v1/format error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body formatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Output != "{\n  \"a\": 1\n}" {
		t.Errorf("output = %q", body.Output)
	}
	if body.Cached {
		t.Error("null cache should never report a hit")
	}
}

func TestServeFormatInvalidInput(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/v1/format", "application/json",
		strings.NewReader(`{broken`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body.Error == "" {
		t.Error("error body should describe the failure")
	}
}

func TestServeFormatBadIndent(t *testing.T) {
	srv := testServer(t)

	for _, q := range []string{"indent=11", "indent=-1", "indent=abc"} {
		resp, err := http.Post(srv.URL+"/v1/format?"+q, "application/json",
			strings.NewReader(`1`))
		if err != nil {
			t.Fatalf("POST error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("indent %q: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestServeValidate(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/v1/validate", "application/json",
		strings.NewReader(`[1, 2, 3]`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/v1/validate", "application/json",
		strings.NewReader(`[1, 2,`))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !strings.Contains(body.Error, "offset") {
		t.Errorf("error %q should mention the offset", body.Error)
	}
}

func TestServeRequestIDEchoed(t *testing.T) {
	srv := testServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", bytes.NewReader(nil))
	req.Header.Set("X-Request-ID", "fixed-id")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want %q", got, "fixed-id")
	}
}
