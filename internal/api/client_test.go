package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token() (string, bool) { return s.token, s.token != "" }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Params{Endpoint: srv.URL}, staticTokens{token: "test-token"})
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "endpoint override",
			params: Params{Endpoint: "https://vault.example.com/api"},
			want:   "https://vault.example.com/api",
		},
		{
			name:   "endpoint trailing slash stripped",
			params: Params{Endpoint: "https://vault.example.com/"},
			want:   "https://vault.example.com",
		},
		{
			name:   "host and port",
			params: Params{Host: "10.0.0.5", Port: 9000},
			want:   "http://10.0.0.5:9000",
		},
		{
			name:   "defaults",
			params: Params{},
			want:   "http://localhost:8000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveBaseURL(tt.params); got != tt.want {
				t.Errorf("resolveBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoTokenBlocksRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Write([]byte(`{"files": []}`))
	}))
	defer srv.Close()

	c := NewClient(Params{Endpoint: srv.URL}, staticTokens{})
	_, err := c.ListFiles(context.Background())

	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if requests != 0 {
		t.Errorf("request reached the server despite missing token")
	}
}

func TestBearerTokenInjected(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files": []}`))
	})

	if _, err := c.ListFiles(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestListFilesNormalizesFieldVariants(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files": [
			{"file_name": "a.pdf", "size_bytes": 100, "status": "encrypted", "tag_id": "t1"},
			{"filename": "b.pdf", "size": 200}
		]}`))
	})

	files, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}

	if files[0].FileName != "a.pdf" || files[0].SizeBytes != 100 {
		t.Errorf("canonical fields mangled: %+v", files[0])
	}
	if files[1].FileName != "b.pdf" {
		t.Errorf("legacy filename not normalized: %+v", files[1])
	}
	if files[1].SizeBytes != 200 {
		t.Errorf("legacy size not normalized: %+v", files[1])
	}
	if files[1].Status != "uploaded" {
		t.Errorf("missing status should default to uploaded, got %q", files[1].Status)
	}
}

func TestApiErrorPrefersDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "File missing.pdf not found"}`))
	})

	_, err := c.DecryptFile(context.Background(), "missing.pdf")

	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ApiError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Message != "File missing.pdf not found" {
		t.Errorf("message = %q, want the server detail", apiErr.Message)
	}
}

func TestApiErrorFallbackOnOpaqueBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	})

	_, err := c.EncryptFile(context.Background(), "a.pdf")

	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ApiError, got %v", err)
	}
	if apiErr.Message != "failed to encrypt a.pdf" {
		t.Errorf("message = %q, want the generic fallback", apiErr.Message)
	}
}

func TestDownloadDecryptedReturnsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download/decrypted/report.pdf" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte("plain bytes"))
	})

	data, err := c.DownloadDecrypted(context.Background(), "report.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "plain bytes" {
		t.Errorf("body = %q", data)
	}
}
