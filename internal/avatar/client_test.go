package avatar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateStoresImage(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("fake-png-bytes"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	c := New(ts.URL, "secret", dir)

	path, err := c.Generate(context.Background(), "aei-123", "Portrait of Luna.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if path != filepath.Join(dir, "aei-123.png") {
		t.Errorf("path = %q", path)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored image: %v", err)
	}
	if string(data) != "fake-png-bytes" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestGenerateAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer ts.Close()

	c := New(ts.URL, "", t.TempDir())
	if _, err := c.Generate(context.Background(), "aei-123", "Portrait."); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestGenerateEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := New(ts.URL, "", t.TempDir())
	if _, err := c.Generate(context.Background(), "aei-123", "Portrait."); err == nil {
		t.Fatal("expected error for empty image body")
	}
}
