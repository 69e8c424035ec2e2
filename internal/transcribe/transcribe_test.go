package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func audioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attempt.wav")
	if err := os.WriteFile(path, []byte("RIFF-pretend-audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClientTranscribe(t *testing.T) {
	var gotContentType, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "  The Cat SAT on the mat  "}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sekrit")
	got, err := c.Transcribe(context.Background(), audioFixture(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "the cat sat on the mat" {
		t.Fatalf("transcript = %q", got)
	}
	if gotContentType != "audio/wav" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotAuth != "Bearer sekrit" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestClientTranscribeAltField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transcript": "hello there"}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "").Transcribe(context.Background(), audioFixture(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("transcript = %q", got)
	}
}

func TestClientTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "").Transcribe(context.Background(), audioFixture(t)); err == nil {
		t.Fatal("expected error from failing inference server")
	}
}

func TestClientTranscribeNoTranscriptField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "").Transcribe(context.Background(), audioFixture(t)); err == nil {
		t.Fatal("expected error when the response has no transcript")
	}
}

func TestClientTranscribeMissingFile(t *testing.T) {
	c := NewClient("http://localhost:1", "")
	if _, err := c.Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("expected error for missing recording")
	}
}
