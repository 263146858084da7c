package imagehost

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gadgetshub/storefront-backend/pkg/config"
	pkgerrors "github.com/gadgetshub/storefront-backend/pkg/errors"
	"github.com/gadgetshub/storefront-backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client, err := NewClient(context.Background(), config.ImageHostConfig{
		UploadURL:   server.URL,
		APIKey:      "test-key",
		Timeout:     5 * time.Second,
		MaxUploadMB: 1,
	}, logg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	if _, err := NewClient(context.Background(), config.ImageHostConfig{}, logg); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestUploadReturnsHostedURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(2 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("key"); got != "test-key" {
			t.Fatalf("expected api key field, got %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "rx.png" {
			t.Fatalf("unexpected filename %q", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"url":"https://img.example/rx.png"}}`))
	}))

	url, err := client.Upload(context.Background(), "rx.png", strings.NewReader("fake-image-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://img.example/rx.png" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("oversized upload must not reach the host")
	}))

	oversized := strings.NewReader(strings.Repeat("x", (1<<20)+1))
	_, err := client.Upload(context.Background(), "rx.png", oversized)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadMapsHostRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"message":"unsupported format"}}`))
	}))

	_, err := client.Upload(context.Background(), "rx.bmp", strings.NewReader("bytes"))
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected domain error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}
	if typed.Message() != "unsupported format" {
		t.Fatalf("expected host message, got %q", typed.Message())
	}
}

func TestUploadMapsHostOutage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Upload(context.Background(), "rx.png", strings.NewReader("bytes"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
