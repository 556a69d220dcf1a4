package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"clipper/clipper/utils/logging"
)

func TestMain(m *testing.M) {
	logging.InitLogger()
	os.Exit(m.Run())
}

func TestExtractLightParsesOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head>
			<title>Plain Title</title>
			<meta property="og:title" content="OG Title" />
			<meta property="og:description" content="OG description here" />
			<meta property="og:image" content="/images/preview.jpg" />
		</head><body>hi</body></html>`)
	}))
	defer srv.Close()

	b := ExtractLight(context.Background(), srv.URL, time.Second)
	if b.Title != "OG Title" {
		t.Errorf("title = %q, want OG Title", b.Title)
	}
	if b.Description != "OG description here" {
		t.Errorf("description = %q", b.Description)
	}
	if b.PreviewImage != srv.URL+"/images/preview.jpg" {
		t.Errorf("previewImage = %q, want resolved absolute URL", b.PreviewImage)
	}
}

func TestExtractLightFallbackPriority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head>
			<title>Tag Title</title>
			<meta name="description" content="meta description" />
		</head><body></body></html>`)
	}))
	defer srv.Close()

	b := ExtractLight(context.Background(), srv.URL, time.Second)
	if b.Title != "Tag Title" {
		t.Errorf("title = %q, want <title> fallback", b.Title)
	}
	if b.Description != "meta description" {
		t.Errorf("description = %q, want meta description fallback", b.Description)
	}
	if b.PreviewImage != "" {
		t.Errorf("previewImage = %q, want empty", b.PreviewImage)
	}
}

func TestExtractLightTruncates(t *testing.T) {
	longTitle := strings.Repeat("t", 300)
	longDesc := strings.Repeat("d", 700)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head>
			<meta property="og:title" content="%s" />
			<meta property="og:description" content="%s" />
		</head></html>`, longTitle, longDesc)
	}))
	defer srv.Close()

	b := ExtractLight(context.Background(), srv.URL, time.Second)
	if len(b.Title) != maxTitleLen {
		t.Errorf("title length = %d, want %d", len(b.Title), maxTitleLen)
	}
	if len(b.Description) != maxDescLen {
		t.Errorf("description length = %d, want %d", len(b.Description), maxDescLen)
	}
}

func TestExtractLightUnreachableHostNeverFails(t *testing.T) {
	// Port 1 refuses connections; the fallback must degrade, not error.
	b := ExtractLight(context.Background(), "http://127.0.0.1:1/page", 500*time.Millisecond)
	if b.Title != "127.0.0.1" {
		t.Errorf("title = %q, want hostname", b.Title)
	}
	if b.Description != "" {
		t.Errorf("description = %q, want empty", b.Description)
	}
}

func TestExtractLightNonHTMLDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4")
	}))
	defer srv.Close()

	b := ExtractLight(context.Background(), srv.URL, time.Second)
	if b.Title != "127.0.0.1" {
		t.Errorf("title = %q, want hostname for non-HTML response", b.Title)
	}
}

func TestExtractLightScansPartialBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><meta property="og:title" content="Partial Page" />`)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		time.Sleep(2 * time.Second) // body never finishes within budget
	}))
	defer srv.Close()

	start := time.Now()
	b := ExtractLight(context.Background(), srv.URL, 300*time.Millisecond)
	if elapsed := time.Since(start); elapsed > 1500*time.Millisecond {
		t.Errorf("budget not enforced, took %v", elapsed)
	}
	if b.Title != "Partial Page" {
		t.Errorf("title = %q, want value scanned from partial body", b.Title)
	}
}

func TestExtractLightTimeoutBeforeHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	b := ExtractLight(context.Background(), srv.URL, 200*time.Millisecond)
	if b.Title != "127.0.0.1" {
		t.Errorf("title = %q, want hostname after timeout", b.Title)
	}
}
