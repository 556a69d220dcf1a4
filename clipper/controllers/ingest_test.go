package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"clipper/clipper/config"
	"clipper/clipper/services/extractor"
	"clipper/clipper/sources/psql/dao"
	"clipper/clipper/sources/psql/models"
	"clipper/clipper/utils/logging"
	"clipper/clipper/utils/types"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logging.InitLogger()
	os.Exit(m.Run())
}

func setupIngest(t *testing.T) (*IngestController, *dao.ClipDAO) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Clip{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Config{
		DefaultLanguage: "KR",
		HeavyBudget:     2 * time.Second,
		LightBudget:     time.Second,
	}
	clipDAO := dao.NewClipDAO(db)
	heavy := extractor.NewHeavyExtractor(extractor.NewMerger(), nil)
	orch := extractor.NewOrchestrator(heavy, cfg.HeavyBudget, cfg.LightBudget)
	return NewIngestController(orch, nil, clipDAO, nil, cfg), clipDAO
}

func articleServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Saved Post</title></head><body><article>
			<h1>Saved Post</h1>
			<p>A clip service has one job: whatever the page does, answer before the
			platform deadline. The expensive extraction strategy runs first and is
			abandoned the moment it threatens the budget.</p>
			<p>When that happens the service falls back to a single cheap fetch and
			returns whatever title and description it can scrape, clearly labeled as
			degraded so nobody mistakes it for the full result.</p>
			<p>Either way the caller gets a well-formed record and a status tag that
			says exactly which strategy produced it.</p>
			<img src="/img/photo.jpg" />
		</article></body></html>`)
	}))
}

func TestIngestFullClipPersisted(t *testing.T) {
	srv := articleServer(t)
	defer srv.Close()
	ctrl, clipDAO := setupIngest(t)

	req := types.IngestRequest{URL: srv.URL + "/post"}
	clip, meta, err := ctrl.Ingest(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if meta.Status != extractor.StatusFull {
		t.Fatalf("meta.Status = %q, want full", meta.Status)
	}
	if meta.ProcessingTimeMs < 0 {
		t.Errorf("processingTimeMs = %d", meta.ProcessingTimeMs)
	}
	if clip.Status != "full" || clip.Title != "Saved Post" {
		t.Errorf("clip = %+v", clip)
	}
	if clip.Language != "KR" {
		t.Errorf("language = %q, want default KR", clip.Language)
	}
	if clip.Summary == "" {
		t.Errorf("full clip without enricher should get a heuristic summary")
	}
	if len(clip.Images) == 0 {
		t.Errorf("images = %v, want at least the inline image", clip.Images)
	}

	stored, err := clipDAO.GetClipByID(context.Background(), clip.ID)
	if err != nil || stored == nil {
		t.Fatalf("clip not persisted: %v", err)
	}
	if stored.UserID != 1 || len(stored.Images) != len(clip.Images) {
		t.Errorf("stored clip mismatch: %+v", stored)
	}
}

func TestIngestDegradesToBasic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()
	ctrl, _ := setupIngest(t)

	clip, meta, err := ctrl.Ingest(context.Background(), 1, types.IngestRequest{URL: srv.URL + "/post"})
	if err != nil {
		t.Fatalf("Ingest must not fail on extraction errors: %v", err)
	}
	if meta.Status != extractor.StatusBasic {
		t.Fatalf("meta.Status = %q, want basic", meta.Status)
	}
	if clip.Title != "127.0.0.1" {
		t.Errorf("title = %q, want hostname", clip.Title)
	}
	if clip.Summary != clip.Title {
		t.Errorf("summary = %q, want derived from title when description empty", clip.Summary)
	}
}

func TestAssembleFullRedetectsPlatform(t *testing.T) {
	cfg := config.Config{DefaultLanguage: "KR"}
	ctrl := &IngestController{cfg: cfg}

	clip := &models.Clip{URL: "https://short.link/abc", SourceType: "web"}
	full := &extractor.Full{
		Title:    "A Video",
		RawText:  "transcript text",
		FinalURL: "https://www.youtube.com/watch?v=abc123",
	}
	ctrl.assembleFull(context.Background(), clip, full, types.IngestOptions{SkipAI: true})

	if clip.SourceType != "video" {
		t.Errorf("sourceType = %q, want video from finalUrl", clip.SourceType)
	}
	if clip.FinalURL != full.FinalURL {
		t.Errorf("finalUrl = %q", clip.FinalURL)
	}
}

func TestAssembleBasicFallbackTitle(t *testing.T) {
	clip := &models.Clip{}
	req := types.IngestRequest{
		URL:     "https://example.com/page",
		Options: types.IngestOptions{FallbackTitle: "Shared from app"},
	}
	assembleBasic(clip, &extractor.Basic{Title: "example.com"}, req)
	if clip.Title != "Shared from app" {
		t.Errorf("title = %q, want fallback title over bare hostname", clip.Title)
	}

	clip = &models.Clip{}
	assembleBasic(clip, &extractor.Basic{Title: "Real Title", Description: "desc"}, req)
	if clip.Title != "Real Title" {
		t.Errorf("title = %q, fallback must not override a real title", clip.Title)
	}
	if clip.Summary != "desc" {
		t.Errorf("summary = %q, want description", clip.Summary)
	}
}

func TestAssembleBasicPreviewImage(t *testing.T) {
	clip := &models.Clip{}
	assembleBasic(clip, &extractor.Basic{Title: "T", PreviewImage: "https://cdn/x.jpg"}, types.IngestRequest{URL: "https://example.com"})
	if len(clip.Images) != 1 || clip.Images[0] != "https://cdn/x.jpg" {
		t.Errorf("images = %v", clip.Images)
	}
}

func TestExcerpt(t *testing.T) {
	if got := excerpt("short text", 300); got != "short text" {
		t.Errorf("excerpt = %q", got)
	}
	long := ""
	for i := 0; i < 100; i++ {
		long += "word "
	}
	got := excerpt(long, 50)
	if len([]rune(got)) > 51 { // 50 runes plus ellipsis
		t.Errorf("excerpt too long: %d runes", len([]rune(got)))
	}
}
