// clipper/controllers/ingest.go
package controllers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"clipper/clipper/config"
	"clipper/clipper/services/enrich"
	"clipper/clipper/services/extractor"
	"clipper/clipper/services/platform"
	"clipper/clipper/sources/psql/dao"
	"clipper/clipper/sources/psql/models"
	"clipper/clipper/sources/storage"
	"clipper/clipper/utils/logging"
	"clipper/clipper/utils/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// summaryExcerptLen is the heuristic summary length when no AI summary is
// available for a full clip.
const summaryExcerptLen = 300

// IngestController runs one URL through the extraction pipeline and
// assembles the persisted clip. enricher and cache may be nil; both are
// optional collaborators.
type IngestController struct {
	orch     *extractor.Orchestrator
	enricher *enrich.Client
	clipDAO  *dao.ClipDAO
	cache    *storage.MinIOClient
	cfg      config.Config
}

func NewIngestController(orch *extractor.Orchestrator, enricher *enrich.Client, clipDAO *dao.ClipDAO, cache *storage.MinIOClient, cfg config.Config) *IngestController {
	return &IngestController{
		orch:     orch,
		enricher: enricher,
		clipDAO:  clipDAO,
		cache:    cache,
		cfg:      cfg,
	}
}

// Ingest extracts, assembles, and persists one clip. By the time it runs,
// validation and auth have already passed; extraction itself cannot fail
// (it degrades), so errors here are persistence-level only.
func (c *IngestController) Ingest(ctx context.Context, userID int, req types.IngestRequest) (*models.Clip, types.IngestMeta, error) {
	defer logging.LogDuration(ctx, "ingest")()

	// Advisory only; a redirect may change the effective platform.
	initialTag := platform.Detect(req.URL)
	logging.AppLogger.Info("ingesting clip",
		zap.String("url", req.URL),
		zap.String("source_type", initialTag),
		zap.Int("user_id", userID))

	outcome := c.orch.Run(ctx, req.URL)

	language := req.Language
	if language == "" {
		language = c.cfg.DefaultLanguage
	}

	clip := &models.Clip{
		ID:         uuid.NewString(),
		UserID:     userID,
		URL:        req.URL,
		SourceType: initialTag,
		Status:     outcome.Status,
		Language:   language,
		CreatedAt:  time.Now(),
	}

	switch outcome.Status {
	case extractor.StatusFull:
		c.assembleFull(ctx, clip, outcome.Full, req.Options)
	case extractor.StatusBasic:
		assembleBasic(clip, outcome.Basic, req)
	}

	if c.cache != nil && !req.Options.SkipImageCache && len(clip.Images) > 0 {
		clip.Images = c.cache.CacheAll(ctx, clip.Images)
	}

	if err := c.clipDAO.CreateClip(ctx, clip); err != nil {
		return nil, types.IngestMeta{}, err
	}

	meta := types.IngestMeta{
		Status:           outcome.Status,
		ProcessingTimeMs: outcome.Elapsed.Milliseconds(),
	}
	return clip, meta, nil
}

func (c *IngestController) assembleFull(ctx context.Context, clip *models.Clip, full *extractor.Full, opts types.IngestOptions) {
	clip.FinalURL = full.FinalURL
	if full.FinalURL != "" {
		// The post-redirect platform wins for persistence.
		clip.SourceType = platform.Detect(full.FinalURL)
	}
	clip.Title = full.Title
	clip.RawText = full.RawText
	clip.HTMLContent = full.HTMLContent
	clip.Images = full.Images
	clip.Author = full.Author
	clip.AuthorAvatar = full.AuthorAvatar
	clip.AuthorHandle = full.AuthorHandle

	if !opts.SkipAI && c.enricher != nil {
		result, err := c.enricher.Enrich(ctx, clip.Title, clip.RawText, clip.Language)
		if err == nil {
			clip.Summary = result.Summary
			clip.Tags = result.Tags
			clip.Category = result.Category
			return
		}
		// Enrichment failure must not corrupt a successful extraction.
		logging.ErrorLogger.Error("enrichment failed", zap.String("url", clip.URL), zap.Error(err))
	}
	clip.Summary = excerpt(clip.RawText, summaryExcerptLen)
}

func assembleBasic(clip *models.Clip, basic *extractor.Basic, req types.IngestRequest) {
	title := basic.Title
	if req.Options.FallbackTitle != "" && (title == "" || title == hostnameOf(req.URL)) {
		title = req.Options.FallbackTitle
	}
	clip.Title = title
	clip.Description = basic.Description

	clip.Summary = basic.Description
	if clip.Summary == "" {
		clip.Summary = title
	}
	if basic.PreviewImage != "" {
		clip.Images = []string{basic.PreviewImage}
	}
}

func excerpt(text string, max int) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}

func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}
