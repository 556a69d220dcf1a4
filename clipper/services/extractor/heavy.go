package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"clipper/clipper/utils/logging"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// maxHeavyBody caps a single heavy-path document read.
const maxHeavyBody = 5 << 20

// HeavyExtractor runs the full-fidelity strategy: a content pipeline
// (redirect resolution, readability main text, inline images, author
// identity) and an independent page-wide image discovery pipeline. It has
// no timeout of its own; the caller's context bounds its wall-clock
// impact, and cancelling that context aborts in-flight requests.
type HeavyExtractor struct {
	client   *http.Client
	merger   *Merger
	renderer *Renderer
}

// NewHeavyExtractor builds the extractor. renderer may be nil, in which
// case the discovery pipeline fetches raw HTML like the content pipeline.
func NewHeavyExtractor(merger *Merger, renderer *Renderer) *HeavyExtractor {
	return &HeavyExtractor{
		client:   &http.Client{},
		merger:   merger,
		renderer: renderer,
	}
}

type contentResult struct {
	title        string
	rawText      string
	htmlContent  string
	images       []string
	author       string
	authorAvatar string
	authorHandle string
	finalURL     string
}

// Extract joins both pipelines. Either one failing fails the whole call;
// partial heavy results are not a supported outcome.
func (h *HeavyExtractor) Extract(ctx context.Context, rawURL string) (*Full, error) {
	defer logging.LogDuration(ctx, "heavy_extract")()

	type contentMsg struct {
		c   *contentResult
		err error
	}
	type imagesMsg struct {
		imgs []string
		err  error
	}

	contentCh := make(chan contentMsg, 1)
	imagesCh := make(chan imagesMsg, 1)

	go func() {
		c, err := h.extractContent(ctx, rawURL)
		contentCh <- contentMsg{c, err}
	}()
	go func() {
		imgs, err := h.discoverImages(ctx, rawURL)
		imagesCh <- imagesMsg{imgs, err}
	}()

	cm := <-contentCh
	im := <-imagesCh
	if cm.err != nil {
		return nil, fmt.Errorf("content pipeline: %w", cm.err)
	}
	if im.err != nil {
		return nil, fmt.Errorf("image pipeline: %w", im.err)
	}

	return &Full{
		Title:        cm.c.title,
		RawText:      cm.c.rawText,
		HTMLContent:  cm.c.htmlContent,
		Images:       h.merger.Merge(cm.c.images, im.imgs, cm.c.finalURL),
		Author:       cm.c.author,
		AuthorAvatar: cm.c.authorAvatar,
		AuthorHandle: cm.c.authorHandle,
		FinalURL:     cm.c.finalURL,
	}, nil
}

// extractContent follows redirects, runs readability over the final
// document, and pulls author identity from the page metadata.
func (h *HeavyExtractor) extractContent(ctx context.Context, rawURL string) (*contentResult, error) {
	body, finalURL, err := h.fetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(bytes.NewReader(body), finalURL)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, fmt.Errorf("no main content found")
	}

	res := &contentResult{
		title:       strings.TrimSpace(article.Title),
		rawText:     strings.TrimSpace(article.TextContent),
		htmlContent: article.Content,
		images:      inlineImages(article.Content, finalURL),
		author:      strings.TrimSpace(article.Byline),
		finalURL:    finalURL.String(),
	}

	if doc, derr := goquery.NewDocumentFromReader(bytes.NewReader(body)); derr == nil {
		name, avatar, handle := authorIdentity(doc)
		if res.author == "" {
			res.author = name
		}
		res.authorAvatar = avatar
		res.authorHandle = handle
	}
	return res, nil
}

// discoverImages is the broader candidate pass: og:image plus every image
// element on the page, independent of the main content flow.
func (h *HeavyExtractor) discoverImages(ctx context.Context, rawURL string) ([]string, error) {
	var body []byte
	var base *url.URL

	if h.renderer != nil {
		rendered, err := h.renderer.Render(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		body = []byte(rendered)
		base, err = url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		body, base, err = h.fetchHTML(ctx, rawURL)
		if err != nil {
			return nil, err
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	var candidates []string
	doc.Find(`meta[property="og:image"]`).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("content"); ok {
			candidates = append(candidates, v)
		}
	})
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("src"); ok {
			candidates = append(candidates, v)
		} else if v, ok := s.Attr("data-src"); ok {
			candidates = append(candidates, v)
		} else if v, ok := s.Attr("srcset"); ok {
			candidates = append(candidates, firstSrcsetURL(v))
		}
	})

	return normalizeImageURLs(candidates, base), nil
}

func (h *HeavyExtractor) fetchHTML(ctx context.Context, rawURL string) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHeavyBody))
	if err != nil {
		return nil, nil, err
	}
	// resp.Request carries the last URL of the redirect chain.
	return body, resp.Request.URL, nil
}

// inlineImages lists the <img> URLs already embedded in the extracted
// article body, in document order.
func inlineImages(articleHTML string, base *url.URL) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		return nil
	}
	var imgs []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("src"); ok {
			imgs = append(imgs, v)
		}
	})
	return normalizeImageURLs(imgs, base)
}

// normalizeImageURLs resolves candidates against base, drops non-http
// schemes, and dedups while preserving first-seen order.
func normalizeImageURLs(candidates []string, base *url.URL) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || strings.HasPrefix(c, "data:") {
			continue
		}
		ref, err := url.Parse(c)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}
		u := abs.String()
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

func firstSrcsetURL(srcset string) string {
	first := strings.Split(srcset, ",")[0]
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// authorIdentity pulls whatever author metadata the page exposes: meta
// tags first, then JSON-LD author objects.
func authorIdentity(doc *goquery.Document) (name, avatar, handle string) {
	if v, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok {
		name = strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[name="twitter:creator"]`).Attr("content"); ok {
		handle = strings.TrimSpace(v)
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		n, av, h := jsonldAuthor(payload)
		if name == "" {
			name = n
		}
		if avatar == "" {
			avatar = av
		}
		if handle == "" {
			handle = h
		}
		return name == "" || avatar == "" || handle == ""
	})
	return name, avatar, handle
}

func jsonldAuthor(payload any) (name, avatar, handle string) {
	switch v := payload.(type) {
	case []any:
		for _, item := range v {
			n, av, h := jsonldAuthor(item)
			if n != "" || av != "" || h != "" {
				return n, av, h
			}
		}
	case map[string]any:
		author, ok := v["author"]
		if !ok {
			return "", "", ""
		}
		if list, ok := author.([]any); ok && len(list) > 0 {
			author = list[0]
		}
		m, ok := author.(map[string]any)
		if !ok {
			return "", "", ""
		}
		name, _ = m["name"].(string)
		handle, _ = m["url"].(string)
		switch img := m["image"].(type) {
		case string:
			avatar = img
		case map[string]any:
			avatar, _ = img["url"].(string)
		}
	}
	return name, avatar, handle
}
