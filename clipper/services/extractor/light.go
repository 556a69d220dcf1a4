package extractor

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// maxLightBody caps how much of the response the fallback reads.
	maxLightBody = 1 << 20

	maxTitleLen = 200
	maxDescLen  = 500
)

var (
	titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaTagRe  = regexp.MustCompile(`(?is)<meta\b[^>]*>`)
	metaKeyRe  = regexp.MustCompile(`(?is)(?:property|name)\s*=\s*["']([^"']+)["']`)
	metaValRe  = regexp.MustCompile(`(?is)content\s*=\s*["']([^"']*)["']`)
)

// ExtractLight is the terminal fallback: one bounded GET plus a regex scan
// over whatever bytes arrived. It never returns an error; any failure
// degrades to hostname-as-title with an empty description.
//
// The budget is a real cancellation: the request context aborts the fetch
// at the wire level. If the deadline fires mid-body, the partial bytes are
// still scanned (the parser already tolerates missing fields).
func ExtractLight(ctx context.Context, rawURL string, budget time.Duration) Basic {
	fallback := Basic{Title: hostnameOf(rawURL)}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fallback
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fallback
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return fallback
	}

	// Keep whatever was read before an error; a timeout mid-body still
	// yields a scannable prefix.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxLightBody))
	if len(body) == 0 {
		return fallback
	}
	return parseLightHTML(string(body), rawURL, fallback.Title)
}

func parseLightHTML(doc, baseURL, hostTitle string) Basic {
	meta := map[string]string{}
	for _, tag := range metaTagRe.FindAllString(doc, -1) {
		key := firstGroup(metaKeyRe, tag)
		val := firstGroup(metaValRe, tag)
		if key == "" || val == "" {
			continue
		}
		key = strings.ToLower(key)
		if _, seen := meta[key]; !seen {
			meta[key] = html.UnescapeString(strings.TrimSpace(val))
		}
	}

	title := meta["og:title"]
	if title == "" {
		title = html.UnescapeString(strings.TrimSpace(firstGroup(titleTagRe, doc)))
	}
	if title == "" {
		title = hostTitle
	}

	desc := meta["og:description"]
	if desc == "" {
		desc = meta["description"]
	}

	image := meta["og:image"]
	if image != "" {
		image = resolveURL(baseURL, image)
	}

	return Basic{
		Title:        truncate(title, maxTitleLen),
		Description:  truncate(desc, maxDescLen),
		PreviewImage: image,
	}
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}

// resolveURL makes ref absolute against base. Unresolvable refs come back
// unchanged so the caller never loses data it already had.
func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
