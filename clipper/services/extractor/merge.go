package extractor

import (
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MergeRules is the on-disk shape of the platform exception table.
type MergeRules struct {
	// ContentFirst lists domains whose real content images live only in
	// the article body, with the discovery pass returning noise. For
	// those the content-pipeline images lead the merged list.
	ContentFirst []string `yaml:"content_first"`
}

// defaultContentFirst ships the one known exception. New platforms are
// added here or via a rules file, never inferred.
var defaultContentFirst = []string{"blog.naver.com"}

// Merger combines the two heavy-pipeline image lists into one
// deduplicated, order-stable list.
type Merger struct {
	contentFirst []string
}

func NewMerger() *Merger {
	return &Merger{contentFirst: defaultContentFirst}
}

// LoadRules replaces the exception table with the contents of a YAML
// file. An empty file keeps the defaults.
func (m *Merger) LoadRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var rules MergeRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return err
	}
	if len(rules.ContentFirst) > 0 {
		m.contentFirst = rules.ContentFirst
	}
	return nil
}

// Merge dedups by exact URL string, preserving first occurrence order.
// Default ordering is discovery images first, then content images; for
// exception domains the order flips.
func (m *Merger) Merge(contentImages, discoveredImages []string, finalURL string) []string {
	first, second := discoveredImages, contentImages
	if m.isContentFirst(finalURL) {
		first, second = contentImages, discoveredImages
	}

	seen := map[string]bool{}
	merged := make([]string, 0, len(first)+len(second))
	for _, u := range append(append([]string{}, first...), second...) {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		merged = append(merged, u)
	}
	return merged
}

func (m *Merger) isContentFirst(finalURL string) bool {
	u, err := url.Parse(finalURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range m.contentFirst {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
