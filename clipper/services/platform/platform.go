package platform

import (
	"net/url"
	"strings"
)

// Source-type tags persisted on clips. Unknown hosts map to TagWeb.
const (
	TagVideo  = "video"
	TagSocial = "social"
	TagBlog   = "blog"
	TagWeb    = "web"
)

var videoHosts = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
	"twitch.tv",
}

var socialHosts = []string{
	"instagram.com",
	"tiktok.com",
	"twitter.com",
	"x.com",
	"threads.net",
	"facebook.com",
}

var blogHosts = []string{
	"blog.naver.com",
	"tistory.com",
	"brunch.co.kr",
	"velog.io",
	"medium.com",
	"substack.com",
}

// Detect maps a URL to a coarse source-type tag. It is pure and total:
// anything unparseable or unrecognized comes back as TagWeb.
//
// Callers run it twice per request: once on the input URL (advisory, for
// early logging) and once on the post-redirect final URL, which wins for
// persistence.
func Detect(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return TagWeb
	}
	switch {
	case matchesAny(host, videoHosts):
		return TagVideo
	case matchesAny(host, socialHosts):
		return TagSocial
	case matchesAny(host, blogHosts):
		return TagBlog
	default:
		return TagWeb
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
