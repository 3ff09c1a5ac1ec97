package browser

import (
	"net/url"
	"strings"
)

// Resource types as reported by the DevTools protocol.
const (
	ResourceDocument   = "Document"
	ResourceStylesheet = "Stylesheet"
	ResourceScript     = "Script"
	ResourceImage      = "Image"
	ResourceMedia      = "Media"
	ResourceFont       = "Font"
)

// mathFontHosts lists path fragments of math engine font URLs that remote
// font requests may match.
var mathFontHosts = []string{"katex", "mathjax"}

// ShouldAllowRequest decides whether the page may fetch rawURL. Images and
// media load only from data: and file: URLs. Fonts load from data:, file:
// and math engine font locations. Documents, stylesheets and scripts always
// load. Any other remote resource is blocked.
func ShouldAllowRequest(resourceType, rawURL string) bool {
	local := isLocal(rawURL)

	switch resourceType {
	case ResourceDocument, ResourceStylesheet, ResourceScript:
		return true
	case ResourceImage, ResourceMedia:
		return local
	case ResourceFont:
		return local || isMathFont(rawURL)
	default:
		return local
	}
}

func isLocal(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "data", "file", "blob", "about":
		return true
	}
	return false
}

func isMathFont(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	target := strings.ToLower(u.Host + u.Path)
	for _, h := range mathFontHosts {
		if strings.Contains(target, h) {
			return true
		}
	}
	return false
}
