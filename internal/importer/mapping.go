package importer

import (
	"strings"
)

// ContentRoot is the repository path pages live under on the authoring
// host.
const ContentRoot = "/content/danaher/ls"

var inboundSuffixes = []string{".plain.html", ".html", ".md"}

// MapInbound maps a published path to its authoring path: suffixes are
// stripped, folder paths resolve to their index page and the content root
// is prefixed.
//
//	/us/en/products.md -> /content/danaher/ls/us/en/products.html
//	/                  -> /content/danaher/ls/index.html
func MapInbound(path string) string {
	p := "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	p = strings.TrimPrefix(p, ContentRoot)
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	for _, suffix := range inboundSuffixes {
		if strings.HasSuffix(p, suffix) {
			p = strings.TrimSuffix(p, suffix)
			break
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return ContentRoot + p + ".html"
}
