package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rewritable lists the element attributes that may point at local files.
var rewritable = map[atom.Atom]string{
	atom.Img: "src",
	atom.A:   "href",
}

// RewriteRelativePaths turns relative img[src] and a[href] values of an HTML
// body fragment into absolute file:// URLs under sourceDir. The browser loads
// the document from memory, so relative paths would not resolve otherwise.
// Paths escaping sourceDir, URLs, anchors and absolute paths are left as is.
// An empty sourceDir returns the fragment unchanged.
func RewriteRelativePaths(fragment, sourceDir string) (string, error) {
	if sourceDir == "" {
		return fragment, nil
	}
	dir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteTree(n, dir)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteTree(n *html.Node, dir string) {
	if n.Type == html.ElementNode {
		if key, ok := rewritable[n.DataAtom]; ok {
			for i, attr := range n.Attr {
				if attr.Key == key && attr.Namespace == "" {
					if abs, ok := localPath(attr.Val, dir); ok {
						n.Attr[i].Val = fileURL(abs)
					}
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteTree(c, dir)
	}
}

// localPath resolves a relative reference against dir. It reports false for
// URLs, anchors, absolute paths and references escaping dir.
func localPath(ref, dir string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return "", false
	}
	if filepath.IsAbs(ref) {
		return "", false
	}

	abs := filepath.Clean(filepath.Join(dir, ref))
	root := filepath.Clean(dir) + string(filepath.Separator)
	if !strings.HasPrefix(abs+string(filepath.Separator), root) {
		return "", false
	}
	return abs, true
}

func fileURL(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}
