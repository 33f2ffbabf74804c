package workspace

import (
	"net/url"
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// PathURI returns the file URI of a path.
func PathURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// URIPath returns the file path of a file URI. Other strings are returned
// unchanged.
func URIPath(uri string) string {
	if !strings.HasPrefix(uri, fileScheme) {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, fileScheme)
	}
	return filepath.FromSlash(u.Path)
}
