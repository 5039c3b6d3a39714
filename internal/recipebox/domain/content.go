package domain

import "strings"

// DefaultContentID is used for pages whose path yields no usable segment.
const DefaultContentID = "default"

// ContentIDFromPath derives the content id of a page from its URL path: the
// last path segment with the first ".html" removed. "/recipes/pasta.html"
// becomes "pasta".
func ContentIDFromPath(path string) string {
	seg := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		seg = path[i+1:]
	}
	seg = strings.Replace(seg, ".html", "", 1)
	if seg == "" {
		return DefaultContentID
	}
	return seg
}
