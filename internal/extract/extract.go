// Package extract pulls candidate subscription URLs out of a crawled document.
//
// The crawler output is only loosely conventional: a mapping with a "subs"
// list, a list of plain strings, or a list of records keyed by "url", "sub"
// or "link". Extraction accepts all of these and silently skips anything
// else; a malformed entry is never an error.
package extract

import (
	"strings"

	"github.com/nao1215/procgen/internal/document"
)

// URLPrefix is the literal prefix every extracted URL starts with.
const URLPrefix = "http"

// subsKey holds the subscription list in the common mapping layout.
const subsKey = "subs"

// recordKeys are looked up, in priority order, on mapping elements of a list.
var recordKeys = []string{"url", "sub", "link"}

// URLs returns the unique http(s) URLs found in doc, in first-seen order.
func URLs(doc document.Node) []string {
	candidates := collect(doc, nil)

	seen := make(map[string]struct{}, len(candidates))
	urls := make([]string, 0, len(candidates))
	for _, u := range candidates {
		if u == "" || !strings.HasPrefix(u, URLPrefix) {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// collect appends the raw candidates of n to dst in traversal order.
func collect(n document.Node, dst []string) []string {
	switch n.Kind {
	case document.KindSequence:
		for _, item := range n.Items {
			if c, ok := candidate(item); ok {
				dst = append(dst, c)
			}
		}
	case document.KindMapping:
		if subs, ok := n.Lookup(subsKey); ok && subs.Kind == document.KindSequence {
			return collect(subs, dst)
		}
		for _, e := range n.Entries {
			dst = collect(e.Value, dst)
		}
	}
	return dst
}

// candidate returns the URL carried by one sequence element.
func candidate(item document.Node) (string, bool) {
	if s, ok := item.StringValue(); ok {
		return strings.TrimSpace(s), true
	}
	if item.Kind != document.KindMapping {
		return "", false
	}
	// The first key holding a value decides; a non-string value yields nothing.
	for _, key := range recordKeys {
		v, ok := item.Lookup(key)
		if !ok || !v.Truthy() {
			continue
		}
		s, ok := v.StringValue()
		if !ok {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	return "", false
}
