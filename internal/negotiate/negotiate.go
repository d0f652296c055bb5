// Package negotiate decides whether a not-found response is rendered as JSON or HTML.
package negotiate

import (
	"strings"

	"github.com/munnerz/goautoneg"
)

// Format is the representation chosen for a response.
type Format int

const (
	// HTML is a rendered page for browsers.
	HTML Format = iota
	// JSON is a structured body for API clients.
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "html"
}

// Negotiate picks JSON when the request path starts with apiPrefix or the Accept header lists a
// JSON media type, and HTML otherwise. An empty apiPrefix disables the path rule.
func Negotiate(accept, path, apiPrefix string) Format {
	if apiPrefix != "" && strings.HasPrefix(path, apiPrefix) {
		return JSON
	}
	if AcceptsJSON(accept) {
		return JSON
	}
	return HTML
}

// AcceptsJSON reports whether accept names application/json or a +json structured syntax type
// (application/problem+json, application/vnd.api+json, ...) with a non-zero quality.
// Wildcards do not count: browsers send */* with every navigation.
func AcceptsJSON(accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return false
	}
	for _, clause := range goautoneg.ParseAccept(accept) {
		if clause.Q <= 0 {
			continue
		}
		if !strings.EqualFold(clause.Type, "application") {
			continue
		}
		sub := strings.ToLower(clause.SubType)
		if sub == "json" || strings.HasSuffix(sub, "+json") {
			return true
		}
	}
	return false
}
