// Package template renders configured response bodies.
//
// A body may contain {{name}} placeholders. The names id, spaceId, method
// and url are replaced with values from the captured request; any other
// well-formed name renders as the empty string. Text that does not form a
// placeholder, such as a lone "{{" or "{{ two words }}", is left verbatim.
package template

import (
	"regexp"

	"github.com/getmockd/hookd/pkg/requestlog"
)

// placeholderRegex matches {{name}} with no inner whitespace.
var placeholderRegex = regexp.MustCompile(`\{\{([A-Za-z0-9_.]+)\}\}`)

// Vars are the values available to a template.
type Vars struct {
	ID      string
	SpaceID string
	Method  string
	URL     string
}

// VarsFrom extracts template values from a captured request.
func VarsFrom(rec *requestlog.CapturedRequest) Vars {
	return Vars{
		ID:      rec.ID,
		SpaceID: rec.SpaceID,
		Method:  rec.Method,
		URL:     rec.URL,
	}
}

// Lookup returns the value for a placeholder name and whether it is known.
func (v Vars) Lookup(name string) (string, bool) {
	switch name {
	case "id":
		return v.ID, true
	case "spaceId":
		return v.SpaceID, true
	case "method":
		return v.Method, true
	case "url":
		return v.URL, true
	}
	return "", false
}

// Render substitutes every placeholder in body.
func Render(body string, vars Vars) string {
	return placeholderRegex.ReplaceAllStringFunc(body, func(match string) string {
		name := match[2 : len(match)-2]
		value, _ := vars.Lookup(name)
		return value
	})
}
