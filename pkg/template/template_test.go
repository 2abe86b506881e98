package template

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/hookd/pkg/requestlog"
)

func TestRender(t *testing.T) {
	vars := Vars{ID: "abc", SpaceID: "demo", Method: "GET", URL: "/x?y=1"}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"known and unknown", "id={{id}} space={{spaceId}} x={{unknownKey}}", "id=abc space=demo x="},
		{"method and url", `{"m":"{{method}}","u":"{{url}}"}`, `{"m":"GET","u":"/x?y=1"}`},
		{"no placeholders", `{"ok":true}`, `{"ok":true}`},
		{"repeated", "{{id}}{{id}}", "abcabc"},
		{"dotted unknown", "a{{request.body}}b", "ab"},
		{"lone open", "a {{ b", "a {{ b"},
		{"lone close", "a }} b", "a }} b"},
		{"inner spaces kept", "{{ id }}", "{{ id }}"},
		{"empty name kept", "{{}}", "{{}}"},
		{"nested braces", "{{{id}}}", "{abc}"},
		{"case sensitive", "{{ID}}", ""},
		{"empty body", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.body, vars))
		})
	}
}

func TestVarsFrom(t *testing.T) {
	rec := &requestlog.CapturedRequest{ID: "r1", SpaceID: "s1", Method: "PUT", URL: "/p"}

	assert.Equal(t, Vars{ID: "r1", SpaceID: "s1", Method: "PUT", URL: "/p"}, VarsFrom(rec))
}

func TestLookup(t *testing.T) {
	v := Vars{ID: "i"}

	got, ok := v.Lookup("id")
	assert.True(t, ok)
	assert.Equal(t, "i", got)

	_, ok = v.Lookup("other")
	assert.False(t, ok)
}
