package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValue(t *testing.T) {
	tests := []struct {
		in       string
		key, val string
		ok       bool
	}{
		{"x-a=1", "x-a", "1", true},
		{"X-B: two", "X-B", "two", true},
		{"url=http://x", "url", "http://x", true},
		{"=v", "", "", false},
		{"novalue", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, v, ok := KeyValue(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, k)
			assert.Equal(t, tt.val, v)
		})
	}
}

func TestHeaders(t *testing.T) {
	h, err := Headers([]string{"x-a=1", "x-a=2", "content-type:text/plain"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x-a": "2", "content-type": "text/plain"}, h)

	h, err = Headers(nil)
	require.NoError(t, err)
	assert.Nil(t, h)

	_, err = Headers([]string{"broken"})
	assert.ErrorContains(t, err, `invalid header "broken"`)
}
