// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"strings"
)

// KeyValue parses a "key=value" or "key:value" string, splitting on whichever
// delimiter comes first. The key and value are trimmed.
func KeyValue(s string) (key, value string, ok bool) {
	i := strings.IndexAny(s, "=:")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(s[:i])
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(s[i+1:]), true
}

// Headers parses repeated "name=value" flags into a map. Later entries for
// the same name win.
func Headers(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	result := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := KeyValue(p)
		if !ok {
			return nil, fmt.Errorf("invalid header %q: expected name=value", p)
		}
		result[k] = v
	}
	return result, nil
}
