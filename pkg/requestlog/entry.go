package requestlog

import (
	"encoding/json"
	"fmt"
)

// BodyEncodingBase64 marks a BodyRaw holding the base64 form of a body that
// was not valid UTF-8.
const BodyEncodingBase64 = "base64"

// CapturedRequest is one inbound request as recorded in a space.
type CapturedRequest struct {
	ID           string                `json:"id"`
	SpaceID      string                `json:"spaceId"`
	CreatedAt    int64                 `json:"createdAt"`
	Method       string                `json:"method"`
	URL          string                `json:"url"`
	Headers      map[string]string     `json:"headers"`
	Query        map[string]QueryValue `json:"query"`
	IP           string                `json:"ip"`
	BodyRaw      string                `json:"bodyRaw,omitempty"`
	BodyEncoding string                `json:"bodyEncoding,omitempty"`
	ContentType  string                `json:"contentType,omitempty"`
}

// QueryValue holds the values of one query parameter. It encodes as a plain
// string when there is exactly one value and as a list otherwise.
type QueryValue []string

// MarshalJSON implements json.Marshaler.
func (q QueryValue) MarshalJSON() ([]byte, error) {
	if len(q) == 1 {
		return json.Marshal(q[0])
	}
	if q == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(q))
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *QueryValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*q = QueryValue{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("query value must be a string or a list of strings: %w", err)
	}
	*q = QueryValue(many)
	return nil
}

// First returns the first value, or "" when there is none.
func (q QueryValue) First() string {
	if len(q) == 0 {
		return ""
	}
	return q[0]
}
