package capture

import (
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/getmockd/hookd/pkg/requestlog"
)

// newRecord converts an inbound call into an unsaved CapturedRequest.
func newRecord(r *http.Request, ip string, body []byte) *requestlog.CapturedRequest {
	rec := &requestlog.CapturedRequest{
		Method:      r.Method,
		URL:         requestURL(r),
		Headers:     flattenHeaders(r),
		Query:       queryValues(r),
		IP:          ip,
		ContentType: r.Header.Get("Content-Type"),
	}

	if len(body) > 0 {
		if utf8.Valid(body) {
			rec.BodyRaw = string(body)
		} else {
			rec.BodyRaw = base64.StdEncoding.EncodeToString(body)
			rec.BodyEncoding = requestlog.BodyEncodingBase64
		}
	}
	return rec
}

// requestURL returns the escaped path plus the raw query string.
func requestURL(r *http.Request) string {
	u := r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		u += "?" + r.URL.RawQuery
	}
	return u
}

// flattenHeaders lower-cases header names and joins repeated values with ", ".
// net/http moves Host out of the header map, so it is restored here.
func flattenHeaders(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.Header)+1)
	for name, values := range r.Header {
		out[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	if r.Host != "" {
		if _, ok := out["host"]; !ok {
			out["host"] = r.Host
		}
	}
	return out
}

func queryValues(r *http.Request) map[string]requestlog.QueryValue {
	q := r.URL.Query()
	out := make(map[string]requestlog.QueryValue, len(q))
	for k, v := range q {
		out[k] = requestlog.QueryValue(v)
	}
	return out
}
