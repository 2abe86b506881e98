package sse

import "strings"

// FormatData frames data as a single event. Multi-line data is split across
// several data fields so the payload survives framing unchanged.
func FormatData(data string) string {
	if !strings.ContainsAny(data, "\r\n") {
		return fieldData + " " + data + "\n\n"
	}

	var sb strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		sb.WriteString(fieldData)
		sb.WriteByte(' ')
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}

// FormatKeepalive returns a keepalive comment.
func FormatKeepalive() string {
	return fieldComment + " keepalive\n\n"
}
