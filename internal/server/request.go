package server

import (
	"bytes"
	"encoding/json"
)

// auditRequest is the body of POST /audit.
type auditRequest struct {
	URL     string      `json:"url"`
	Cookies CookieNames `json:"cookies"`
}

// CookieNames is a list of cookie names decoded leniently: strings are kept
// as-is and any other JSON value is converted to its compact JSON text, so
// 123 becomes "123" and true becomes "true".
type CookieNames []string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CookieNames) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	names := make([]string, 0, len(raw))
	for _, r := range raw {
		var s *string
		if err := json.Unmarshal(r, &s); err == nil && s != nil {
			names = append(names, *s)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, r); err != nil {
			return err
		}
		names = append(names, buf.String())
	}
	*c = names
	return nil
}

// errorResponse is returned for 400 responses.
type errorResponse struct {
	Error string `json:"error"`
}

// failureResponse is returned for 500 responses. The empty risk list and
// zero total let clients render it like an empty report.
type failureResponse struct {
	Error string   `json:"error"`
	Risks []string `json:"risks"`
	Total int      `json:"total"`
}

// healthResponse is returned by GET /health.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
