package cloudflare

import "strings"

// Zone is one DNS zone as returned by the API.
type Zone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Record is one DNS record as returned by the API. Proxied is owned by the
// user's provider configuration; this system only reads it and sends it back
// unchanged.
type Record struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

// RecordParams is the payload for record create and update calls. Updates are
// full replacements, so every field is sent every time.
type RecordParams struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Proxied bool   `json:"proxied"`
}

// envelope is the uniform response wrapper used by every API call.
type envelope struct {
	Success bool            `json:"success"`
	Errors  []responseError `json:"errors"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APIError is a structurally valid response with success=false. The provider
// error messages are carried verbatim for the operator log.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return "cloudflare: " + strings.Join(e.Messages, "; ")
}
