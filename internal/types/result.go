package types

import "fmt"

// SnippetLimit is the maximum number of characters kept from an
// acknowledgement or error text.
const SnippetLimit = 1000

// Status classifies the outcome of one order submission.
type Status string

const (
	StatusOK           Status = "OK"
	StatusWarning      Status = "WARNING"
	StatusError        Status = "ERROR"
	StatusUnknown      Status = "UNKNOWN"
	StatusNotPosted    Status = "NOT_POSTED"
	StatusNoCreds      Status = "NO_CREDS"
	StatusBlocked      Status = "BLOCKED"
	StatusHTTPError    Status = "HTTP_ERROR"
	StatusNetworkError Status = "NETWORK_ERROR"
	StatusAppError     Status = "APP_ERROR"
)

// Result pairs one payload with its submission outcome.
type Result struct {
	Kind      Kind
	OrderID   string
	ShipFrom  string
	ShipTo    string
	LineCount int

	// Posted is true when a network call was attempted.
	Posted bool

	Status Status

	// HTTPCode is set for StatusHTTPError.
	HTTPCode int

	// Snippet is the acknowledgement or diagnostic text, truncated.
	Snippet string
}

// StatusText renders the status for reports; HTTP errors carry their code.
func (r Result) StatusText() string {
	if r.Status == StatusHTTPError && r.HTTPCode != 0 {
		return fmt.Sprintf("%s %d", r.Status, r.HTTPCode)
	}
	return string(r.Status)
}

// NewResult returns a result for the payload with the given status.
func NewResult(p Payload, status Status, snippet string) Result {
	return Result{
		Kind:      p.Kind,
		OrderID:   p.OrderID,
		ShipFrom:  p.ShipFrom,
		ShipTo:    p.ShipTo,
		LineCount: len(p.Lines),
		Status:    status,
		Snippet:   Truncate(snippet, SnippetLimit),
	}
}

// Truncate keeps at most n characters (runes) of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
