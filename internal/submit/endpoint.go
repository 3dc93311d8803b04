package submit

import "strings"

// Endpoint is a submission target with its credentials. It is passed to
// every call; the client keeps no credential state.
type Endpoint struct {
	URL      string
	Username string
	Password string

	// Gzip compresses the request body and sets Content-Encoding: gzip.
	Gzip bool
}

// HasCredentials reports whether URL, username and password are all set.
func (e Endpoint) HasCredentials() bool {
	return strings.TrimSpace(e.URL) != "" &&
		strings.TrimSpace(e.Username) != "" &&
		e.Password != ""
}

// IsNonProdURL reports whether url clearly targets a non-production
// environment: it must contain "dev" or "test", in any case.
func IsNonProdURL(url string) bool {
	u := strings.ToLower(url)
	return strings.Contains(u, "dev") || strings.Contains(u, "test")
}
