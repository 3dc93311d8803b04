package submit

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ackOK = `<TransmissionAck><EchoedTransmissionHeader/><StackTrace/></TransmissionAck>`

func TestClassifyAck(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected types.Status
	}{
		{"plain ack", ackOK, types.StatusOK},
		{"error text", `<Ack><Msg>SEVERITY_ERROR: bad</Msg></Ack>`, types.StatusError},
		{"warning text", `<Ack><Msg>WARNING: check</Msg></Ack>`, types.StatusWarning},
		{"error beats warning", `<Ack><A>WARNING</A><B>ERROR</B></Ack>`, types.StatusError},
		{"severity element error", `<Ack><IntegrationLogMessage><ITransactionSeverity>Error</ITransactionSeverity></IntegrationLogMessage></Ack>`, types.StatusError},
		{"severity element warning", `<Ack><Severity>warning</Severity></Ack>`, types.StatusWarning},
		{"severity element info ignores text", `<Ack><Severity>INFORMATIONAL</Severity><Note>NO ERROR</Note></Ack>`, types.StatusOK},
		{"namespaced severity", `<otm:Ack xmlns:otm="urn:x"><otm:Severity>ERROR</otm:Severity></otm:Ack>`, types.StatusError},
		{"malformed", `<Ack><Open></Ack>`, types.StatusUnknown},
		{"not xml", `Internal failure`, types.StatusUnknown},
		{"empty", ``, types.StatusUnknown},
		{"text before root", `Request accepted <ref id="1"/>`, types.StatusUnknown},
		{"text after root", `<Ack/>trailing junk`, types.StatusUnknown},
		{"two roots", `<a/><b/>`, types.StatusUnknown},
		{"unclosed root", `<Ack><Severity>ERROR</Severity>`, types.StatusUnknown},
		{"prolog and trailing whitespace", "<?xml version=\"1.0\"?>\n<Ack/>\n", types.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, snippet := ClassifyAck(tt.body)
			assert.Equal(t, tt.expected, status)
			assert.Equal(t, tt.body, snippet)
		})
	}
}

func TestClassifyAckTruncatesSnippet(t *testing.T) {
	body := "<Ack>" + strings.Repeat("x", 2000) + "</Ack>"
	status, snippet := ClassifyAck(body)
	assert.Equal(t, types.StatusOK, status)
	assert.Len(t, snippet, types.SnippetLimit)
}

func TestIsNonProdURL(t *testing.T) {
	assert.True(t, IsNonProdURL("https://otm-dev.example.com/GC3/glog.integration.servlet.WMServlet"))
	assert.True(t, IsNonProdURL("https://OTMTEST.example.com"))
	assert.False(t, IsNonProdURL("https://otm.example.com"))
	assert.False(t, IsNonProdURL(""))
}

func TestHasCredentials(t *testing.T) {
	assert.True(t, Endpoint{URL: "u", Username: "a", Password: "b"}.HasCredentials())
	assert.False(t, Endpoint{URL: "u", Username: "a"}.HasCredentials())
	assert.False(t, Endpoint{Username: "a", Password: "b"}.HasCredentials())
	assert.False(t, Endpoint{URL: "u", Username: " ", Password: "b"}.HasCredentials())
}

func TestPostSendsDocument(t *testing.T) {
	var (
		gotBody        string
		gotContentType string
		gotUser        string
		gotPass        string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		gotUser, gotPass, _ = r.BasicAuth()
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		_, _ = w.Write([]byte(ackOK))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, zap.NewNop())
	out := client.Post(context.Background(), Endpoint{
		URL:      server.URL,
		Username: "THG.INT",
		Password: "secret",
	}, []byte("<Transmission/>"))

	assert.Equal(t, types.StatusOK, out.Status)
	assert.Equal(t, http.StatusOK, out.HTTPCode)
	assert.Equal(t, ackOK, out.Snippet)
	assert.Equal(t, "<Transmission/>", gotBody)
	assert.Equal(t, ContentType, gotContentType)
	assert.Equal(t, "THG.INT", gotUser)
	assert.Equal(t, "secret", gotPass)
}

func TestPostGzip(t *testing.T) {
	var (
		gotEncoding string
		gotBody     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Content-Encoding")
		zr, err := gzip.NewReader(r.Body)
		if err == nil {
			raw, _ := io.ReadAll(zr)
			gotBody = string(raw)
		}
		_, _ = w.Write([]byte(ackOK))
	}))
	defer server.Close()

	client := NewClient(0, nil)
	out := client.Post(context.Background(), Endpoint{
		URL:      server.URL,
		Username: "u",
		Password: "p",
		Gzip:     true,
	}, []byte("<Transmission/>"))

	assert.Equal(t, types.StatusOK, out.Status)
	assert.Equal(t, "gzip", gotEncoding)
	assert.Equal(t, "<Transmission/>", gotBody)
}

func TestPostHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	out := NewClient(time.Second, zap.NewNop()).
		Post(context.Background(), Endpoint{URL: server.URL, Username: "u", Password: "p"}, []byte("<x/>"))

	assert.Equal(t, types.StatusHTTPError, out.Status)
	assert.Equal(t, http.StatusInternalServerError, out.HTTPCode)
	assert.Equal(t, "500 Internal Server Error :: boom", out.Snippet)
}

func TestPostUnknownAck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("accepted"))
	}))
	defer server.Close()

	out := NewClient(time.Second, zap.NewNop()).
		Post(context.Background(), Endpoint{URL: server.URL, Username: "u", Password: "p"}, []byte("<x/>"))

	assert.Equal(t, types.StatusUnknown, out.Status)
	assert.Equal(t, "accepted", out.Snippet)
}

func TestPostNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	out := NewClient(time.Second, zap.NewNop()).
		Post(context.Background(), Endpoint{URL: url, Username: "u", Password: "p"}, []byte("<x/>"))

	require.Equal(t, types.StatusNetworkError, out.Status)
	assert.NotEmpty(t, out.Snippet)
}
