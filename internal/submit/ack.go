package submit

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/types"
)

// ClassifyAck derives an order status from an acknowledgement body.
//
// CLASSIFICATION:
//  1. Body is not well-formed XML      -> UNKNOWN
//  2. Any element named *Severity      -> ERROR / WARNING by its values,
//     OK when none of them is an error or warning
//  3. Otherwise the raw text is scanned: SEVERITY_ERROR or ERROR -> ERROR,
//     else SEVERITY_WARNING or WARNING -> WARNING, else OK
//
// The returned snippet is the first SnippetLimit characters of the body.
func ClassifyAck(body string) (types.Status, string) {
	snippet := types.Truncate(body, types.SnippetLimit)

	severities, err := scanSeverities(body)
	if err != nil {
		return types.StatusUnknown, snippet
	}

	if severities != nil {
		return classifySeverities(severities), snippet
	}
	return classifyText(body), snippet
}

func classifySeverities(values []string) types.Status {
	warning := false
	for _, v := range values {
		v = strings.ToUpper(v)
		if strings.Contains(v, "ERROR") {
			return types.StatusError
		}
		if strings.Contains(v, "WARNING") {
			warning = true
		}
	}
	if warning {
		return types.StatusWarning
	}
	return types.StatusOK
}

func classifyText(text string) types.Status {
	switch {
	case strings.Contains(text, "SEVERITY_ERROR"), strings.Contains(text, "ERROR"):
		return types.StatusError
	case strings.Contains(text, "SEVERITY_WARNING"), strings.Contains(text, "WARNING"):
		return types.StatusWarning
	default:
		return types.StatusOK
	}
}

var (
	errNoRoot    = errors.New("document has no root element")
	errExtraRoot = errors.New("content after the root element")
	errStrayText = errors.New("text outside the root element")
)

// scanSeverities checks that body is well-formed and returns the text of
// every element whose local name ends in "Severity". The slice is nil when
// no such element exists.
func scanSeverities(body string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))
	decoder.Strict = true

	var (
		severities []string
		stack      []string
		sawRoot    bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if sawRoot && len(stack) == 0 {
				return nil, errExtraRoot
			}
			sawRoot = true
			stack = append(stack, t.Name.Local)
			if isSeverity(t.Name.Local) {
				severities = append(severities, "")
			}
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, errStrayText
				}
				continue
			}
			if isSeverity(stack[len(stack)-1]) {
				severities[len(severities)-1] += strings.TrimSpace(string(t))
			}
		}
	}

	if !sawRoot {
		return nil, errNoRoot
	}
	return severities, nil
}

func isSeverity(local string) bool {
	return strings.HasSuffix(strings.ToLower(local), "severity")
}
