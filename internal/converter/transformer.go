// =============================================================================
// OTM Order Generator - Transformation Engine
// =============================================================================
//
// This module applies the configured column rules to imported cells before
// orders are grouped and built. Typical uses:
//   - Zero-padding item numbers exported without leading zeros
//   - Prefixing location ids that the source system stores bare
//   - Mapping legacy codes to current ids with a lookup table
//
// Rules match columns case-insensitively; actions run in configured order.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/otm-order-generator/internal/config"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer handles cell value transformations.
type Transformer struct {
	rules map[string][]config.TransformationAction
	regex map[string]*regexp.Regexp
}

// NewTransformer compiles the given rules. Regular expressions are compiled
// once here so a bad pattern fails before any row is touched.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{
		rules: make(map[string][]config.TransformationAction),
		regex: make(map[string]*regexp.Regexp),
	}

	for _, rule := range rules {
		field := normalizeHeader(rule.Field)
		t.rules[field] = append(t.rules[field], rule.Actions...)

		for _, action := range rule.Actions {
			if action.Type != "regex_replace" || action.Find == "" {
				continue
			}
			if _, ok := t.regex[action.Find]; ok {
				continue
			}
			re, err := regexp.Compile(action.Find)
			if err != nil {
				return nil, fmt.Errorf("invalid regex pattern for %s: %w", rule.Field, err)
			}
			t.regex[action.Find] = re
		}
	}

	return t, nil
}

// Empty reports whether the transformer has no rules.
func (t *Transformer) Empty() bool {
	return t == nil || len(t.rules) == 0
}

// Transform applies every action configured for field to value.
func (t *Transformer) Transform(field, value string) (string, error) {
	if t.Empty() {
		return value, nil
	}

	result := value
	for _, action := range t.rules[normalizeHeader(field)] {
		var err error
		result, err = t.apply(result, action)
		if err != nil {
			return "", fmt.Errorf("transformation '%s' failed: %w", action.Type, err)
		}
	}
	return result, nil
}

// TransformRow applies the rules to every cell of a row in place.
func (t *Transformer) TransformRow(row map[string]string) error {
	if t.Empty() {
		return nil
	}

	for field, value := range row {
		transformed, err := t.Transform(field, value)
		if err != nil {
			return fmt.Errorf("error transforming field '%s': %w", field, err)
		}
		row[field] = transformed
	}
	return nil
}

// apply applies a single transformation action.
func (t *Transformer) apply(value string, action config.TransformationAction) (string, error) {
	switch action.Type {
	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "prepend_string":
		// "123456" + prepend "A" -> "A123456"
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "pad_zeros_to_length":
		// "123" with "8" -> "00000123"
		targetLength, err := strconv.Atoi(action.Value)
		if err != nil || targetLength <= 0 {
			return "", fmt.Errorf("invalid length %q", action.Value)
		}
		return PadLeft(value, targetLength, '0'), nil

	case "replace":
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		if action.Find == "" {
			return value, nil
		}
		return t.regex[action.Find].ReplaceAllString(value, action.Value), nil

	case "lookup":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	default:
		return "", fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}

// PadLeft pads a string with a character on the left to reach the target length.
func PadLeft(s string, length int, padChar rune) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-n) + s
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
