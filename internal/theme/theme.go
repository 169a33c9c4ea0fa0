// Package theme handles export and import of stylesheet override documents.
//
// Imports are hostile input: every key/value pair is validated before it
// can ever be interpolated into a stylesheet, so arbitrary property or
// value strings cannot smuggle CSS (or worse) into the page.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Version of the export document format.
const Version = 1

// Document is the interchange format for theme overrides.
type Document struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Overrides  map[string]string `json:"overrides"`
}

var (
	ErrMissingOverrides = errors.New("overrides field missing or not an object")

	// Custom-property names: `--` followed by letters, digits, hyphens.
	keyPattern = regexp.MustCompile(`^--[a-zA-Z][a-zA-Z0-9-]*$`)
)

// Export renders the overrides map as a document.
func Export(overrides map[string]string, now time.Time) ([]byte, error) {
	doc := Document{
		Version:    Version,
		ExportedAt: now.UTC(),
		Overrides:  overrides,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Import parses a document and returns the sanitized overrides. Pairs that
// fail validation are dropped (reported in skipped), never applied.
func Import(data []byte) (overrides map[string]string, skipped []string, err error) {
	// Decode loosely first so a missing or mistyped overrides field is
	// distinguishable from an empty one.
	var raw struct {
		Version   int             `json:"version"`
		Overrides json.RawMessage `json:"overrides"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse theme document: %w", err)
	}

	trimmed := strings.TrimSpace(string(raw.Overrides))
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return nil, nil, ErrMissingOverrides
	}

	var pairs map[string]string
	if err := json.Unmarshal(raw.Overrides, &pairs); err != nil {
		return nil, nil, fmt.Errorf("parse overrides: %w", err)
	}

	overrides = make(map[string]string, len(pairs))
	for key, value := range pairs {
		if !ValidKey(key) || !SafeValue(value) {
			skipped = append(skipped, key)
			continue
		}
		overrides[key] = value
	}
	return overrides, skipped, nil
}

// ValidKey reports whether a key is a well-formed custom-property name.
func ValidKey(key string) bool {
	return len(key) <= 128 && keyPattern.MatchString(key)
}

// SafeValue reports whether a value can be interpolated into a stylesheet
// without escaping the declaration it lands in.
func SafeValue(value string) bool {
	if len(value) > 256 {
		return false
	}
	if strings.ContainsAny(value, ";{}<>\\") {
		return false
	}
	lower := strings.ToLower(value)
	if strings.Contains(lower, "url(") || strings.Contains(lower, "expression(") {
		return false
	}
	for _, r := range value {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
