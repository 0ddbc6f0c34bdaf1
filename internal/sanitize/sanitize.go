// Package sanitize neutralizes user-supplied text before it is embedded in
// HTML.
//
// Two sanitizers are provided. Escape turns every markup character into an
// entity. Policy keeps a small allowlist of inline formatting tags and links
// and escapes everything else, so property values may carry simple markup.
package sanitize

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// Sanitizer neutralizes a string for embedding in a rendering context.
// Implementations must be pure and total.
type Sanitizer interface {
	Sanitize(text string) string
}

// SanitizerFunc adapts a function to the Sanitizer interface.
type SanitizerFunc func(string) string

// Sanitize calls f(text).
func (f SanitizerFunc) Sanitize(text string) string {
	return f(text)
}

// Escape escapes all HTML markup.
var Escape Sanitizer = SanitizerFunc(templ.EscapeString[string])

// Identity returns text unchanged. Use it only for trusted text or non-HTML
// output such as CSV.
var Identity Sanitizer = SanitizerFunc(func(text string) string { return text })

// Mode names a sanitizer in configuration.
type Mode string

// HTMLSafe reports whether mode yields output safe to embed in HTML.
// Only "none" is unsafe.
func HTMLSafe(mode string) bool {
	return Mode(strings.ToLower(strings.TrimSpace(mode))) != ModeIdentity
}

const (
	ModeEscape   Mode = "escape"
	ModePolicy   Mode = "policy"
	ModeIdentity Mode = "none"
)

// ForMode returns the sanitizer configured by mode.
func ForMode(mode string) (Sanitizer, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case ModeEscape, "":
		return Escape, nil
	case ModePolicy:
		return DefaultPolicy(), nil
	case ModeIdentity:
		return Identity, nil
	default:
		return nil, fmt.Errorf("unknown sanitizer mode %q (want escape, policy or none)", mode)
	}
}
