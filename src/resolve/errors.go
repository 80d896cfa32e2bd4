package resolve

import (
	"errors"
	"strings"
)

// Error kinds. Every ConfigError unwraps to exactly one of these, so callers
// can test with errors.Is(err, resolve.ErrMissingField).
var (
	// ErrMissingField is returned when a required descriptor field is absent.
	ErrMissingField = errors.New("MissingField")
	// ErrInvalidVersionOrdering is returned when min ≤ target ≤ compile does not hold.
	ErrInvalidVersionOrdering = errors.New("InvalidVersionOrdering")
	// ErrUnknownSigningConfig is returned when a variant names a signing entry the table lacks.
	ErrUnknownSigningConfig = errors.New("UnknownSigningConfig")
	// ErrInvalidValue is returned when a present field holds a value that cannot be used.
	ErrInvalidValue = errors.New("InvalidValue")
)

// ConfigError describes one resolution failure and the field or variant it
// concerns.
type ConfigError struct {
	Kind    error  // one of the Err* sentinels
	Field   string // descriptor field name, e.g. "min_platform_version"
	Variant string // variant name, empty for descriptor-level fields
	Detail  string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	b.WriteString(": ")
	b.WriteString(e.Location())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Location returns the dotted path of the failing field,
// e.g. "variants.release.signing".
func (e *ConfigError) Location() string {
	if e.Variant == "" {
		return e.Field
	}
	if e.Field == "" {
		return "variants." + e.Variant
	}
	return "variants." + e.Variant + "." + e.Field
}

func (e *ConfigError) Unwrap() error { return e.Kind }

// Errors is the full list of failures from one resolution. Resolution is
// all-or-nothing, so a non-empty Errors always means no descriptor.
type Errors []*ConfigError

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes every ConfigError to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	errs := make([]error, len(es))
	for i, e := range es {
		errs[i] = e
	}
	return errs
}

func (es *Errors) add(kind error, variant, field, detail string) {
	*es = append(*es, &ConfigError{Kind: kind, Variant: variant, Field: field, Detail: detail})
}
