package form

import (
	"regexp"
	"strconv"

	"github.com/muurk/pilightctl/internal/params"
)

// Kind selects the validation pattern of a Field.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
)

// Validation patterns. Text is matched as typed: no trimming, no implicit
// zero for empty input, and a trailing '.' without digits is rejected.
var (
	validInteger = regexp.MustCompile(`^[-+]?[0-9]+$`)
	validFloat   = regexp.MustCompile(`^[-+]?[0-9]+(\.[0-9]+)?$`)
)

// KindFor returns the field kind used to edit a parameter type.
func KindFor(t params.ParamType) Kind {
	if t == params.TypeLong {
		return KindInteger
	}
	return KindFloat
}

// Validate parses text for the given kind. It returns false for any text the
// kind's pattern does not accept.
func Validate(kind Kind, text string) (float64, bool) {
	switch kind {
	case KindInteger:
		if !validInteger.MatchString(text) {
			return 0, false
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			// Out of int64 range
			return 0, false
		}
		return float64(n), true
	default:
		if !validFloat.MatchString(text) {
			return 0, false
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

// format renders a value the way a field of this kind seeds its text.
func (k Kind) format(v float64) string {
	if k == KindInteger {
		return params.FormatLong(v)
	}
	return params.FormatFloat(v)
}

// Status is the derived display state of a Field.
type Status int

const (
	// StatusNone means the text still matches the confirmed value
	StatusNone Status = iota
	// StatusSuccess means the text was edited and is valid
	StatusSuccess
	// StatusError means the text was edited and is invalid
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "none"
	}
}

// Field is a text buffer over a single numeric value.
//
// value is the live draft value last rendered into the field and orig is the
// last server-confirmed value; "edited" compares the text against orig only.
type Field struct {
	kind  Kind
	text  string
	valid bool
	value float64
	orig  float64
}

// NewField creates a field whose text is seeded from value.
func NewField(kind Kind, value, orig float64) *Field {
	return &Field{
		kind:  kind,
		text:  kind.format(value),
		valid: true,
		value: value,
		orig:  orig,
	}
}

// Kind returns the validation kind of the field.
func (f *Field) Kind() Kind { return f.kind }

// Text returns the current text buffer, valid or not.
func (f *Field) Text() string { return f.text }

// Valid reports whether the current text passed validation.
func (f *Field) Valid() bool { return f.valid }

// Value returns the value last rendered into or emitted by the field.
func (f *Field) Value() float64 { return f.value }

// Orig returns the confirmed value the field compares against.
func (f *Field) Orig() float64 { return f.orig }

// Edited reports whether the text differs from the formatted confirmed value.
func (f *Field) Edited() bool {
	return f.text != f.kind.format(f.orig)
}

// Status derives the display state from Edited and Valid.
func (f *Field) Status() Status {
	if !f.Edited() {
		return StatusNone
	}
	if f.valid {
		return StatusSuccess
	}
	return StatusError
}

// Edit replaces the text buffer. For valid text it returns the parsed number
// and true, and the caller should propagate it. Invalid text is kept as typed
// and nothing is returned.
func (f *Field) Edit(text string) (float64, bool) {
	f.text = text
	v, ok := Validate(f.kind, text)
	f.valid = ok
	if !ok {
		return 0, false
	}
	// The parent will echo this back through SetValue; recording it here is
	// what keeps that echo from resetting the text.
	f.value = v
	return v, true
}

// SetValue is the external reset path. When v differs from the value last
// rendered, the text is resynchronized and validity reset; an unchanged
// value leaves text and validity alone.
func (f *Field) SetValue(v float64) {
	if v == f.value {
		return
	}
	f.value = v
	f.text = f.kind.format(v)
	f.valid = true
}

// SetOrig updates the confirmed value used for the edited comparison.
func (f *Field) SetOrig(v float64) {
	f.orig = v
}
