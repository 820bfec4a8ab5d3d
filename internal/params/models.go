package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ParamType is the scalar kind of a parameter as reported by the backend.
type ParamType string

const (
	// TypeLong is an integer parameter
	TypeLong ParamType = "long"
	// TypeFloat is a floating point parameter
	TypeFloat ParamType = "float"
	// TypeColor is a color parameter (displayed read-only)
	TypeColor ParamType = "color"
	// TypeBoolean is a boolean parameter (displayed read-only)
	TypeBoolean ParamType = "boolean"
)

// IsNumeric reports whether values of this type can be edited as numbers.
func (t ParamType) IsNumeric() bool {
	return t == TypeLong || t == TypeFloat
}

// ParamDef is a static schema entry describing one parameter.
type ParamDef struct {
	Name        string    `json:"name" yaml:"name"`
	Type        ParamType `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
}

// Defs is the parameter schema keyed by parameter name.
type Defs map[string]ParamDef

// Lookup returns the definition for name and whether it exists.
func (d Defs) Lookup(name string) (ParamDef, bool) {
	def, ok := d[name]
	return def, ok
}

// VariableBinding binds a parameter to a variable through value*Multiply + Add.
// A nil VariableID means no variable has been chosen yet.
type VariableBinding struct {
	VariableID *int    `json:"variableId,omitempty" yaml:"variable_id,omitempty"`
	Multiply   float64 `json:"multiply" yaml:"multiply"`
	Add        float64 `json:"add" yaml:"add"`
}

// DefaultBinding is the binding installed when a parameter is switched to
// variable mode.
func DefaultBinding() VariableBinding {
	return VariableBinding{Multiply: 1, Add: 0}
}

// Clone returns a copy that shares no memory with b.
func (b VariableBinding) Clone() VariableBinding {
	if b.VariableID != nil {
		id := *b.VariableID
		b.VariableID = &id
	}
	return b
}

// HasVariable reports whether a variable has been selected.
func (b VariableBinding) HasVariable() bool {
	return b.VariableID != nil
}

// String returns a compact description such as "var#3 * 1.5 + 0".
func (b VariableBinding) String() string {
	target := "none"
	if b.VariableID != nil {
		target = fmt.Sprintf("var#%d", *b.VariableID)
	}
	return fmt.Sprintf("%s * %s + %s", target, FormatFloat(b.Multiply), FormatFloat(b.Add))
}

// Mode is the authoritative source of a parameter's effective value.
type Mode int

const (
	ModeLiteral Mode = iota
	ModeBound
)

func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeBound:
		return "bound"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Value is one literal parameter value. Numbers are held as float64; any
// other JSON value, such as a color string or a flag, is kept as raw JSON and
// sent back unchanged.
type Value struct {
	num float64
	raw string
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{num: f}
}

// Raw returns a value holding the JSON text raw. Numeric JSON yields the same
// value as Number.
func Raw(raw string) Value {
	var v Value
	if err := v.UnmarshalJSON([]byte(raw)); err != nil {
		return Value{raw: raw}
	}
	return v
}

// Float returns the numeric value and whether v is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.raw == ""
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.raw == "" }

// JSON returns the JSON text of v.
func (v Value) JSON() string {
	if v.raw != "" {
		return v.raw
	}
	return FormatFloat(v.num)
}

// String renders v for display. JSON strings are shown unquoted.
func (v Value) String() string {
	if v.raw == "" {
		return FormatFloat(v.num)
	}
	var s string
	if err := json.Unmarshal([]byte(v.raw), &s); err == nil {
		return s
	}
	return v.raw
}

// Equal reports whether v and o hold the same value.
func (v Value) Equal(o Value) bool { return v == o }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw != "" {
		return []byte(v.raw), nil
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("params: empty value")
	}
	if c := data[0]; c == '-' || (c >= '0' && c <= '9') {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Value{num: f}
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*v = Value{raw: buf.String()}
	return nil
}

// MarshalYAML renders numbers as numbers and anything else as its decoded
// JSON value.
func (v Value) MarshalYAML() (any, error) {
	if v.raw == "" {
		return v.num, nil
	}
	var out any
	if err := json.Unmarshal([]byte(v.raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParamValue is the tagged value of one parameter. Literal is meaningful only
// in ModeLiteral and Binding only in ModeBound.
type ParamValue struct {
	Mode    Mode
	Literal Value
	Binding VariableBinding
}

// Params holds literal parameter values keyed by name.
type Params map[string]Value

// VariableParams holds variable bindings keyed by parameter name.
type VariableParams map[string]VariableBinding

// Clone returns a deep copy of p. A nil map clones to an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of vp. A nil map clones to an empty map.
func (vp VariableParams) Clone() VariableParams {
	out := make(VariableParams, len(vp))
	for k, v := range vp {
		out[k] = v.Clone()
	}
	return out
}

// Entity is a server-confirmed transform or variable.
type Entity struct {
	ID             int            `json:"id" yaml:"id"`
	TypeID         int            `json:"transformId,omitempty" yaml:"type_id,omitempty"`
	Name           string         `json:"name" yaml:"name"`
	LongName       string         `json:"longName,omitempty" yaml:"long_name,omitempty"`
	Params         Params         `json:"params" yaml:"params"`
	VariableParams VariableParams `json:"variableParams,omitempty" yaml:"variable_params,omitempty"`
}

// Value returns the tagged value of the named parameter. The mode is taken
// from VariableParams; ok is false when the name is in neither map.
func (e Entity) Value(name string) (ParamValue, bool) {
	if b, bound := e.VariableParams[name]; bound {
		return ParamValue{Mode: ModeBound, Binding: b.Clone()}, true
	}
	if v, present := e.Params[name]; present {
		return ParamValue{Mode: ModeLiteral, Literal: v}, true
	}
	return ParamValue{}, false
}

// Clone returns a deep copy of e.
func (e Entity) Clone() Entity {
	e.Params = e.Params.Clone()
	e.VariableParams = e.VariableParams.Clone()
	return e
}

// Draft returns a fresh, unmodified Draft seeded from e.
func (e Entity) Draft() Draft {
	return Draft{
		Name:           e.Name,
		Params:         e.Params.Clone(),
		VariableParams: e.VariableParams.Clone(),
	}
}

// Draft is a locally held, possibly unsaved copy of an entity's editable state.
type Draft struct {
	Name           string
	Params         Params
	VariableParams VariableParams
	Modified       bool
}

// Clone returns a deep copy of d.
func (d Draft) Clone() Draft {
	d.Params = d.Params.Clone()
	d.VariableParams = d.VariableParams.Clone()
	return d
}

var contentOpts = []cmp.Option{cmpopts.EquateEmpty()}

// ContentEqual reports whether two parameter sets hold the same content.
// Nil and empty maps are equal; map identity is irrelevant.
func ContentEqual(aParams Params, aVars VariableParams, bParams Params, bVars VariableParams) bool {
	return cmp.Equal(aParams, bParams, contentOpts...) && cmp.Equal(aVars, bVars, contentOpts...)
}

// SameContent reports whether two entities carry the same editable content.
func SameContent(a, b Entity) bool {
	return ContentEqual(a.Params, a.VariableParams, b.Params, b.VariableParams)
}

// FormatFloat renders f the way the editors display it: the shortest
// representation that round-trips, without exponent.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatLong renders f as an integer.
func FormatLong(f float64) string {
	return strconv.FormatInt(int64(math.Trunc(f)), 10)
}

// Format renders a literal value according to its parameter type.
func Format(t ParamType, f float64) string {
	if t == TypeLong {
		return FormatLong(f)
	}
	return FormatFloat(f)
}

// FormatValue renders v according to its parameter type. Non-numeric values
// are rendered as they are.
func FormatValue(t ParamType, v Value) string {
	if f, ok := v.Float(); ok {
		return Format(t, f)
	}
	return v.String()
}

// VariableRef names a variable that a parameter can be bound to.
type VariableRef struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// VariablesByType lists bindable variables per parameter type. The backend
// pre-filters these; nothing here derives them.
type VariablesByType map[ParamType][]VariableRef
