package form

import (
	"sort"

	"github.com/muurk/pilightctl/internal/params"
)

// Control is the single editing control a parameter row renders.
type Control int

const (
	ControlInteger Control = iota
	ControlFloat
	ControlBinding
	// ControlReadOnly is used for parameter types that have no numeric
	// editor and for values that are not numbers
	ControlReadOnly
)

func (c Control) String() string {
	switch c {
	case ControlInteger:
		return "integer"
	case ControlFloat:
		return "float"
	case ControlBinding:
		return "binding"
	default:
		return "read-only"
	}
}

// Schema is the static information an editor needs to lay out rows.
type Schema struct {
	Defs      params.Defs
	Variables params.VariablesByType
}

// Candidates returns the bindable variables for a parameter type.
func (s Schema) Candidates(t params.ParamType) []params.VariableRef {
	return s.Variables[t]
}

// Row is the rendering decision for one parameter.
type Row struct {
	Name       string
	Def        params.ParamDef
	Control    Control
	Bound      bool
	CanBind    bool
	Candidates []params.VariableRef

	// Value is the draft literal, Orig the confirmed literal.
	Value params.Value
	Orig  params.Value

	// Binding is the draft binding; only set when Bound.
	Binding params.VariableBinding
}

// BuildRows lays out one row per parameter of the confirmed entity, sorted
// by name. Parameters without a definition are skipped: the server schema
// may be newer than the entity data and that is not an error.
func BuildRows(confirmed params.Entity, draft params.Draft, schema Schema, allowBinding bool) []Row {
	names := make([]string, 0, len(confirmed.Params))
	for name := range confirmed.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]Row, 0, len(names))
	for _, name := range names {
		def, ok := schema.Defs.Lookup(name)
		if !ok {
			continue
		}

		row := Row{
			Name:  name,
			Def:   def,
			Value: draft.Params[name],
			Orig:  confirmed.Params[name],
		}

		if allowBinding {
			row.Candidates = schema.Candidates(def.Type)
			row.CanBind = len(row.Candidates) > 0
		}

		if b, bound := draft.VariableParams[name]; bound {
			row.Bound = true
			row.Binding = b.Clone()
			row.Control = ControlBinding
		} else if row.Value.IsNumber() {
			row.Control = literalControl(def.Type)
		} else {
			row.Control = ControlReadOnly
		}

		rows = append(rows, row)
	}
	return rows
}

func literalControl(t params.ParamType) Control {
	switch t {
	case params.TypeLong:
		return ControlInteger
	case params.TypeFloat:
		return ControlFloat
	default:
		return ControlReadOnly
	}
}
