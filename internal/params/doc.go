// Package params defines the parameter model shared by transforms and
// variables on a pilight backend.
//
// A transform (or variable) is an Entity: a set of named parameters plus, for
// transforms, an optional set of variable bindings. Parameter values are
// Values: numbers, or raw JSON for colors and flags, which pass through
// untouched. A parameter is
// in exactly one of two modes at any time:
//
//   - Literal: its value comes from Entity.Params[name]
//   - Bound: Entity.VariableParams[name] holds a VariableBinding that feeds
//     the value from a named variable through a linear transform
//     (value*Multiply + Add)
//
// The mode is decided by the presence of a VariableParams entry, never by the
// shape of the stored value. Entity.Value returns the tagged ParamValue for
// a name.
//
// # Drafts
//
// Editors never mutate confirmed entities. They work on a Draft, which is a
// structural deep copy of the entity's maps:
//
//	draft := entity.Draft()
//	draft.Params["speed"] = params.Number(2.5) // entity.Params is untouched
//
// ContentEqual compares two parameter sets by content, which is what the
// editors use to decide whether confirmed state actually changed.
package params
