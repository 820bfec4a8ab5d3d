package form

import (
	"errors"
	"fmt"

	"github.com/muurk/pilightctl/internal/params"
)

// EditorKind distinguishes transform editors from variable editors.
type EditorKind int

const (
	// EditorTransform edits params and variable bindings, and can be reordered
	EditorTransform EditorKind = iota
	// EditorVariable edits params and the variable's name; no bindings
	EditorVariable
)

func (k EditorKind) String() string {
	if k == EditorVariable {
		return "variable"
	}
	return "transform"
}

// State is the Draft-vs-confirmed divergence of an editor.
type State int

const (
	StateClean State = iota
	StateDirty
)

func (s State) String() string {
	if s == StateDirty {
		return "dirty"
	}
	return "clean"
}

var (
	// ErrBindingUnsupported is returned for binding edits on a variable editor
	ErrBindingUnsupported = errors.New("variables cannot bind parameters to other variables")
	// ErrNotBindable is returned when no variable of the parameter's type exists
	ErrNotBindable = errors.New("no variables available for this parameter type")
	// ErrRenameUnsupported is returned when renaming a transform
	ErrRenameUnsupported = errors.New("transforms cannot be renamed")
	// ErrUnknownParam is returned for a parameter with no definition
	ErrUnknownParam = errors.New("unknown parameter")
	// ErrNotBound is returned for a binding edit on a literal parameter
	ErrNotBound = errors.New("parameter is not bound to a variable")
	// ErrReadOnly is returned for a literal edit on a non-numeric parameter
	ErrReadOnly = errors.New("parameter is not numeric")
)

// SaveRequest carries a full copy of an editor's Draft to be persisted.
type SaveRequest struct {
	Kind           EditorKind
	ID             int
	Name           string
	Params         params.Params
	VariableParams params.VariableParams
}

// DeleteRequest asks the parent to delete the edited entity.
type DeleteRequest struct {
	Kind EditorKind
	ID   int
}

// MoveRequest asks the parent to move a transform by Delta list positions.
type MoveRequest struct {
	ID    int
	Delta int
}

// Editor owns the Draft of one transform or variable.
//
// An editor starts Clean with a deep copy of the confirmed entity. Every edit
// changes a single key of the Draft and makes it Dirty. Save hands out the
// Draft but leaves the editor Dirty; only Reconcile, called when confirmed
// state arrives, returns it to Clean.
type Editor struct {
	kind      EditorKind
	confirmed params.Entity
	draft     params.Draft
	schema    Schema

	fields   map[string]*Field
	bindings map[string]*BindingEditor
}

// NewEditor mounts an editor on entity.
func NewEditor(kind EditorKind, entity params.Entity, schema Schema) *Editor {
	return &Editor{
		kind:      kind,
		confirmed: entity.Clone(),
		draft:     entity.Draft(),
		schema:    schema,
		fields:    make(map[string]*Field),
		bindings:  make(map[string]*BindingEditor),
	}
}

// Kind returns the editor kind.
func (e *Editor) Kind() EditorKind { return e.kind }

// ID returns the id of the edited entity.
func (e *Editor) ID() int { return e.confirmed.ID }

// Confirmed returns a copy of the confirmed entity.
func (e *Editor) Confirmed() params.Entity { return e.confirmed.Clone() }

// Draft returns a copy of the current draft.
func (e *Editor) Draft() params.Draft { return e.draft.Clone() }

// Name returns the draft name.
func (e *Editor) Name() string { return e.draft.Name }

// Modified reports whether the draft has been edited since the last reset.
func (e *Editor) Modified() bool { return e.draft.Modified }

// State returns Clean or Dirty.
func (e *Editor) State() State {
	if e.draft.Modified {
		return StateDirty
	}
	return StateClean
}

// Schema returns the schema used for layout.
func (e *Editor) Schema() Schema { return e.schema }

// SetSchema replaces the schema. Candidate lists of open binding editors
// follow the new schema.
func (e *Editor) SetSchema(s Schema) {
	e.schema = s
	for name, be := range e.bindings {
		if def, ok := s.Defs.Lookup(name); ok {
			be.SetCandidates(s.Candidates(def.Type))
		}
	}
}

// Rows lays out the editor's parameters.
func (e *Editor) Rows() []Row {
	return BuildRows(e.confirmed, e.draft, e.schema, e.kind == EditorTransform)
}

// Field returns the literal field for a parameter, creating it on first use.
// Only numeric parameters holding numeric values have a field.
func (e *Editor) Field(name string) (*Field, error) {
	if f, ok := e.fields[name]; ok {
		return f, nil
	}
	def, ok := e.schema.Defs.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	if !def.Type.IsNumeric() || !e.draft.Params[name].IsNumber() {
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	f := NewField(KindFor(def.Type), number(e.draft.Params, name), number(e.confirmed.Params, name))
	e.fields[name] = f
	return f, nil
}

// Binding returns the binding editor of a bound parameter, creating it on
// first use.
func (e *Editor) Binding(name string) (*BindingEditor, error) {
	if e.kind != EditorTransform {
		return nil, ErrBindingUnsupported
	}
	b, bound := e.draft.VariableParams[name]
	if !bound {
		return nil, fmt.Errorf("%w: %s", ErrNotBound, name)
	}
	if be, ok := e.bindings[name]; ok {
		return be, nil
	}
	var candidates []params.VariableRef
	if def, ok := e.schema.Defs.Lookup(name); ok {
		candidates = e.schema.Candidates(def.Type)
	}
	be := NewBindingEditor(b, candidates)
	e.bindings[name] = be
	return be, nil
}

// SetValue stores a literal value for one parameter.
func (e *Editor) SetValue(name string, v float64) {
	e.draft.Params[name] = params.Number(v)
	e.draft.Modified = true
	if f, ok := e.fields[name]; ok {
		f.SetValue(v)
	}
}

// EditValue feeds typed text into a parameter's field. Valid text updates the
// draft and returns true; invalid text only changes the field.
func (e *Editor) EditValue(name, text string) (bool, error) {
	f, err := e.Field(name)
	if err != nil {
		return false, err
	}
	v, ok := f.Edit(text)
	if !ok {
		return false, nil
	}
	e.SetValue(name, v)
	return true, nil
}

// SetBinding stores a binding for one parameter.
func (e *Editor) SetBinding(name string, b params.VariableBinding) error {
	if e.kind != EditorTransform {
		return ErrBindingUnsupported
	}
	e.draft.VariableParams[name] = b.Clone()
	e.draft.Modified = true
	if be, ok := e.bindings[name]; ok {
		be.SetBinding(b)
	}
	return nil
}

// SelectVariable chooses the variable of a bound parameter; nil selects None.
func (e *Editor) SelectVariable(name string, id *int) error {
	be, err := e.Binding(name)
	if err != nil {
		return err
	}
	return e.SetBinding(name, be.SelectVariable(id))
}

// EditMultiply feeds text into a bound parameter's multiply field.
func (e *Editor) EditMultiply(name, text string) (bool, error) {
	be, err := e.Binding(name)
	if err != nil {
		return false, err
	}
	b, ok := be.EditMultiply(text)
	if !ok {
		return false, nil
	}
	return true, e.SetBinding(name, b)
}

// EditAdd feeds text into a bound parameter's add field.
func (e *Editor) EditAdd(name, text string) (bool, error) {
	be, err := e.Binding(name)
	if err != nil {
		return false, err
	}
	b, ok := be.EditAdd(text)
	if !ok {
		return false, nil
	}
	return true, e.SetBinding(name, b)
}

// CanBind reports whether the toggle for a parameter is available.
func (e *Editor) CanBind(name string) bool {
	if e.kind != EditorTransform {
		return false
	}
	def, ok := e.schema.Defs.Lookup(name)
	if !ok {
		return false
	}
	return len(e.schema.Candidates(def.Type)) > 0
}

// IsBound reports whether a parameter is in variable mode in the draft.
func (e *Editor) IsBound(name string) bool {
	_, bound := e.draft.VariableParams[name]
	return bound
}

// ToggleBinding switches a parameter between literal and variable mode.
// Switching on installs a fresh default binding; switching off deletes the
// binding so the literal in Params becomes authoritative again.
func (e *Editor) ToggleBinding(name string, on bool) error {
	if e.kind != EditorTransform {
		return ErrBindingUnsupported
	}
	if !e.CanBind(name) {
		return fmt.Errorf("%w: %s", ErrNotBindable, name)
	}

	delete(e.bindings, name)
	if on {
		e.draft.VariableParams[name] = params.DefaultBinding()
	} else {
		delete(e.draft.VariableParams, name)
	}
	e.draft.Modified = true
	return nil
}

// Rename changes a variable's draft name.
func (e *Editor) Rename(name string) error {
	if e.kind != EditorVariable {
		return ErrRenameUnsupported
	}
	e.draft.Name = name
	e.draft.Modified = true
	return nil
}

// Save returns the full draft for persistence. The editor stays in its
// current state: the server's answer, through Reconcile, is what cleans it.
func (e *Editor) Save() SaveRequest {
	req := SaveRequest{
		Kind:   e.kind,
		ID:     e.confirmed.ID,
		Name:   e.draft.Name,
		Params: e.draft.Params.Clone(),
	}
	if e.kind == EditorTransform {
		req.VariableParams = e.draft.VariableParams.Clone()
	}
	return req
}

// Delete returns the delete intent for the edited entity.
func (e *Editor) Delete() DeleteRequest {
	return DeleteRequest{Kind: e.kind, ID: e.confirmed.ID}
}

// MoveUp returns the intent to move the transform one position up.
func (e *Editor) MoveUp() MoveRequest {
	return MoveRequest{ID: e.confirmed.ID, Delta: -1}
}

// MoveDown returns the intent to move the transform one position down.
func (e *Editor) MoveDown() MoveRequest {
	return MoveRequest{ID: e.confirmed.ID, Delta: 1}
}

// Reconcile feeds newly confirmed state into the editor. When the content
// differs from what the draft was last reset from, the draft is replaced by a
// fresh copy and the editor returns to Clean, discarding unsaved edits. It
// returns whether a reset happened.
func (e *Editor) Reconcile(entity params.Entity) bool {
	changed := !params.SameContent(entity, e.confirmed)
	if e.kind == EditorVariable && entity.Name != e.confirmed.Name {
		changed = true
	}

	e.confirmed = entity.Clone()
	for name, f := range e.fields {
		f.SetOrig(number(e.confirmed.Params, name))
	}
	if !changed {
		return false
	}

	e.draft = entity.Draft()
	for name, f := range e.fields {
		f.SetValue(number(e.draft.Params, name))
	}
	for name, be := range e.bindings {
		b, bound := e.draft.VariableParams[name]
		if !bound {
			delete(e.bindings, name)
			continue
		}
		be.SetBinding(b)
	}
	return true
}

func number(p params.Params, name string) float64 {
	f, _ := p[name].Float()
	return f
}
