package form

import "github.com/muurk/pilightctl/internal/params"

// Confirmed values the multiply/add fields compare against. A binding's
// coefficients have no server-confirmed counterpart, so the identity
// transform is the reference.
const (
	multiplyOrig = 1
	addOrig      = 0
)

// NoneOption is the label of the "no variable" choice.
const NoneOption = "None"

// Option is one entry of the variable selector. A nil ID is the None option.
type Option struct {
	ID    *int
	Label string
}

// BindingEditor edits a VariableBinding: a variable selector plus multiply
// and add fields. Every edit returns the complete binding, merged with the
// prior state, so that one partial edit never clobbers the other two parts.
type BindingEditor struct {
	binding    params.VariableBinding
	candidates []params.VariableRef
	multiply   *Field
	add        *Field
}

// NewBindingEditor creates an editor for b with the given candidate
// variables (already filtered by parameter type).
func NewBindingEditor(b params.VariableBinding, candidates []params.VariableRef) *BindingEditor {
	return &BindingEditor{
		binding:    b.Clone(),
		candidates: candidates,
		multiply:   NewField(KindFloat, b.Multiply, multiplyOrig),
		add:        NewField(KindFloat, b.Add, addOrig),
	}
}

// Binding returns a copy of the current binding.
func (e *BindingEditor) Binding() params.VariableBinding {
	return e.binding.Clone()
}

// Candidates returns the selectable variables.
func (e *BindingEditor) Candidates() []params.VariableRef {
	return e.candidates
}

// SetCandidates replaces the selectable variables.
func (e *BindingEditor) SetCandidates(c []params.VariableRef) {
	e.candidates = c
}

// Multiply returns the multiply field.
func (e *BindingEditor) Multiply() *Field { return e.multiply }

// Add returns the add field.
func (e *BindingEditor) Add() *Field { return e.add }

// Options lists the selector entries: None first, then candidates in order.
func (e *BindingEditor) Options() []Option {
	opts := make([]Option, 0, len(e.candidates)+1)
	opts = append(opts, Option{Label: NoneOption})
	for _, c := range e.candidates {
		id := c.ID
		opts = append(opts, Option{ID: &id, Label: c.Name})
	}
	return opts
}

// Selected returns the index into Options of the current variable. An id
// that is not among the candidates selects None.
func (e *BindingEditor) Selected() int {
	if e.binding.VariableID == nil {
		return 0
	}
	for i, c := range e.candidates {
		if c.ID == *e.binding.VariableID {
			return i + 1
		}
	}
	return 0
}

// SelectVariable sets the variable; nil selects None.
func (e *BindingEditor) SelectVariable(id *int) params.VariableBinding {
	if id == nil {
		e.binding.VariableID = nil
	} else {
		v := *id
		e.binding.VariableID = &v
	}
	return e.Binding()
}

// SelectOption selects the i-th entry of Options.
func (e *BindingEditor) SelectOption(i int) params.VariableBinding {
	opts := e.Options()
	if i < 0 || i >= len(opts) {
		return e.Binding()
	}
	return e.SelectVariable(opts[i].ID)
}

// EditMultiply edits the multiply text. It returns the merged binding and
// true only when the text is a valid float.
func (e *BindingEditor) EditMultiply(text string) (params.VariableBinding, bool) {
	v, ok := e.multiply.Edit(text)
	if !ok {
		return params.VariableBinding{}, false
	}
	e.binding.Multiply = v
	return e.Binding(), true
}

// EditAdd edits the add text. It returns the merged binding and true only
// when the text is a valid float.
func (e *BindingEditor) EditAdd(text string) (params.VariableBinding, bool) {
	v, ok := e.add.Edit(text)
	if !ok {
		return params.VariableBinding{}, false
	}
	e.binding.Add = v
	return e.Binding(), true
}

// SetBinding is the external reset path; the coefficient fields resync only
// where the value actually changed.
func (e *BindingEditor) SetBinding(b params.VariableBinding) {
	e.binding = b.Clone()
	e.multiply.SetValue(b.Multiply)
	e.add.SetValue(b.Add)
}
