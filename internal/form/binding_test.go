package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/pilightctl/internal/params"
)

func intPtr(v int) *int { return &v }

var testCandidates = []params.VariableRef{
	{ID: 3, Name: "clock"},
	{ID: 8, Name: "audio"},
}

func TestBindingEditorOptions(t *testing.T) {
	be := NewBindingEditor(params.DefaultBinding(), testCandidates)

	opts := be.Options()
	if len(opts) != 3 {
		t.Fatalf("len(Options()) = %d, want 3", len(opts))
	}
	if opts[0].Label != NoneOption || opts[0].ID != nil {
		t.Errorf("first option = %+v, want None", opts[0])
	}
	if opts[2].Label != "audio" || *opts[2].ID != 8 {
		t.Errorf("third option = %+v", opts[2])
	}
	if be.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0", be.Selected())
	}
}

func TestBindingEditorPartialEditsMerge(t *testing.T) {
	be := NewBindingEditor(params.VariableBinding{VariableID: intPtr(3), Multiply: 2, Add: 4}, testCandidates)

	b, ok := be.EditMultiply("0.5")
	if !ok {
		t.Fatal("EditMultiply should accept 0.5")
	}
	want := params.VariableBinding{VariableID: intPtr(3), Multiply: 0.5, Add: 4}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("after multiply (-want +got):\n%s", diff)
	}

	b, ok = be.EditAdd("-1")
	if !ok {
		t.Fatal("EditAdd should accept -1")
	}
	want.Add = -1
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("after add (-want +got):\n%s", diff)
	}

	b = be.SelectVariable(intPtr(8))
	want.VariableID = intPtr(8)
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("after select (-want +got):\n%s", diff)
	}
	if be.Selected() != 2 {
		t.Errorf("Selected() = %d, want 2", be.Selected())
	}

	b = be.SelectOption(0)
	if b.VariableID != nil {
		t.Errorf("None should clear the variable, got %v", *b.VariableID)
	}
	if b.Multiply != 0.5 || b.Add != -1 {
		t.Errorf("selecting None clobbered coefficients: %+v", b)
	}
}

func TestBindingEditorInvalidText(t *testing.T) {
	be := NewBindingEditor(params.DefaultBinding(), testCandidates)

	if _, ok := be.EditMultiply("2."); ok {
		t.Error("EditMultiply(2.) should be rejected")
	}
	if be.Binding().Multiply != 1 {
		t.Errorf("invalid edit changed multiply to %v", be.Binding().Multiply)
	}
	if be.Multiply().Status() != StatusError {
		t.Errorf("multiply status = %v, want error", be.Multiply().Status())
	}
}

func TestBindingEditorFieldOrigs(t *testing.T) {
	be := NewBindingEditor(params.DefaultBinding(), nil)

	if be.Multiply().Edited() || be.Add().Edited() {
		t.Error("default binding should show unedited coefficient fields")
	}

	be.EditAdd("0")
	if be.Add().Edited() {
		t.Error("add of 0 should not be edited")
	}
}

func TestBindingEditorSetBinding(t *testing.T) {
	be := NewBindingEditor(params.DefaultBinding(), testCandidates)
	be.EditMultiply("3x")

	be.SetBinding(params.VariableBinding{VariableID: intPtr(3), Multiply: 4, Add: 0})

	if be.Multiply().Text() != "4" || !be.Multiply().Valid() {
		t.Errorf("multiply field = %q valid=%v", be.Multiply().Text(), be.Multiply().Valid())
	}
	if be.Selected() != 1 {
		t.Errorf("Selected() = %d, want 1", be.Selected())
	}
}

func TestBindingEditorUnknownVariable(t *testing.T) {
	be := NewBindingEditor(params.VariableBinding{VariableID: intPtr(99), Multiply: 1}, testCandidates)
	if be.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0 for unknown variable", be.Selected())
	}
}
