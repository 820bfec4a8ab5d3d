package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/pilightctl/internal/params"
)

var testSchema = Schema{
	Defs: params.Defs{
		"length":  {Name: "length", Type: params.TypeFloat, Description: "Cycle length in seconds"},
		"count":   {Name: "count", Type: params.TypeLong, Description: "Number of flashes"},
		"color":   {Name: "color", Type: params.TypeColor, Description: "Flash color"},
		"sine":    {Name: "sine", Type: params.TypeBoolean, Description: "Ease with a sine curve"},
		"opacity": {Name: "opacity", Type: params.TypeFloat, Description: "Blend opacity"},
	},
	Variables: params.VariablesByType{
		params.TypeFloat: testCandidates,
	},
}

func testTransform() params.Entity {
	return params.Entity{
		ID:     1,
		Name:   "flash",
		Params: params.Params{"length": params.Number(1), "count": params.Number(3), "color": params.Raw(`"#ff0000"`), "legacy": params.Number(2)},
	}
}

func TestBuildRows(t *testing.T) {
	e := testTransform()
	d := e.Draft()
	d.VariableParams["length"] = params.DefaultBinding()

	rows := BuildRows(e, d, testSchema, true)

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	if diff := cmp.Diff([]string{"color", "count", "length"}, names); diff != "" {
		t.Fatalf("row names (-want +got):\n%s", diff)
	}

	tests := []struct {
		row     Row
		control Control
		canBind bool
		bound   bool
	}{
		{rows[0], ControlReadOnly, false, false},
		{rows[1], ControlInteger, false, false},
		{rows[2], ControlBinding, true, true},
	}
	for _, tt := range tests {
		if tt.row.Control != tt.control {
			t.Errorf("%s: Control = %v, want %v", tt.row.Name, tt.row.Control, tt.control)
		}
		if tt.row.CanBind != tt.canBind {
			t.Errorf("%s: CanBind = %v, want %v", tt.row.Name, tt.row.CanBind, tt.canBind)
		}
		if tt.row.Bound != tt.bound {
			t.Errorf("%s: Bound = %v, want %v", tt.row.Name, tt.row.Bound, tt.bound)
		}
	}
}

func TestNonNumericParams(t *testing.T) {
	e := params.Entity{
		ID:   2,
		Name: "colorflash",
		Params: params.Params{
			"length": params.Number(2),
			"sine":   params.Raw("true"),
			"color":  params.Raw(`"#00ff00"`),
			"count":  params.Raw(`"3"`),
		},
	}
	ed := NewEditor(EditorTransform, e, testSchema)

	rows := ed.Rows()
	controls := map[string]Control{}
	values := map[string]string{}
	for _, r := range rows {
		controls[r.Name] = r.Control
		values[r.Name] = params.FormatValue(r.Def.Type, r.Value)
	}
	wantControls := map[string]Control{
		"color":  ControlReadOnly,
		"count":  ControlReadOnly,
		"length": ControlFloat,
		"sine":   ControlReadOnly,
	}
	if diff := cmp.Diff(wantControls, controls); diff != "" {
		t.Errorf("controls (-want +got):\n%s", diff)
	}
	if values["color"] != "#00ff00" || values["sine"] != "true" {
		t.Errorf("read-only values = %v", values)
	}

	for _, name := range []string{"sine", "color", "count"} {
		if _, err := ed.EditValue(name, "1"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("EditValue(%s) error = %v, want ErrReadOnly", name, err)
		}
	}

	if _, err := ed.EditValue("length", "4"); err != nil {
		t.Fatalf("EditValue(length) error = %v", err)
	}
	req := ed.Save()
	want := params.Params{
		"length": params.Number(4),
		"sine":   params.Raw("true"),
		"color":  params.Raw(`"#00ff00"`),
		"count":  params.Raw(`"3"`),
	}
	if diff := cmp.Diff(want, req.Params); diff != "" {
		t.Errorf("saved params (-want +got):\n%s", diff)
	}
}

func TestBuildRowsWithoutBinding(t *testing.T) {
	e := testTransform()
	rows := BuildRows(e, e.Draft(), testSchema, false)
	for _, r := range rows {
		if r.CanBind {
			t.Errorf("%s: CanBind should be false when binding is disabled", r.Name)
		}
	}
}

func TestEditorMountIsClean(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)
	if ed.State() != StateClean {
		t.Errorf("State() = %v, want clean", ed.State())
	}
	if diff := cmp.Diff(testTransform().Params, ed.Draft().Params); diff != "" {
		t.Errorf("draft params (-want +got):\n%s", diff)
	}
}

func TestEditorEditUpdatesSingleKey(t *testing.T) {
	e := testTransform()
	ed := NewEditor(EditorTransform, e, testSchema)

	ok, err := ed.EditValue("length", "2.5")
	if err != nil || !ok {
		t.Fatalf("EditValue() = %v, %v", ok, err)
	}

	want := e.Params.Clone()
	want["length"] = params.Number(2.5)
	if diff := cmp.Diff(want, ed.Draft().Params); diff != "" {
		t.Errorf("draft params (-want +got):\n%s", diff)
	}
	if ed.State() != StateDirty {
		t.Error("editor should be dirty")
	}
	if ed.Confirmed().Params["length"] != params.Number(1) {
		t.Error("confirmed entity changed by edit")
	}
}

func TestEditorInvalidEditKeepsDraft(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)

	ok, err := ed.EditValue("count", "4.2")
	if err != nil {
		t.Fatalf("EditValue() error = %v", err)
	}
	if ok {
		t.Error("4.2 should be rejected for an integer parameter")
	}
	if ed.Draft().Params["count"] != params.Number(3) {
		t.Errorf("draft count = %v, want 3", ed.Draft().Params["count"])
	}
	if ed.State() != StateClean {
		t.Error("invalid edit should not dirty the editor")
	}
}

func TestEditorUnknownParam(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)
	if _, err := ed.EditValue("legacy", "1"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("EditValue(legacy) error = %v, want ErrUnknownParam", err)
	}
}

func TestEditorSaveDoesNotClean(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)
	ed.EditValue("length", "4")

	req := ed.Save()
	if req.ID != 1 || req.Params["length"] != params.Number(4) {
		t.Errorf("Save() = %+v", req)
	}
	if ed.State() != StateDirty {
		t.Error("Save should leave the editor dirty")
	}

	req.Params["length"] = params.Number(100)
	if ed.Draft().Params["length"] != params.Number(4) {
		t.Error("SaveRequest shares memory with the draft")
	}
}

func TestEditorReconcile(t *testing.T) {
	confirmed := params.Entity{ID: 1, Params: params.Params{"length": params.Number(5)}}
	ed := NewEditor(EditorTransform, confirmed, testSchema)

	if _, err := ed.EditValue("length", "5"); err != nil {
		t.Fatal(err)
	}
	if ed.State() != StateDirty {
		t.Fatal("expected dirty editor")
	}

	// Same content in a new object: no reset.
	if ed.Reconcile(params.Entity{ID: 1, Params: params.Params{"length": params.Number(5)}}) {
		t.Error("Reconcile with equal content reset the editor")
	}
	if ed.State() != StateDirty {
		t.Error("editor should still be dirty")
	}

	ed.EditValue("length", "6")

	// Changed content: reset, discarding the unsaved 6.
	if !ed.Reconcile(params.Entity{ID: 1, Params: params.Params{"length": params.Number(7)}}) {
		t.Fatal("Reconcile with new content should reset")
	}
	if ed.State() != StateClean {
		t.Error("editor should be clean after reset")
	}
	if got := ed.Draft().Params["length"]; got != params.Number(7) {
		t.Errorf("draft length = %v, want 7", got)
	}
	f, _ := ed.Field("length")
	if f.Text() != "7" || f.Edited() {
		t.Errorf("field text = %q edited = %v", f.Text(), f.Edited())
	}
}

func TestEditorReconcileUpdatesOrig(t *testing.T) {
	ed := NewEditor(EditorTransform, params.Entity{ID: 1, Params: params.Params{"length": params.Number(1)}}, testSchema)
	ed.EditValue("length", "2")
	f, _ := ed.Field("length")
	if !f.Edited() {
		t.Fatal("field should be edited")
	}

	// The server confirms the saved value.
	ed.Reconcile(params.Entity{ID: 1, Params: params.Params{"length": params.Number(2)}})

	if f.Edited() {
		t.Error("field should match the new confirmed value")
	}
	if ed.State() != StateClean {
		t.Error("editor should be clean")
	}
}

func TestEditorToggleRoundTrip(t *testing.T) {
	e := testTransform()
	ed := NewEditor(EditorTransform, e, testSchema)
	ed.EditValue("length", "2.25")
	before := ed.Draft().Params

	for i := 0; i < 2; i++ {
		if err := ed.ToggleBinding("length", true); err != nil {
			t.Fatalf("toggle on: %v", err)
		}
		if !ed.IsBound("length") {
			t.Fatal("length should be bound")
		}
		if diff := cmp.Diff(params.DefaultBinding(), ed.Draft().VariableParams["length"]); diff != "" {
			t.Errorf("installed binding (-want +got):\n%s", diff)
		}
		if err := ed.ToggleBinding("length", false); err != nil {
			t.Fatalf("toggle off: %v", err)
		}
	}

	if diff := cmp.Diff(before, ed.Draft().Params); diff != "" {
		t.Errorf("params after toggling (-want +got):\n%s", diff)
	}
	if len(ed.Draft().VariableParams) != 0 {
		t.Errorf("bindings leaked: %v", ed.Draft().VariableParams)
	}
}

func TestEditorToggleSetsModified(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)
	if err := ed.ToggleBinding("length", true); err != nil {
		t.Fatal(err)
	}
	if !ed.Modified() {
		t.Error("toggle should set modified")
	}
}

func TestEditorToggleNotBindable(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)
	if err := ed.ToggleBinding("count", true); !errors.Is(err, ErrNotBindable) {
		t.Errorf("ToggleBinding(count) error = %v, want ErrNotBindable", err)
	}
}

func TestEditorBindingEdits(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)
	ed.ToggleBinding("length", true)

	if err := ed.SelectVariable("length", intPtr(3)); err != nil {
		t.Fatal(err)
	}
	if ok, err := ed.EditMultiply("length", "2x"); err != nil || ok {
		t.Fatalf("EditMultiply(2x) = %v, %v", ok, err)
	}
	if ok, err := ed.EditAdd("length", "0.5"); err != nil || !ok {
		t.Fatalf("EditAdd() = %v, %v", ok, err)
	}

	want := params.VariableBinding{VariableID: intPtr(3), Multiply: 1, Add: 0.5}
	if diff := cmp.Diff(want, ed.Save().VariableParams["length"]); diff != "" {
		t.Errorf("saved binding (-want +got):\n%s", diff)
	}
}

func TestEditorReconcileDropsStaleBindings(t *testing.T) {
	e := testTransform()
	e.VariableParams = params.VariableParams{"length": {VariableID: intPtr(3), Multiply: 1}}
	ed := NewEditor(EditorTransform, e, testSchema)

	be, err := ed.Binding("length")
	if err != nil {
		t.Fatal(err)
	}
	be.EditMultiply("9")

	updated := testTransform()
	ed.Reconcile(updated)

	if ed.IsBound("length") {
		t.Error("length should no longer be bound")
	}
	if _, err := ed.Binding("length"); !errors.Is(err, ErrNotBound) {
		t.Errorf("Binding(length) error = %v, want ErrNotBound", err)
	}
	if _, err := ed.EditAdd("length", "1"); !errors.Is(err, ErrNotBound) {
		t.Errorf("EditAdd(length) error = %v, want ErrNotBound", err)
	}
}

func TestVariableEditor(t *testing.T) {
	v := params.Entity{ID: 7, Name: "clock", Params: params.Params{"length": params.Number(10)}}
	ed := NewEditor(EditorVariable, v, testSchema)

	if err := ed.ToggleBinding("length", true); !errors.Is(err, ErrBindingUnsupported) {
		t.Errorf("ToggleBinding error = %v, want ErrBindingUnsupported", err)
	}
	for _, r := range ed.Rows() {
		if r.CanBind {
			t.Errorf("%s: variable rows must not offer binding", r.Name)
		}
	}

	if err := ed.Rename("slow clock"); err != nil {
		t.Fatal(err)
	}
	req := ed.Save()
	if req.Name != "slow clock" || req.VariableParams != nil {
		t.Errorf("Save() = %+v", req)
	}

	// Same params, same name: nothing to do.
	if ed.Reconcile(v) {
		t.Error("Reconcile reset with unchanged content")
	}

	// A rename confirmed by the server resets the draft.
	renamed := v
	renamed.Name = "slow clock"
	if !ed.Reconcile(renamed) {
		t.Error("Reconcile should reset on a confirmed rename")
	}
	if ed.State() != StateClean || ed.Name() != "slow clock" {
		t.Errorf("state = %v name = %q", ed.State(), ed.Name())
	}
}

func TestTransformRenameRejected(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)
	if err := ed.Rename("x"); !errors.Is(err, ErrRenameUnsupported) {
		t.Errorf("Rename error = %v, want ErrRenameUnsupported", err)
	}
}

func TestEditorIntents(t *testing.T) {
	ed := NewEditor(EditorTransform, testTransform(), testSchema)

	if got := ed.MoveUp(); got != (MoveRequest{ID: 1, Delta: -1}) {
		t.Errorf("MoveUp() = %+v", got)
	}
	if got := ed.MoveDown(); got != (MoveRequest{ID: 1, Delta: 1}) {
		t.Errorf("MoveDown() = %+v", got)
	}
	if got := ed.Delete(); got != (DeleteRequest{Kind: EditorTransform, ID: 1}) {
		t.Errorf("Delete() = %+v", got)
	}
}
