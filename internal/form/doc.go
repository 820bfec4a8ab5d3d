// Package form implements the editing model behind the transform and
// variable editors: validated numeric fields, variable binding editors,
// parameter row layout and the per-entity Draft state machine.
//
// Nothing in this package performs I/O. An Editor produces requests
// (SaveRequest, DeleteRequest, MoveRequest) that the caller hands to the
// store, and it consumes confirmed state through Reconcile.
//
// # Fields
//
// A Field keeps the text the user typed even when it does not parse. Only
// valid text yields a value:
//
//	f := form.NewField(form.KindFloat, 1, 1)
//	v, ok := f.Edit("1.5")  // 1.5, true
//	_, ok = f.Edit("1.5x")  // false; f.Status() == form.StatusError
//
// # Editors
//
// An Editor is Clean after mount and after every reset, and Dirty after any
// edit. Saving does not clean it. When confirmed state arrives, Reconcile
// compares contents (not identity) and, if they changed, replaces the Draft
// wholesale, discarding unsaved edits:
//
//	ed := form.NewEditor(form.EditorTransform, entity, schema)
//	ed.EditValue("speed", "2.5")       // Dirty
//	req := ed.Save()                   // still Dirty
//	ed.Reconcile(confirmedFromServer)  // Clean if the content changed
package form
