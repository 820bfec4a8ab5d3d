// Package tui implements pilightctl's interactive control panel.
//
// The panel is a Bubble Tea program with three tabs:
//
//   - Controls: the saved config list (load, save, delete), the driver
//     buttons (start, stop, restart) and the playlist selector
//   - Transforms: one editor card per active transform
//   - Variables: one editor card per variable
//
// # State Flow
//
// AppModel owns a store.Store. Every message that is not a key press is
// passed to Store.Update, and afterwards every editor is reconciled
// against the new confirmed state: editors are mounted for new entities,
// unmounted for removed ones, and reset when their entity's content
// changed on the server. Unsaved edits survive any update that leaves
// their entity's content alone.
//
// Key presses never touch the store directly. Panes turn them into store
// commands (store.SaveTransform, store.LoadConfig, ...) returned as
// tea.Cmds, so every change to confirmed state arrives through Update.
//
// # Editing
//
// Each parameter row edits through a form.Field: text is validated on
// every keystroke, valid text updates the Draft at once and invalid text
// is kept and shown in red without touching the Draft. Bound parameters
// show the selected variable and the multiply and add coefficients.
// Saving sends the whole Draft; the editor stays marked modified until
// the backend's reply comes back through the store.
//
// # Backend Picker
//
// PickerModel runs before the panel when no server is configured. It
// scans for backends over mDNS, lists them as cards, and accepts a typed
// URL when discovery finds nothing.
package tui
