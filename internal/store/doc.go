// Package store holds the server-confirmed session state and runs the
// commands that change it.
//
// State changes only through Actions applied by Reduce, a pure function.
// The Store wraps the state in a bubbletea-style model: Update takes
// actions, which it reduces, and commands (SaveConfig, LoadConfig,
// StartDriver, ...), which apply their optimistic actions right away and
// return a tea.Cmd that calls the Backend and answers with more actions.
//
//	s := store.New(client)
//	s = store.Drain(s, store.SaveConfig{Name: "evening"})
//	fmt.Println(s.State().SelectedConfig, s.State().ErrorMessage)
//
// Failures never propagate as Go errors past the store: they become a
// SetError action whose message replaces any earlier one until ClearError.
//
// Bootstraps are numbered. When a newer bootstrap has been started, the
// reply of an older one is dropped, so a slow reload never overwrites the
// result of a later one. Other commands are last-writer-wins.
package store
