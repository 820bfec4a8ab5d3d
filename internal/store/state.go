package store

import (
	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/params"
)

// BootstrapStatus gates the loading indicator.
type BootstrapStatus string

const (
	BootstrapPending BootstrapStatus = "PENDING"
	BootstrapDone    BootstrapStatus = "DONE"
)

// State is the server-confirmed session state.
type State struct {
	// ErrorMessage is the single surfaced error; empty means none.
	ErrorMessage    string
	Configs         []api.Config
	BootstrapStatus BootstrapStatus
	NumLights       int
	Playlists       api.Playlists
	// SelectedConfig is the name shown as the current config. It may be set
	// optimistically before the backend confirms anything.
	SelectedConfig string

	Transforms          []params.Entity
	Variables           []params.Entity
	AvailableTransforms []api.TransformType
	Defs                params.Defs
	VariablesByType     params.VariablesByType

	// BaseColors is the color of each light before transforms apply. It is
	// loaded on demand, not by bootstrap.
	BaseColors []string
	// PreviewFrames holds the last simulation until it is cleared.
	PreviewFrames  []api.Frame
	PreviewPending bool
}

// InitialState is the state before the first bootstrap completes.
func InitialState() State {
	return State{
		Configs:         []api.Config{},
		BootstrapStatus: BootstrapPending,
	}
}

// HasError reports whether an error is being surfaced.
func (s State) HasError() bool {
	return s.ErrorMessage != ""
}

// Loading reports whether a bootstrap is in flight.
func (s State) Loading() bool {
	return s.BootstrapStatus == BootstrapPending
}

// PreviewActive reports whether a preview is running or being shown.
func (s State) PreviewActive() bool {
	return s.PreviewPending || len(s.PreviewFrames) > 0
}

// Transform returns the active transform with the given id.
func (s State) Transform(id int) (params.Entity, bool) {
	return find(s.Transforms, id)
}

// Variable returns the variable with the given id.
func (s State) Variable(id int) (params.Entity, bool) {
	return find(s.Variables, id)
}

func find(list []params.Entity, id int) (params.Entity, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return params.Entity{}, false
}

func indexOf(list []params.Entity, id int) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}
