package store

import (
	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/params"
)

// Action is a state transition. The set is closed: only the types in this
// file implement it.
type Action interface {
	action()
}

type (
	// ClearError removes the surfaced error.
	ClearError struct{}
	// StartBootstrap marks a bootstrap as in flight.
	StartBootstrap struct{}
	// FinishBootstrap marks the bootstrap as done.
	FinishBootstrap struct{}
	// SetConfigs replaces the config list.
	SetConfigs struct{ Configs []api.Config }
	// SetError replaces the surfaced error.
	SetError struct{ Message string }
	// SetNumLights sets the light count.
	SetNumLights struct{ NumLights int }
	// SetPlaylists replaces the playlist state.
	SetPlaylists struct{ Playlists api.Playlists }
	// SetSelectedConfig sets the displayed config name.
	SetSelectedConfig struct{ Name string }
	// SetTransforms replaces the active transform list.
	SetTransforms struct{ Transforms []params.Entity }
	// SetVariables replaces the variable list.
	SetVariables struct{ Variables []params.Entity }
	// SetSchema replaces the parameter definitions and bindable variables.
	SetSchema struct {
		Defs                params.Defs
		VariablesByType     params.VariablesByType
		AvailableTransforms []api.TransformType
	}
	// ReplaceTransform swaps in a confirmed transform by id.
	ReplaceTransform struct{ Transform params.Entity }
	// ReplaceVariable swaps in a confirmed variable by id.
	ReplaceVariable struct{ Variable params.Entity }
	// RenameVariableRef renames variable ID in the bindable variable lists.
	RenameVariableRef struct {
		ID   int
		Name string
	}
	// DropVariableRef removes variable ID from the bindable variable lists.
	DropVariableRef struct{ ID int }
	// SetBaseColors replaces the per-light base colors.
	SetBaseColors struct{ Colors []string }
	// SetPreview replaces the simulated frames. Pending marks a simulation
	// in flight.
	SetPreview struct {
		Frames  []api.Frame
		Pending bool
	}
)

func (ClearError) action()        {}
func (StartBootstrap) action()    {}
func (FinishBootstrap) action()   {}
func (SetConfigs) action()        {}
func (SetError) action()          {}
func (SetNumLights) action()      {}
func (SetPlaylists) action()      {}
func (SetSelectedConfig) action() {}
func (SetTransforms) action()     {}
func (SetVariables) action()      {}
func (SetSchema) action()         {}
func (ReplaceTransform) action()  {}
func (ReplaceVariable) action()   {}
func (RenameVariableRef) action() {}
func (DropVariableRef) action()   {}
func (SetBaseColors) action()     {}
func (SetPreview) action()        {}

// Batch is a message carrying several actions applied in order.
type Batch []Action

// Reduce applies a to s. Each case touches only its own fields.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ClearError:
		s.ErrorMessage = ""
	case StartBootstrap:
		s.BootstrapStatus = BootstrapPending
	case FinishBootstrap:
		s.BootstrapStatus = BootstrapDone
	case SetConfigs:
		s.Configs = a.Configs
	case SetError:
		s.ErrorMessage = a.Message
	case SetNumLights:
		s.NumLights = a.NumLights
	case SetPlaylists:
		s.Playlists = a.Playlists
	case SetSelectedConfig:
		s.SelectedConfig = a.Name
	case SetTransforms:
		s.Transforms = a.Transforms
	case SetVariables:
		s.Variables = a.Variables
	case SetSchema:
		s.Defs = a.Defs
		s.VariablesByType = a.VariablesByType
		s.AvailableTransforms = a.AvailableTransforms
	case ReplaceTransform:
		s.Transforms = replace(s.Transforms, a.Transform)
	case ReplaceVariable:
		s.Variables = replace(s.Variables, a.Variable)
	case RenameVariableRef:
		s.VariablesByType = renameRefs(s.VariablesByType, a.ID, a.Name)
	case DropVariableRef:
		s.VariablesByType = dropRefs(s.VariablesByType, a.ID)
	case SetBaseColors:
		s.BaseColors = a.Colors
	case SetPreview:
		s.PreviewFrames = a.Frames
		s.PreviewPending = a.Pending
	}
	return s
}

// replace returns a new list with e in place of the entry with the same id.
// Unknown ids are appended.
func replace(list []params.Entity, e params.Entity) []params.Entity {
	out := make([]params.Entity, len(list), len(list)+1)
	copy(out, list)
	if i := indexOf(out, e.ID); i >= 0 {
		out[i] = e
		return out
	}
	return append(out, e)
}
