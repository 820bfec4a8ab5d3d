package store

import (
	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/params"
)

// Commands are messages that start a backend request. None of them is an
// Action: Update turns each into optimistic actions plus a tea.Cmd.

// Bootstrap reloads the whole session state.
type Bootstrap struct{}

// SaveConfig stores the current setup under Name. The name is shown as
// selected immediately and stays even if the save fails.
type SaveConfig struct{ Name string }

// LoadConfig makes config ID current and then bootstraps again.
type LoadConfig struct{ ID int }

// DeleteConfig removes config ID.
type DeleteConfig struct{ ID int }

// StartDriver starts the driver on the selected playlist, if any.
type StartDriver struct{}

// StopDriver stops the driver.
type StopDriver struct{}

// RestartDriver restarts the driver.
type RestartDriver struct{}

// SelectPlaylist changes the playlist StartDriver uses; nil clears it.
type SelectPlaylist struct{ ID *int }

// AddTransform appends a transform of type TypeID.
type AddTransform struct{ TypeID int }

// SaveTransform persists a transform's params and bindings.
type SaveTransform struct {
	ID             int
	Params         params.Params
	VariableParams params.VariableParams
}

// DeleteTransform removes transform ID.
type DeleteTransform struct{ ID int }

// MoveTransform moves transform ID by Delta positions and persists the new
// order.
type MoveTransform struct {
	ID    int
	Delta int
}

// SaveVariable persists a variable's name and params.
type SaveVariable struct {
	ID     int
	Name   string
	Params params.Params
}

// DeleteVariable removes variable ID.
type DeleteVariable struct{ ID int }

// LoadBaseColors fetches the per-light base colors.
type LoadBaseColors struct{}

// FillColor sets every light's base color and reloads the base colors.
type FillColor struct{ Color string }

// ApplyTool paints a brush stroke onto the base colors.
type ApplyTool struct{ Stroke api.Stroke }

// RunPreview simulates the current setup. It is ignored while a preview is
// active.
type RunPreview struct{}

// SetChannel sends Color on the named color channel.
type SetChannel struct {
	Channel string
	Color   string
}
