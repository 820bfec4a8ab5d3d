package api

import "github.com/muurk/pilightctl/internal/params"

// Config is a saved configuration (a named snapshot of lights and
// transforms) on the backend.
type Config struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// FindConfig returns the name of the config with the given id.
func FindConfig(configs []Config, id int) (string, bool) {
	for _, c := range configs {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

// Playlist is a sequence of configs the driver can cycle through.
type Playlist struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Playlists is the playlist selection state. CurrentID is nil when no
// playlist is selected.
type Playlists struct {
	CurrentID *int       `json:"currentId,omitempty" yaml:"current_id,omitempty"`
	Items     []Playlist `json:"items" yaml:"items"`
}

// Clone returns a deep copy of p.
func (p Playlists) Clone() Playlists {
	out := Playlists{Items: append([]Playlist(nil), p.Items...)}
	if p.CurrentID != nil {
		id := *p.CurrentID
		out.CurrentID = &id
	}
	return out
}

// TransformType is an entry in the palette of transforms that can be added.
type TransformType struct {
	ID            int           `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	LongName      string        `json:"longName" yaml:"long_name"`
	Description   string        `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultParams params.Params `json:"defaultParams,omitempty" yaml:"default_params,omitempty"`
}

// BootstrapData is the full session state returned by GET /api/.
type BootstrapData struct {
	CSRFToken           string                 `json:"csrfToken" yaml:"-"`
	Configs             []Config               `json:"configs" yaml:"configs"`
	ActiveTransforms    []params.Entity        `json:"activeTransforms" yaml:"active_transforms"`
	AvailableTransforms []TransformType        `json:"availableTransforms" yaml:"available_transforms"`
	Variables           []params.Entity        `json:"variables" yaml:"variables"`
	VariablesByType     params.VariablesByType `json:"variablesByType" yaml:"variables_by_type"`
	ParamsDef           params.Defs            `json:"paramsDef" yaml:"params_def"`
	Playlists           Playlists              `json:"playlists" yaml:"playlists"`
	NumLights           int                    `json:"numLights" yaml:"num_lights"`
}

// envelope is the status part every JSON reply carries.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

type configsReply struct {
	Configs []Config `json:"configs"`
}

type transformsReply struct {
	ActiveTransforms []params.Entity `json:"activeTransforms"`
}

type transformReply struct {
	Transform params.Entity `json:"transform"`
}

type variablesReply struct {
	Variables []params.Entity `json:"variables"`
}

type variableReply struct {
	Variable params.Entity `json:"variable"`
}

type loginReply struct {
	Result string `json:"result"`
}

// LoginAuthenticated is the result string of a successful login.
const LoginAuthenticated = "Authenticated"
