package store

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/logging"
	"github.com/muurk/pilightctl/internal/params"
)

// Backend is the network collaborator. *api.Client implements it.
type Backend interface {
	Bootstrap(ctx context.Context) (*api.BootstrapData, error)
	SaveConfig(ctx context.Context, name string) ([]api.Config, error)
	LoadConfig(ctx context.Context, id int) error
	DeleteConfig(ctx context.Context, id int) ([]api.Config, error)
	StartDriver(ctx context.Context, playlistID *int) error
	StopDriver(ctx context.Context) error
	RestartDriver(ctx context.Context) error
	AddTransform(ctx context.Context, typeID int) ([]params.Entity, error)
	UpdateTransform(ctx context.Context, id int, p params.Params, vp params.VariableParams) (params.Entity, error)
	DeleteTransform(ctx context.Context, id int) ([]params.Entity, error)
	ReorderTransforms(ctx context.Context, ids []int) ([]params.Entity, error)
	UpdateVariable(ctx context.Context, id int, name string, p params.Params) (params.Entity, error)
	DeleteVariable(ctx context.Context, id int) ([]params.Entity, error)
	BaseColors(ctx context.Context) ([]string, error)
	FillColor(ctx context.Context, color string) error
	ApplyTool(ctx context.Context, s api.Stroke) ([]string, error)
	Simulate(ctx context.Context) ([]api.Frame, error)
	SetChannel(ctx context.Context, channel, color string) error
}

var _ Backend = (*api.Client)(nil)

// DefaultRequestTimeout bounds each backend call started by a command.
const DefaultRequestTimeout = 15 * time.Second

// Store owns the session State. It is a bubbletea model: actions and
// commands arrive as messages through Update, and the network half of a
// command runs as a tea.Cmd whose result message is fed back into Update.
//
// Store is a value; Update returns the next Store.
type Store struct {
	state   State
	backend Backend
	ctx     context.Context
	timeout time.Duration

	// generation numbers bootstraps; replies from older ones are dropped
	generation int
}

// Option configures a Store.
type Option func(*Store)

// WithContext sets the parent context of every backend call.
func WithContext(ctx context.Context) Option {
	return func(s *Store) { s.ctx = ctx }
}

// WithRequestTimeout bounds each backend call.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithState seeds the store with a state other than InitialState.
func WithState(st State) Option {
	return func(s *Store) { s.state = st }
}

// New creates a store backed by b.
func New(b Backend, opts ...Option) Store {
	s := Store{
		state:   InitialState(),
		backend: b,
		ctx:     context.Background(),
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// State returns the current state.
func (s Store) State() State { return s.state }

// Init starts the first bootstrap.
func (s Store) Init() tea.Cmd {
	return func() tea.Msg { return Bootstrap{} }
}

type bootstrapResult struct {
	generation int
	data       *api.BootstrapData
	err        error
}

// Update applies msg. Actions and batches are reduced immediately; commands
// apply their optimistic actions and return the tea.Cmd that performs the
// request. Unknown messages are ignored.
func (s Store) Update(msg tea.Msg) (Store, tea.Cmd) {
	switch msg := msg.(type) {
	case Action:
		s.apply(msg)
		return s, nil

	case Batch:
		for _, a := range msg {
			s.apply(a)
		}
		return s, nil

	case bootstrapResult:
		return s.finishBootstrap(msg), nil

	case Bootstrap:
		s.generation++
		s.apply(StartBootstrap{})
		gen := s.generation
		return s, s.request("bootstrap", func(ctx context.Context) tea.Msg {
			data, err := s.backend.Bootstrap(ctx)
			return bootstrapResult{generation: gen, data: data, err: err}
		})

	case SaveConfig:
		s.apply(SetSelectedConfig{Name: msg.Name})
		return s, s.request("save config", func(ctx context.Context) tea.Msg {
			configs, err := s.backend.SaveConfig(ctx, msg.Name)
			if err != nil {
				return failure(err)
			}
			return SetConfigs{Configs: configs}
		})

	case LoadConfig:
		// Replies of bootstraps started before the load describe the old
		// config.
		s.generation++
		s.apply(StartBootstrap{})
		if name, ok := api.FindConfig(s.state.Configs, msg.ID); ok {
			s.apply(SetSelectedConfig{Name: name})
		}
		return s, s.request("load config", func(ctx context.Context) tea.Msg {
			if err := s.backend.LoadConfig(ctx, msg.ID); err != nil {
				return Batch{FinishBootstrap{}, failure(err)}
			}
			return Bootstrap{}
		})

	case DeleteConfig:
		return s, s.request("delete config", func(ctx context.Context) tea.Msg {
			configs, err := s.backend.DeleteConfig(ctx, msg.ID)
			if err != nil {
				return failure(err)
			}
			return SetConfigs{Configs: configs}
		})

	case StartDriver:
		var playlist *int
		if cur := s.state.Playlists.CurrentID; cur != nil {
			id := *cur
			playlist = &id
		}
		return s, s.request("start driver", func(ctx context.Context) tea.Msg {
			return onlyFailure(s.backend.StartDriver(ctx, playlist))
		})

	case StopDriver:
		return s, s.request("stop driver", func(ctx context.Context) tea.Msg {
			return onlyFailure(s.backend.StopDriver(ctx))
		})

	case RestartDriver:
		return s, s.request("restart driver", func(ctx context.Context) tea.Msg {
			return onlyFailure(s.backend.RestartDriver(ctx))
		})

	case SelectPlaylist:
		playlists := s.state.Playlists.Clone()
		playlists.CurrentID = nil
		if msg.ID != nil {
			id := *msg.ID
			playlists.CurrentID = &id
		}
		s.apply(SetPlaylists{Playlists: playlists})
		return s, nil

	case AddTransform:
		return s, s.request("add transform", func(ctx context.Context) tea.Msg {
			transforms, err := s.backend.AddTransform(ctx, msg.TypeID)
			if err != nil {
				return failure(err)
			}
			return SetTransforms{Transforms: transforms}
		})

	case SaveTransform:
		p, vp := msg.Params.Clone(), msg.VariableParams.Clone()
		return s, s.request("save transform", func(ctx context.Context) tea.Msg {
			t, err := s.backend.UpdateTransform(ctx, msg.ID, p, vp)
			if err != nil {
				return failure(err)
			}
			return ReplaceTransform{Transform: t}
		})

	case DeleteTransform:
		return s, s.request("delete transform", func(ctx context.Context) tea.Msg {
			transforms, err := s.backend.DeleteTransform(ctx, msg.ID)
			if err != nil {
				return failure(err)
			}
			return SetTransforms{Transforms: transforms}
		})

	case MoveTransform:
		moved, ok := move(s.state.Transforms, msg.ID, msg.Delta)
		if !ok {
			return s, nil
		}
		s.apply(SetTransforms{Transforms: moved})
		ids := make([]int, len(moved))
		for i, t := range moved {
			ids[i] = t.ID
		}
		return s, s.request("reorder transforms", func(ctx context.Context) tea.Msg {
			transforms, err := s.backend.ReorderTransforms(ctx, ids)
			if err != nil {
				return failure(err)
			}
			return SetTransforms{Transforms: transforms}
		})

	case SaveVariable:
		p := msg.Params.Clone()
		return s, s.request("save variable", func(ctx context.Context) tea.Msg {
			v, err := s.backend.UpdateVariable(ctx, msg.ID, msg.Name, p)
			if err != nil {
				return failure(err)
			}
			return Batch{ReplaceVariable{Variable: v}, RenameVariableRef{ID: v.ID, Name: v.Name}}
		})

	case DeleteVariable:
		return s, s.request("delete variable", func(ctx context.Context) tea.Msg {
			variables, err := s.backend.DeleteVariable(ctx, msg.ID)
			if err != nil {
				return failure(err)
			}
			return Batch{SetVariables{Variables: variables}, DropVariableRef{ID: msg.ID}}
		})

	case LoadBaseColors:
		return s, s.request("load base colors", func(ctx context.Context) tea.Msg {
			colors, err := s.backend.BaseColors(ctx)
			if err != nil {
				return failure(err)
			}
			return SetBaseColors{Colors: colors}
		})

	case FillColor:
		return s, s.request("fill color", func(ctx context.Context) tea.Msg {
			if err := s.backend.FillColor(ctx, msg.Color); err != nil {
				return failure(err)
			}
			return LoadBaseColors{}
		})

	case ApplyTool:
		return s, s.request("apply tool", func(ctx context.Context) tea.Msg {
			colors, err := s.backend.ApplyTool(ctx, msg.Stroke)
			if err != nil {
				return failure(err)
			}
			return SetBaseColors{Colors: colors}
		})

	case RunPreview:
		if s.state.PreviewActive() {
			return s, nil
		}
		s.apply(SetPreview{Pending: true})
		return s, s.request("preview", func(ctx context.Context) tea.Msg {
			frames, err := s.backend.Simulate(ctx)
			if err != nil {
				return Batch{SetPreview{}, failure(err)}
			}
			return SetPreview{Frames: frames}
		})

	case SetChannel:
		return s, s.request("set channel", func(ctx context.Context) tea.Msg {
			return onlyFailure(s.backend.SetChannel(ctx, msg.Channel, msg.Color))
		})
	}

	return s, nil
}

func (s *Store) apply(a Action) {
	logging.LogAction(fmt.Sprintf("%T", a))
	s.state = Reduce(s.state, a)
}

func (s Store) finishBootstrap(r bootstrapResult) Store {
	if r.generation != s.generation {
		logging.Warn("Dropping stale bootstrap response",
			zap.Int("generation", r.generation),
			zap.Int("latest", s.generation),
		)
		return s
	}

	if r.err != nil {
		s.apply(FinishBootstrap{})
		s.apply(failure(r.err))
		return s
	}

	d := r.data
	s.apply(SetConfigs{Configs: d.Configs})
	s.apply(SetNumLights{NumLights: d.NumLights})
	s.apply(SetPlaylists{Playlists: d.Playlists})
	s.apply(SetTransforms{Transforms: d.ActiveTransforms})
	s.apply(SetVariables{Variables: d.Variables})
	s.apply(SetSchema{
		Defs:                d.ParamsDef,
		VariablesByType:     d.VariablesByType,
		AvailableTransforms: d.AvailableTransforms,
	})
	s.apply(FinishBootstrap{})

	logging.Info("Bootstrap complete",
		zap.Int("configs", len(d.Configs)),
		zap.Int("transforms", len(d.ActiveTransforms)),
		zap.Int("lights", d.NumLights),
	)
	return s
}

// request wraps a backend call in a tea.Cmd with the store's context and
// timeout.
func (s Store) request(name string, fn func(ctx context.Context) tea.Msg) tea.Cmd {
	parent, timeout := s.ctx, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		logging.Debug("Command started", zap.String("command", name))
		return fn(ctx)
	}
}

func failure(err error) SetError {
	logging.Warn("Backend request failed", zap.Error(err))
	return SetError{Message: api.ShortMessage(err)}
}

func onlyFailure(err error) tea.Msg {
	if err != nil {
		return failure(err)
	}
	return nil
}

// move returns a copy of list with entry id moved by delta positions, or
// false if the move would leave the list.
func move(list []params.Entity, id, delta int) ([]params.Entity, bool) {
	from := indexOf(list, id)
	to := from + delta
	if from < 0 || to < 0 || to >= len(list) || delta == 0 {
		return nil, false
	}
	out := make([]params.Entity, len(list))
	copy(out, list)
	item := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = item
	return out, true
}

func renameRefs(vbt params.VariablesByType, id int, name string) params.VariablesByType {
	out := make(params.VariablesByType, len(vbt))
	for t, refs := range vbt {
		list := make([]params.VariableRef, len(refs))
		for i, r := range refs {
			if r.ID == id {
				r.Name = name
			}
			list[i] = r
		}
		out[t] = list
	}
	return out
}

func dropRefs(vbt params.VariablesByType, id int) params.VariablesByType {
	out := make(params.VariablesByType, len(vbt))
	for t, refs := range vbt {
		list := make([]params.VariableRef, 0, len(refs))
		for _, r := range refs {
			if r.ID != id {
				list = append(list, r)
			}
		}
		out[t] = list
	}
	return out
}

// Drain feeds msg into s and runs the resulting command chain to completion
// on the calling goroutine. One-shot CLI commands and tests use it in place
// of a bubbletea program.
func Drain(s Store, msg tea.Msg) Store {
	for msg != nil {
		var cmd tea.Cmd
		s, cmd = s.Update(msg)
		if cmd == nil {
			break
		}
		msg = cmd()
	}
	return s
}
