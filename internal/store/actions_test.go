package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/params"
)

func TestReduceTouchesOnlyItsFields(t *testing.T) {
	base := State{
		ErrorMessage:    "old error",
		Configs:         []api.Config{{ID: 1, Name: "evening"}},
		BootstrapStatus: BootstrapDone,
		NumLights:       50,
		SelectedConfig:  "evening",
	}

	tests := []struct {
		name   string
		action Action
		want   func(State) State
	}{
		{"ClearError", ClearError{}, func(s State) State { s.ErrorMessage = ""; return s }},
		{"StartBootstrap", StartBootstrap{}, func(s State) State { s.BootstrapStatus = BootstrapPending; return s }},
		{"FinishBootstrap", FinishBootstrap{}, func(s State) State { return s }},
		{"SetError", SetError{Message: "new"}, func(s State) State { s.ErrorMessage = "new"; return s }},
		{"SetNumLights", SetNumLights{NumLights: 8}, func(s State) State { s.NumLights = 8; return s }},
		{
			"SetSelectedConfig does not alter configs",
			SetSelectedConfig{Name: "unsaved"},
			func(s State) State { s.SelectedConfig = "unsaved"; return s },
		},
		{
			"SetConfigs does not alter selection",
			SetConfigs{Configs: []api.Config{{ID: 2, Name: "party"}}},
			func(s State) State { s.Configs = []api.Config{{ID: 2, Name: "party"}}; return s },
		},
		{
			"SetBaseColors",
			SetBaseColors{Colors: []string{"#ffffff"}},
			func(s State) State { s.BaseColors = []string{"#ffffff"}; return s },
		},
		{
			"SetPreview",
			SetPreview{Pending: true},
			func(s State) State { s.PreviewPending = true; return s },
		},
		{
			"SetPlaylists",
			SetPlaylists{Playlists: api.Playlists{CurrentID: intPtr(3)}},
			func(s State) State { s.Playlists = api.Playlists{CurrentID: intPtr(3)}; return s },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(base, tt.action)
			if diff := cmp.Diff(tt.want(base), got); diff != "" {
				t.Errorf("Reduce() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduceReplace(t *testing.T) {
	s := State{Transforms: []params.Entity{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}}
	original := s.Transforms

	got := Reduce(s, ReplaceTransform{Transform: params.Entity{ID: 2, Name: "b2"}})

	if diff := cmp.Diff([]int{1, 2}, ids(got.Transforms)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if got.Transforms[1].Name != "b2" {
		t.Errorf("Transforms[1].Name = %q", got.Transforms[1].Name)
	}
	if original[1].Name != "b" {
		t.Error("Reduce mutated the previous state's slice")
	}

	got = Reduce(got, ReplaceTransform{Transform: params.Entity{ID: 3}})
	if diff := cmp.Diff([]int{1, 2, 3}, ids(got.Transforms)); diff != "" {
		t.Errorf("append unknown id (-want +got):\n%s", diff)
	}
}

func TestReduceVariableRefs(t *testing.T) {
	s := State{
		Defs: params.Defs{"length": {Name: "length", Type: params.TypeFloat}},
		VariablesByType: params.VariablesByType{
			params.TypeFloat: {{ID: 4, Name: "clock"}, {ID: 5, Name: "wave"}},
			params.TypeLong:  {{ID: 4, Name: "clock"}},
		},
	}
	before := s.VariablesByType

	renamed := Reduce(s, RenameVariableRef{ID: 4, Name: "tick"})
	want := params.VariablesByType{
		params.TypeFloat: {{ID: 4, Name: "tick"}, {ID: 5, Name: "wave"}},
		params.TypeLong:  {{ID: 4, Name: "tick"}},
	}
	if diff := cmp.Diff(want, renamed.VariablesByType); diff != "" {
		t.Errorf("rename (-want +got):\n%s", diff)
	}
	if before[params.TypeFloat][0].Name != "clock" {
		t.Error("rename mutated the previous state")
	}
	if diff := cmp.Diff(s.Defs, renamed.Defs); diff != "" {
		t.Errorf("rename touched Defs (-want +got):\n%s", diff)
	}

	dropped := Reduce(renamed, DropVariableRef{ID: 4})
	want = params.VariablesByType{
		params.TypeFloat: {{ID: 5, Name: "wave"}},
		params.TypeLong:  {},
	}
	if diff := cmp.Diff(want, dropped.VariablesByType); diff != "" {
		t.Errorf("drop (-want +got):\n%s", diff)
	}
}

func TestReduceBatchOrder(t *testing.T) {
	s := New(&fakeBackend{})
	s, _ = s.Update(Batch{FinishBootstrap{}, SetError{Message: "x"}, StartBootstrap{}})

	if s.State().BootstrapStatus != BootstrapPending {
		t.Errorf("BootstrapStatus = %v, want last action to win", s.State().BootstrapStatus)
	}
	if s.State().ErrorMessage != "x" {
		t.Errorf("ErrorMessage = %q", s.State().ErrorMessage)
	}
}
