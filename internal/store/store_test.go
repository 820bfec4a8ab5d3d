package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/params"
)

// fakeBackend records calls and answers from canned data.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	bootstrap  *api.BootstrapData
	configs    []api.Config
	transforms []params.Entity
	variables  []params.Entity
	err        error

	startPlaylist *int
	startCalled   bool
	reorderIDs    []int

	baseColors []string
	frames     []api.Frame
	filled     string
	stroke     api.Stroke
	channel    [2]string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) Bootstrap(ctx context.Context) (*api.BootstrapData, error) {
	f.record("bootstrap")
	if f.err != nil {
		return nil, f.err
	}
	return f.bootstrap, nil
}

func (f *fakeBackend) SaveConfig(ctx context.Context, name string) ([]api.Config, error) {
	f.record("save " + name)
	return f.configs, f.err
}

func (f *fakeBackend) LoadConfig(ctx context.Context, id int) error {
	f.record("load")
	return f.err
}

func (f *fakeBackend) DeleteConfig(ctx context.Context, id int) ([]api.Config, error) {
	f.record("delete config")
	return f.configs, f.err
}

func (f *fakeBackend) StartDriver(ctx context.Context, playlistID *int) error {
	f.record("start")
	f.startCalled = true
	f.startPlaylist = playlistID
	return f.err
}

func (f *fakeBackend) StopDriver(ctx context.Context) error {
	f.record("stop")
	return f.err
}

func (f *fakeBackend) RestartDriver(ctx context.Context) error {
	f.record("restart")
	return f.err
}

func (f *fakeBackend) AddTransform(ctx context.Context, typeID int) ([]params.Entity, error) {
	f.record("add transform")
	return f.transforms, f.err
}

func (f *fakeBackend) UpdateTransform(ctx context.Context, id int, p params.Params, vp params.VariableParams) (params.Entity, error) {
	f.record("update transform")
	if f.err != nil {
		return params.Entity{}, f.err
	}
	return params.Entity{ID: id, Params: p, VariableParams: vp}, nil
}

func (f *fakeBackend) DeleteTransform(ctx context.Context, id int) ([]params.Entity, error) {
	f.record("delete transform")
	return f.transforms, f.err
}

func (f *fakeBackend) ReorderTransforms(ctx context.Context, ids []int) ([]params.Entity, error) {
	f.record("reorder")
	f.reorderIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	out := make([]params.Entity, len(ids))
	for i, id := range ids {
		out[i] = params.Entity{ID: id}
	}
	return out, nil
}

func (f *fakeBackend) UpdateVariable(ctx context.Context, id int, name string, p params.Params) (params.Entity, error) {
	f.record("update variable")
	if f.err != nil {
		return params.Entity{}, f.err
	}
	return params.Entity{ID: id, Name: name, Params: p}, nil
}

func (f *fakeBackend) DeleteVariable(ctx context.Context, id int) ([]params.Entity, error) {
	f.record("delete variable")
	return f.variables, f.err
}

func (f *fakeBackend) BaseColors(ctx context.Context) ([]string, error) {
	f.record("base colors")
	return f.baseColors, f.err
}

func (f *fakeBackend) FillColor(ctx context.Context, color string) error {
	f.record("fill")
	f.filled = color
	return f.err
}

func (f *fakeBackend) ApplyTool(ctx context.Context, s api.Stroke) ([]string, error) {
	f.record("apply tool")
	f.stroke = s
	return f.baseColors, f.err
}

func (f *fakeBackend) Simulate(ctx context.Context) ([]api.Frame, error) {
	f.record("simulate")
	return f.frames, f.err
}

func (f *fakeBackend) SetChannel(ctx context.Context, channel, color string) error {
	f.record("channel")
	f.channel = [2]string{channel, color}
	return f.err
}

func intPtr(v int) *int { return &v }

func testBootstrapData() *api.BootstrapData {
	return &api.BootstrapData{
		Configs:          []api.Config{{ID: 1, Name: "evening"}, {ID: 2, Name: "party"}},
		ActiveTransforms: []params.Entity{{ID: 10, Params: params.Params{"length": params.Number(1)}}},
		Variables:        []params.Entity{{ID: 4, Name: "clock", Params: params.Params{"length": params.Number(10)}}},
		VariablesByType: params.VariablesByType{
			params.TypeFloat: {{ID: 4, Name: "clock"}},
		},
		ParamsDef: params.Defs{"length": {Name: "length", Type: params.TypeFloat}},
		Playlists: api.Playlists{CurrentID: intPtr(12)},
		NumLights: 50,
	}
}

func bootstrapped(t *testing.T, b *fakeBackend) Store {
	t.Helper()
	b.bootstrap = testBootstrapData()
	s := Drain(New(b), Bootstrap{})
	if s.State().BootstrapStatus != BootstrapDone {
		t.Fatalf("bootstrap did not finish: %+v", s.State())
	}
	b.calls = nil
	return s
}

func TestInitialState(t *testing.T) {
	s := New(&fakeBackend{})
	st := s.State()
	if st.BootstrapStatus != BootstrapPending {
		t.Errorf("BootstrapStatus = %v, want PENDING", st.BootstrapStatus)
	}
	if st.HasError() {
		t.Error("initial state should have no error")
	}
	if st.Configs == nil || len(st.Configs) != 0 {
		t.Errorf("Configs = %v, want empty list", st.Configs)
	}
}

func TestBootstrapPopulatesState(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)
	st := s.State()

	if st.NumLights != 50 {
		t.Errorf("NumLights = %d", st.NumLights)
	}
	if diff := cmp.Diff(testBootstrapData().Configs, st.Configs); diff != "" {
		t.Errorf("Configs (-want +got):\n%s", diff)
	}
	if _, ok := st.Transform(10); !ok {
		t.Error("transform 10 missing")
	}
	if v, ok := st.Variable(4); !ok || v.Name != "clock" {
		t.Errorf("Variable(4) = %+v, %v", v, ok)
	}
	if _, ok := st.Defs.Lookup("length"); !ok {
		t.Error("Defs missing length")
	}
}

func TestSaveConfigOptimisticName(t *testing.T) {
	b := &fakeBackend{configs: []api.Config{{ID: 3, Name: "profileA"}}}
	s := New(b)

	s, cmd := s.Update(SaveConfig{Name: "profileA"})
	if s.State().SelectedConfig != "profileA" {
		t.Errorf("SelectedConfig = %q before response, want profileA", s.State().SelectedConfig)
	}
	if len(s.State().Configs) != 0 {
		t.Error("configs changed before the backend answered")
	}

	s, _ = s.Update(cmd())
	if diff := cmp.Diff(b.configs, s.State().Configs); diff != "" {
		t.Errorf("Configs (-want +got):\n%s", diff)
	}
}

func TestSaveConfigFailureKeepsName(t *testing.T) {
	b := &fakeBackend{err: api.NewApplicationError("Must specify a config name")}
	s := Drain(New(b), SaveConfig{Name: "profileA"})

	st := s.State()
	if st.SelectedConfig != "profileA" {
		t.Errorf("SelectedConfig = %q, want optimistic name kept", st.SelectedConfig)
	}
	if st.ErrorMessage != "Must specify a config name" {
		t.Errorf("ErrorMessage = %q", st.ErrorMessage)
	}
	if len(st.Configs) != 0 {
		t.Errorf("Configs = %v, want unchanged", st.Configs)
	}
}

func TestLoadConfigSuccessRebootstraps(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)

	s, cmd := s.Update(LoadConfig{ID: 2})
	if !s.State().Loading() {
		t.Error("load should set bootstrap PENDING immediately")
	}
	if s.State().SelectedConfig != "party" {
		t.Errorf("SelectedConfig = %q, want party", s.State().SelectedConfig)
	}

	b.bootstrap.NumLights = 80
	s = Drain(s, cmd())

	if s.State().Loading() {
		t.Error("bootstrap should be DONE after reload")
	}
	if s.State().NumLights != 80 {
		t.Errorf("NumLights = %d, want refreshed 80", s.State().NumLights)
	}
	if diff := cmp.Diff([]string{"load", "bootstrap"}, b.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFailure(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)
	b.err = api.NewApplicationError("Invalid config specified")

	s = Drain(s, LoadConfig{ID: 2})

	st := s.State()
	if st.BootstrapStatus != BootstrapDone {
		t.Errorf("BootstrapStatus = %v, want DONE after failure", st.BootstrapStatus)
	}
	if st.ErrorMessage != "Invalid config specified" {
		t.Errorf("ErrorMessage = %q", st.ErrorMessage)
	}
	if diff := cmp.Diff([]string{"load"}, b.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestLoadConfigUnknownID(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)
	s = Drain(s, SaveConfig{Name: "current"})

	s, _ = s.Update(LoadConfig{ID: 99})
	if s.State().SelectedConfig != "current" {
		t.Errorf("SelectedConfig = %q, want unchanged for unknown id", s.State().SelectedConfig)
	}
}

func TestStartDriverPlaylist(t *testing.T) {
	tests := []struct {
		name     string
		playlist *int
	}{
		{"selected playlist", intPtr(12)},
		{"no playlist", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{}
			s := New(b, WithState(State{Playlists: api.Playlists{CurrentID: tt.playlist}}))

			Drain(s, StartDriver{})

			if !b.startCalled {
				t.Fatal("StartDriver not called")
			}
			if diff := cmp.Diff(tt.playlist, b.startPlaylist); diff != "" {
				t.Errorf("playlist (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectPlaylistThenStart(t *testing.T) {
	b := &fakeBackend{}
	s := New(b)

	s = Drain(s, SelectPlaylist{ID: intPtr(7)})
	Drain(s, StartDriver{})

	if b.startPlaylist == nil || *b.startPlaylist != 7 {
		t.Errorf("StartDriver playlist = %v, want 7", b.startPlaylist)
	}

	s = Drain(s, SelectPlaylist{})
	if s.State().Playlists.CurrentID != nil {
		t.Error("SelectPlaylist{} should clear the selection")
	}
}

func TestDriverFailureSetsError(t *testing.T) {
	for _, msg := range []any{StartDriver{}, StopDriver{}, RestartDriver{}} {
		b := &fakeBackend{err: api.NewHTTPError(502, "bad gateway")}
		s := Drain(New(b), msg)
		if got := s.State().ErrorMessage; got != "Backend error (HTTP 502)" {
			t.Errorf("%T: ErrorMessage = %q", msg, got)
		}
	}
}

func TestDeleteConfig(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)
	b.configs = []api.Config{{ID: 1, Name: "evening"}}

	s = Drain(s, DeleteConfig{ID: 2})

	if diff := cmp.Diff(b.configs, s.State().Configs); diff != "" {
		t.Errorf("Configs (-want +got):\n%s", diff)
	}
}

func TestErrorReplaceAndClear(t *testing.T) {
	s := New(&fakeBackend{})

	s, _ = s.Update(SetError{Message: "first"})
	s, _ = s.Update(SetError{Message: "second"})
	if s.State().ErrorMessage != "second" {
		t.Errorf("ErrorMessage = %q, want second", s.State().ErrorMessage)
	}

	s, _ = s.Update(SetConfigs{Configs: []api.Config{{ID: 1}}})
	if !s.State().HasError() {
		t.Error("only ClearError may clear the error")
	}

	s, _ = s.Update(ClearError{})
	if s.State().HasError() {
		t.Error("ClearError should clear the error")
	}
}

func TestStaleBootstrapDropped(t *testing.T) {
	b := &fakeBackend{bootstrap: testBootstrapData()}
	s := New(b)

	s, first := s.Update(Bootstrap{})
	s, second := s.Update(Bootstrap{})

	staleMsg := first()
	b.bootstrap = testBootstrapData()
	b.bootstrap.NumLights = 99
	freshMsg := second()

	s, _ = s.Update(freshMsg)
	s, _ = s.Update(staleMsg)

	if s.State().NumLights != 99 {
		t.Errorf("NumLights = %d, want 99 from the latest bootstrap", s.State().NumLights)
	}
}

func TestLoadConfigDropsEarlierBootstrap(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)

	s, refresh := s.Update(Bootstrap{})
	earlier := refresh()

	s, load := s.Update(LoadConfig{ID: 2})
	s, _ = s.Update(earlier)
	if !s.State().Loading() {
		t.Fatal("a bootstrap started before the load ended the load's pending state")
	}

	b.bootstrap = testBootstrapData()
	b.bootstrap.NumLights = 80
	s = Drain(s, load())
	if s.State().Loading() || s.State().NumLights != 80 {
		t.Errorf("Loading = %v, NumLights = %d; want the loaded config", s.State().Loading(), s.State().NumLights)
	}
}

func TestBootstrapFailure(t *testing.T) {
	b := &fakeBackend{err: api.NewAuthError(403, "denied")}
	s := Drain(New(b), Bootstrap{})

	st := s.State()
	if st.Loading() {
		t.Error("failed bootstrap should not stay PENDING")
	}
	if st.ErrorMessage == "" {
		t.Error("failed bootstrap should surface an error")
	}
}

func TestMoveTransform(t *testing.T) {
	b := &fakeBackend{}
	s := New(b, WithState(State{Transforms: []params.Entity{{ID: 1}, {ID: 2}, {ID: 3}}}))

	s, cmd := s.Update(MoveTransform{ID: 3, Delta: -1})
	got := ids(s.State().Transforms)
	if diff := cmp.Diff([]int{1, 3, 2}, got); diff != "" {
		t.Errorf("optimistic order (-want +got):\n%s", diff)
	}

	s = Drain(s, cmd())
	if diff := cmp.Diff([]int{1, 3, 2}, b.reorderIDs); diff != "" {
		t.Errorf("persisted order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 3, 2}, ids(s.State().Transforms)); diff != "" {
		t.Errorf("confirmed order (-want +got):\n%s", diff)
	}
}

func TestMoveTransformOutOfRange(t *testing.T) {
	b := &fakeBackend{}
	s := New(b, WithState(State{Transforms: []params.Entity{{ID: 1}, {ID: 2}}}))

	tests := []MoveTransform{
		{ID: 1, Delta: -1},
		{ID: 2, Delta: 1},
		{ID: 9, Delta: 1},
	}
	for _, m := range tests {
		_, cmd := s.Update(m)
		if cmd != nil {
			t.Errorf("%+v should be a no-op", m)
		}
	}
	if len(b.calls) != 0 {
		t.Errorf("backend called: %v", b.calls)
	}
}

func TestMove(t *testing.T) {
	list := []params.Entity{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	tests := []struct {
		id, delta int
		want      []int
	}{
		{1, 1, []int{2, 1, 3, 4}},
		{1, 3, []int{2, 3, 4, 1}},
		{4, -3, []int{4, 1, 2, 3}},
		{3, -1, []int{1, 3, 2, 4}},
	}
	for _, tt := range tests {
		got, ok := move(list, tt.id, tt.delta)
		if !ok {
			t.Errorf("move(%d, %d) failed", tt.id, tt.delta)
			continue
		}
		if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
			t.Errorf("move(%d, %d) (-want +got):\n%s", tt.id, tt.delta, diff)
		}
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, ids(list)); diff != "" {
		t.Errorf("move modified its input (-want +got):\n%s", diff)
	}
}

func TestSaveTransformReplaces(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)

	s = Drain(s, SaveTransform{ID: 10, Params: params.Params{"length": params.Number(3)}})

	got, _ := s.State().Transform(10)
	if got.Params["length"] != params.Number(3) {
		t.Errorf("transform 10 length = %v, want 3", got.Params["length"])
	}
	if len(s.State().Transforms) != 1 {
		t.Errorf("Transforms = %+v, want one entry", s.State().Transforms)
	}
}

func TestSaveTransformFailureKeepsConfirmed(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)
	b.err = api.NewApplicationError("Invalid transform specified")

	s = Drain(s, SaveTransform{ID: 10, Params: params.Params{"length": params.Number(3)}})

	got, _ := s.State().Transform(10)
	if got.Params["length"] != params.Number(1) {
		t.Errorf("confirmed length = %v, want 1", got.Params["length"])
	}
	if s.State().ErrorMessage != "Invalid transform specified" {
		t.Errorf("ErrorMessage = %q", s.State().ErrorMessage)
	}
}

func TestSaveVariableRenamesCandidates(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)

	s = Drain(s, SaveVariable{ID: 4, Name: "slow clock", Params: params.Params{"length": params.Number(20)}})

	v, _ := s.State().Variable(4)
	if v.Name != "slow clock" {
		t.Errorf("variable name = %q", v.Name)
	}
	refs := s.State().VariablesByType[params.TypeFloat]
	if len(refs) != 1 || refs[0].Name != "slow clock" {
		t.Errorf("candidates = %+v, want renamed", refs)
	}
}

// fresherSchema is bootstrap data whose schema changed after the store
// first loaded.
func fresherSchema() *api.BootstrapData {
	d := testBootstrapData()
	d.ParamsDef["count"] = params.ParamDef{Name: "count", Type: params.TypeLong}
	d.VariablesByType = params.VariablesByType{
		params.TypeFloat: {{ID: 4, Name: "clock"}, {ID: 5, Name: "wave"}},
		params.TypeLong:  {{ID: 4, Name: "clock"}},
	}
	d.AvailableTransforms = []api.TransformType{{ID: 3, Name: "flash"}}
	return d
}

func TestSaveVariableKeepsFresherSchema(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)

	s, save := s.Update(SaveVariable{ID: 4, Name: "slow clock", Params: params.Params{"length": params.Number(20)}})
	b.bootstrap = fresherSchema()
	s = Drain(s, Bootstrap{})
	s = Drain(s, save())

	st := s.State()
	if _, ok := st.Defs.Lookup("count"); !ok || len(st.AvailableTransforms) != 1 {
		t.Errorf("Defs = %v, AvailableTransforms = %v; the newer schema was overwritten", st.Defs, st.AvailableTransforms)
	}
	want := params.VariablesByType{
		params.TypeFloat: {{ID: 4, Name: "slow clock"}, {ID: 5, Name: "wave"}},
		params.TypeLong:  {{ID: 4, Name: "slow clock"}},
	}
	if diff := cmp.Diff(want, st.VariablesByType); diff != "" {
		t.Errorf("VariablesByType (-want +got):\n%s", diff)
	}
}

func TestDeleteVariableKeepsFresherSchema(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)
	b.variables = []params.Entity{}

	s, del := s.Update(DeleteVariable{ID: 4})
	b.bootstrap = fresherSchema()
	s = Drain(s, Bootstrap{})
	s = Drain(s, del())

	st := s.State()
	if _, ok := st.Defs.Lookup("count"); !ok {
		t.Error("the newer schema was overwritten")
	}
	want := params.VariablesByType{
		params.TypeFloat: {{ID: 5, Name: "wave"}},
		params.TypeLong:  {},
	}
	if diff := cmp.Diff(want, st.VariablesByType); diff != "" {
		t.Errorf("VariablesByType (-want +got):\n%s", diff)
	}
}

func TestSaveTransformKeepsNonNumericParams(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)

	p := params.Params{
		"length":      params.Number(2),
		"sine":        params.Raw("true"),
		"start_color": params.Raw(`"#ff0000"`),
	}
	s = Drain(s, SaveTransform{ID: 10, Params: p})

	got, _ := s.State().Transform(10)
	if diff := cmp.Diff(p, got.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
}

func TestDeleteVariableDropsCandidates(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)
	b.variables = []params.Entity{}

	s = Drain(s, DeleteVariable{ID: 4})

	if len(s.State().Variables) != 0 {
		t.Errorf("Variables = %+v", s.State().Variables)
	}
	if refs := s.State().VariablesByType[params.TypeFloat]; len(refs) != 0 {
		t.Errorf("candidates = %+v, want none", refs)
	}
}

func TestAddAndDeleteTransform(t *testing.T) {
	b := &fakeBackend{}
	s := bootstrapped(t, b)

	b.transforms = []params.Entity{{ID: 10}, {ID: 11}}
	s = Drain(s, AddTransform{TypeID: 3})
	if diff := cmp.Diff([]int{10, 11}, ids(s.State().Transforms)); diff != "" {
		t.Errorf("after add (-want +got):\n%s", diff)
	}

	b.transforms = []params.Entity{{ID: 11}}
	s = Drain(s, DeleteTransform{ID: 10})
	if diff := cmp.Diff([]int{11}, ids(s.State().Transforms)); diff != "" {
		t.Errorf("after delete (-want +got):\n%s", diff)
	}
}

func TestLoadBaseColors(t *testing.T) {
	b := &fakeBackend{baseColors: []string{"#ff0000", "#00ff00"}}
	s := Drain(New(b), LoadBaseColors{})

	if diff := cmp.Diff([]string{"#ff0000", "#00ff00"}, s.State().BaseColors); diff != "" {
		t.Errorf("BaseColors (-want +got):\n%s", diff)
	}
}

func TestFillColorReloadsBaseColors(t *testing.T) {
	b := &fakeBackend{baseColors: []string{"#123456", "#123456"}}
	s := Drain(New(b), FillColor{Color: "#123456"})

	if b.filled != "#123456" {
		t.Errorf("filled = %q", b.filled)
	}
	if diff := cmp.Diff([]string{"fill", "base colors"}, b.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if len(s.State().BaseColors) != 2 {
		t.Errorf("BaseColors = %v", s.State().BaseColors)
	}
}

func TestFillColorFailure(t *testing.T) {
	b := &fakeBackend{err: api.NewApplicationError("")}
	s := Drain(New(b), FillColor{Color: "#123456"})

	if s.State().ErrorMessage == "" {
		t.Error("failed fill should surface an error")
	}
	if diff := cmp.Diff([]string{"fill"}, b.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestApplyToolSetsBaseColors(t *testing.T) {
	b := &fakeBackend{baseColors: []string{"#000000", "#0000ff"}}
	stroke := api.Stroke{Tool: api.ToolSolid, Index: 1, Radius: 0, Opacity: 100, Color: "#0000ff"}
	s := Drain(New(b), ApplyTool{Stroke: stroke})

	if b.stroke != stroke {
		t.Errorf("stroke = %+v", b.stroke)
	}
	if diff := cmp.Diff([]string{"#000000", "#0000ff"}, s.State().BaseColors); diff != "" {
		t.Errorf("BaseColors (-want +got):\n%s", diff)
	}
}

func TestRunPreview(t *testing.T) {
	frames := []api.Frame{{"#ff0000"}, {"#00ff00"}}
	b := &fakeBackend{frames: frames}
	s := New(b)

	s, cmd := s.Update(RunPreview{})
	if !s.State().PreviewPending || !s.State().PreviewActive() {
		t.Fatal("preview should be pending while the simulation runs")
	}
	if _, again := s.Update(RunPreview{}); again != nil {
		t.Error("a second preview started while one was pending")
	}

	s = Drain(s, cmd())
	st := s.State()
	if st.PreviewPending {
		t.Error("preview still pending after the reply")
	}
	if diff := cmp.Diff(frames, st.PreviewFrames); diff != "" {
		t.Errorf("PreviewFrames (-want +got):\n%s", diff)
	}
	if _, again := s.Update(RunPreview{}); again != nil {
		t.Error("a preview started while frames were shown")
	}

	s = Drain(s, SetPreview{})
	if s.State().PreviewActive() {
		t.Error("SetPreview{} should end the preview")
	}
	if diff := cmp.Diff([]string{"simulate"}, b.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestRunPreviewFailure(t *testing.T) {
	b := &fakeBackend{err: api.NewNetworkError("simulate failed", nil)}
	s := Drain(New(b), RunPreview{})

	if s.State().PreviewActive() {
		t.Error("failed preview should not stay active")
	}
	if !s.State().HasError() {
		t.Error("failed preview should surface an error")
	}
}

func TestSetChannel(t *testing.T) {
	b := &fakeBackend{}
	s := Drain(New(b), SetChannel{Channel: "ambient", Color: "#ffa500"})

	if b.channel != [2]string{"ambient", "#ffa500"} {
		t.Errorf("channel = %v", b.channel)
	}
	if s.State().HasError() {
		t.Errorf("ErrorMessage = %q", s.State().ErrorMessage)
	}
}

func TestUnknownMessageIgnored(t *testing.T) {
	s := New(&fakeBackend{})
	next, cmd := s.Update("not a message")
	if cmd != nil {
		t.Error("unknown message produced a command")
	}
	if diff := cmp.Diff(s.State(), next.State()); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
}

func ids(list []params.Entity) []int {
	out := make([]int, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}
