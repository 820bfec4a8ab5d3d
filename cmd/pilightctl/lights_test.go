package main

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/config"
)

// useBackend points the command globals at a fake backend for one test.
func useBackend(t *testing.T, replies map[string]string) *fakeBackend {
	t.Helper()
	fb, backendURL := newFakeBackend(t, replies)

	oldRegistry, oldServer, oldUser := registry, serverArg, username
	registry, serverArg, username = config.NewRegistry(), backendURL, ""
	t.Cleanup(func() { registry, serverArg, username = oldRegistry, oldServer, oldUser })
	return fb
}

// execute runs a command body the way cobra would and returns its output.
func execute(run func(*cobra.Command, []string) error, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	err := run(cmd, args)
	return buf.String(), err
}

func (fb *fakeBackend) form(t *testing.T, i int) url.Values {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if i >= len(fb.raw) {
		t.Fatalf("request %d not sent; got %d", i, len(fb.raw))
	}
	form, err := url.ParseQuery(fb.raw[i])
	if err != nil {
		t.Fatal(err)
	}
	return form
}

func TestLightsColors(t *testing.T) {
	useBackend(t, map[string]string{
		api.PathBaseColors: `{"success": true, "baseColors": ["#ff0000", "#00ff00", "#0000ff"]}`,
	})

	out, err := execute(runLightsColors)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "3 lights") || strings.Count(out, "█") != 3 {
		t.Errorf("output:\n%s", out)
	}
}

func TestLightsFill(t *testing.T) {
	fb := useBackend(t, map[string]string{
		api.PathBaseColors: `{"success": true, "baseColors": ["#ff8800", "#ff8800"]}`,
	})

	out, err := execute(runLightsFill, "FF8800")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{api.PathFillColor, api.PathBaseColors}, fb.postedPaths()); diff != "" {
		t.Errorf("requests (-want +got):\n%s", diff)
	}
	if got := fb.form(t, 0).Get("color"); got != "#ff8800" {
		t.Errorf("color = %q", got)
	}
	for _, want := range []string{"Lights filled", "#ff8800"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLightsFillBadColor(t *testing.T) {
	fb := useBackend(t, nil)
	if _, err := execute(runLightsFill, "teal"); err == nil {
		t.Error("bad color should fail")
	}
	if len(fb.postedPaths()) != 0 {
		t.Errorf("requests = %v, want none", fb.postedPaths())
	}
}

func TestLightsPaint(t *testing.T) {
	oldTool, oldIndex, oldRadius, oldOpacity := paintTool, paintIndex, paintRadius, paintOpacity
	t.Cleanup(func() { paintTool, paintIndex, paintRadius, paintOpacity = oldTool, oldIndex, oldRadius, oldOpacity })

	fb := useBackend(t, map[string]string{
		api.PathApplyTool: `{"success": true, "baseColors": ["#000000", "#ff0000"]}`,
	})

	// bootstrap reports 50 lights
	paintTool, paintIndex, paintRadius, paintOpacity = "smooth", 50, 5, 80
	if _, err := execute(runLightsPaint, "#ff0000"); err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("index past last light: error = %v", err)
	}
	if len(fb.postedPaths()) != 0 {
		t.Fatalf("invalid stroke sent: %v", fb.postedPaths())
	}

	paintIndex = 10
	out, err := execute(runLightsPaint, "F00")
	if err != nil {
		t.Fatal(err)
	}
	want := url.Values{
		"tool":    {"smooth"},
		"index":   {"10"},
		"radius":  {"5"},
		"opacity": {"80"},
		"color":   {"#ff0000"},
	}
	if diff := cmp.Diff(want, fb.form(t, 0)); diff != "" {
		t.Errorf("stroke form (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, "smooth #ff0000 at 10, radius 5, 80%") {
		t.Errorf("output:\n%s", out)
	}
}

func TestLightsPreview(t *testing.T) {
	old := previewFrames
	t.Cleanup(func() { previewFrames = old })

	useBackend(t, map[string]string{
		api.PathSimulate: `[["#100000"], ["#200000"], ["#300000"], ["#400000"], ["#500000"]]`,
	})

	previewFrames = 2
	out, err := execute(runLightsPreview)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"5 frames", "showing 2", "frame 1", "frame 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "frame 2 ") {
		t.Errorf("unsampled frame printed:\n%s", out)
	}
}

func TestLightsPreviewFailure(t *testing.T) {
	useBackend(t, map[string]string{
		api.PathSimulate: `{"success": false, "error": "Driver crashed"}`,
	})

	out, err := execute(runLightsPreview)
	if !errors.Is(err, errReported) {
		t.Fatalf("error = %v, want errReported", err)
	}
	if !strings.Contains(out, "Driver crashed") {
		t.Errorf("output missing backend error:\n%s", out)
	}
}

func TestSampleFrames(t *testing.T) {
	tests := []struct {
		total, limit int
		want         []int
	}{
		{5, 0, []int{0, 1, 2, 3, 4}},
		{3, 10, []int{0, 1, 2}},
		{10, 4, []int{0, 2, 5, 7}},
		{100, 1, []int{0}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, sampleFrames(tt.total, tt.limit)); diff != "" {
			t.Errorf("sampleFrames(%d, %d) (-want +got):\n%s", tt.total, tt.limit, diff)
		}
	}
}

func TestChannelSet(t *testing.T) {
	fb := useBackend(t, nil)

	out, err := execute(runChannelSet, "ambient", "331100")
	if err != nil {
		t.Fatal(err)
	}
	want := url.Values{"channel": {"ambient"}, "color": {"#331100"}}
	if diff := cmp.Diff(want, fb.form(t, 0)); diff != "" {
		t.Errorf("channel form (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, "Channel set") {
		t.Errorf("output:\n%s", out)
	}
}
