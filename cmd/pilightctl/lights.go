package main

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/pilightctl/internal/api"
	"github.com/muurk/pilightctl/internal/store"
	"github.com/muurk/pilightctl/internal/ui"
)

// Light command flags
var (
	paintTool     string
	paintIndex    int
	paintRadius   int
	paintOpacity  int
	previewFrames int
)

func init() {
	lightsCmd.AddCommand(lightsColorsCmd, lightsFillCmd, lightsPaintCmd, lightsPreviewCmd)
	channelCmd.AddCommand(channelSetCmd)

	rootCmd.AddCommand(lightsCmd)
	rootCmd.AddCommand(channelCmd)

	lightsPaintCmd.Flags().StringVarP(&paintTool, "tool", "t", string(api.ToolSolid), "Brush: solid or smooth")
	lightsPaintCmd.Flags().IntVarP(&paintIndex, "index", "i", 0, "Light at the centre of the stroke")
	lightsPaintCmd.Flags().IntVarP(&paintRadius, "radius", "r", 3, "Lights either side of the centre to paint (0-30)")
	lightsPaintCmd.Flags().IntVarP(&paintOpacity, "opacity", "o", 50, "Blend strength in percent (1-100)")
	lightsPreviewCmd.Flags().IntVarP(&previewFrames, "frames", "n", 20, "Frames to print, 0 for all")
}

// lightsCmd groups base color commands
var lightsCmd = &cobra.Command{
	Use:   "lights",
	Short: "Paint and preview the lights",
	Long: `Show and paint the base colors, the color of each light before the
transform chain runs, and preview what the chain will display.`,
}

var lightsColorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "Show the base colors",
	Args:  cobra.NoArgs,
	RunE:  runLightsColors,
}

var lightsFillCmd = &cobra.Command{
	Use:     "fill <color>",
	Short:   "Set every light to one color",
	Example: `  pilightctl lights fill "#ff8800"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runLightsFill,
}

var lightsPaintCmd = &cobra.Command{
	Use:   "paint <color>",
	Short: "Paint a stroke onto the base colors",
	Example: `  # Hard-edged red band around light 10
  pilightctl lights paint "#ff0000" --index 10 --radius 4 --opacity 100

  # Soft blue glow fading out from light 40
  pilightctl lights paint 0000ff -i 40 -t smooth -r 12`,
	Args: cobra.ExactArgs(1),
	RunE: runLightsPaint,
}

var lightsPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Simulate the current setup",
	Long: `Run the current base colors and transform chain through the driver
offline and print the frames it would show.`,
	Args: cobra.NoArgs,
	RunE: runLightsPreview,
}

// channelCmd groups color channel commands
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Feed external color channels",
}

var channelSetCmd = &cobra.Command{
	Use:     "set <channel> <color>",
	Short:   "Send a color on a named channel",
	Example: `  pilightctl channel set ambient "#331100"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runChannelSet,
}

func runLightsColors(cmd *cobra.Command, args []string) error {
	sess, s, err := runStoreCommand(cmd, "Load base colors", func(store.State) ([]tea.Msg, error) {
		return []tea.Msg{store.LoadBaseColors{}}, nil
	})
	if err != nil {
		return err
	}

	colors := s.State().BaseColors
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Println(fmt.Sprintf("%d lights on %s", len(colors), sess.label()))
	p.PrintStrip("base", colors)
	return nil
}

func runLightsFill(cmd *cobra.Command, args []string) error {
	color, err := api.ParseColor(args[0])
	if err != nil {
		return err
	}

	sess, s, err := runStoreCommand(cmd, "Fill lights", func(store.State) ([]tea.Msg, error) {
		return []tea.Msg{store.FillColor{Color: color}}, nil
	})
	if err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Lights filled", map[string]string{
		"Server": sess.label(),
		"Color":  color,
		"Lights": strconv.Itoa(len(s.State().BaseColors)),
	})
	return nil
}

// strokeFromFlags builds the paint stroke and checks it against the
// backend's light count.
func strokeFromFlags(color string, numLights int) (api.Stroke, error) {
	stroke := api.Stroke{
		Tool:    api.Tool(paintTool),
		Index:   paintIndex,
		Radius:  paintRadius,
		Opacity: paintOpacity,
		Color:   color,
	}
	if err := stroke.Validate(numLights); err != nil {
		return api.Stroke{}, err
	}
	return stroke, nil
}

func runLightsPaint(cmd *cobra.Command, args []string) error {
	var stroke api.Stroke
	sess, s, err := runStoreCommand(cmd, "Paint lights", func(st store.State) ([]tea.Msg, error) {
		var err error
		if stroke, err = strokeFromFlags(args[0], st.NumLights); err != nil {
			return nil, err
		}
		return []tea.Msg{store.ApplyTool{Stroke: stroke}}, nil
	})
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintSuccess("Lights painted", map[string]string{
		"Server": sess.label(),
		"Stroke": fmt.Sprintf("%s %s at %d, radius %d, %d%%", stroke.Tool, stroke.Color, stroke.Index, stroke.Radius, stroke.Opacity),
		"Lights": strconv.Itoa(len(s.State().BaseColors)),
	})
	p.PrintStrip("base", s.State().BaseColors)
	return nil
}

func runLightsPreview(cmd *cobra.Command, args []string) error {
	if previewFrames < 0 {
		return fmt.Errorf("--frames must not be negative")
	}

	sess, s, err := runStoreCommand(cmd, "Preview", func(store.State) ([]tea.Msg, error) {
		return []tea.Msg{store.RunPreview{}}, nil
	})
	if err != nil {
		return err
	}

	frames := s.State().PreviewFrames
	p := ui.NewPrinter(cmd.OutOrStdout())
	if len(frames) == 0 {
		p.Println(fmt.Sprintf("%s returned no frames.", sess.label()))
		return nil
	}
	shown := sampleFrames(len(frames), previewFrames)
	p.Println(fmt.Sprintf("%d frames from %s, showing %d", len(frames), sess.label(), len(shown)))
	for _, i := range shown {
		p.PrintStrip(fmt.Sprintf("frame %d", i+1), frames[i])
	}
	return nil
}

// sampleFrames picks up to limit frame indexes spread evenly over total,
// always including the first. A limit of 0 picks them all.
func sampleFrames(total, limit int) []int {
	if limit == 0 || limit >= total {
		limit = total
	}
	picked := make([]int, limit)
	for i := range picked {
		picked[i] = i * total / limit
	}
	return picked
}

func runChannelSet(cmd *cobra.Command, args []string) error {
	channel := args[0]
	color, err := api.ParseColor(args[1])
	if err != nil {
		return err
	}

	sess, _, err := runStoreCommand(cmd, "Set channel", func(store.State) ([]tea.Msg, error) {
		return []tea.Msg{store.SetChannel{Channel: channel, Color: color}}, nil
	})
	if err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Channel set", map[string]string{
		"Server":  sess.label(),
		"Channel": channel,
		"Color":   color,
	})
	return nil
}
