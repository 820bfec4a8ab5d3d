package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Light paths. The light endpoints take form posts rather than JSON.
const (
	PathBaseColors = "/api/light/base-colors/"
	PathFillColor  = "/api/light/fill-color/"
	PathApplyTool  = "/api/light/apply-tool/"
	PathSimulate   = "/api/light/simulate/"
	PathChannelSet = "/api/channel/set/"
)

// Tool is a base color brush.
type Tool string

const (
	// ToolSolid blends the color evenly across the radius
	ToolSolid Tool = "solid"
	// ToolSmooth blends the color with linear falloff towards the radius
	ToolSmooth Tool = "smooth"
)

// Brush limits, matching the backend's palette controls.
const (
	MaxRadius  = 30
	MinOpacity = 1
	MaxOpacity = 100
)

// ParseColor accepts "#rrggbb", "rrggbb" or the short "#rgb" forms and
// returns the lower-case "#rrggbb" form the backend expects.
func ParseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: use #rrggbb", strings.TrimPrefix(s, "#"))
	}
	return c.Hex(), nil
}

// Stroke is one application of a brush centred on light Index.
type Stroke struct {
	Tool    Tool
	Index   int
	Radius  int
	Opacity int // percent
	Color   string
}

// Validate checks the stroke against the brush limits and normalizes its
// color.
func (s *Stroke) Validate(numLights int) error {
	switch s.Tool {
	case ToolSolid, ToolSmooth:
	default:
		return fmt.Errorf("unknown tool %q: use %s or %s", s.Tool, ToolSolid, ToolSmooth)
	}
	if s.Index < 0 {
		return fmt.Errorf("light index %d must not be negative", s.Index)
	}
	if numLights > 0 && s.Index >= numLights {
		return fmt.Errorf("light index %d out of range (0-%d)", s.Index, numLights-1)
	}
	if s.Radius < 0 || s.Radius > MaxRadius {
		return fmt.Errorf("radius %d out of range (0-%d)", s.Radius, MaxRadius)
	}
	if s.Tool == ToolSmooth && s.Radius == 0 {
		return fmt.Errorf("the smooth tool needs a radius of at least 1")
	}
	if s.Opacity < MinOpacity || s.Opacity > MaxOpacity {
		return fmt.Errorf("opacity %d out of range (%d-%d)", s.Opacity, MinOpacity, MaxOpacity)
	}
	color, err := ParseColor(s.Color)
	if err != nil {
		return err
	}
	s.Color = color
	return nil
}

func (s Stroke) form() url.Values {
	form := url.Values{}
	form.Set("tool", string(s.Tool))
	form.Set("index", strconv.Itoa(s.Index))
	form.Set("radius", strconv.Itoa(s.Radius))
	form.Set("opacity", strconv.Itoa(s.Opacity))
	form.Set("color", s.Color)
	return form
}

// Frame is one simulated frame: a web color per light.
type Frame []string

type baseColorsReply struct {
	BaseColors []string `json:"baseColors"`
}

// BaseColors returns the color of each light before transforms apply. The
// backend pads or trims the light list to the configured count first.
func (c *Client) BaseColors(ctx context.Context) ([]string, error) {
	var reply baseColorsReply
	if err := c.Get(ctx, PathBaseColors, &reply); err != nil {
		return nil, err
	}
	return reply.BaseColors, nil
}

// FillColor sets every light's base color to color.
func (c *Client) FillColor(ctx context.Context, color string) error {
	color, err := ParseColor(color)
	if err != nil {
		return err
	}
	form := url.Values{"color": {color}}
	return c.PostForm(ctx, PathFillColor, form, []byte(form.Encode()), nil)
}

// ApplyTool paints a stroke onto the base colors and returns the new base
// colors.
func (c *Client) ApplyTool(ctx context.Context, s Stroke) ([]string, error) {
	if err := s.Validate(0); err != nil {
		return nil, err
	}
	form := s.form()
	var reply baseColorsReply
	if err := c.PostForm(ctx, PathApplyTool, form, []byte(form.Encode()), &reply); err != nil {
		return nil, err
	}
	return reply.BaseColors, nil
}

// Simulate runs the current setup through the driver offline and returns
// the frames it would show.
func (c *Client) Simulate(ctx context.Context) ([]Frame, error) {
	var frames []Frame
	if err := c.Get(ctx, PathSimulate, &frames); err != nil {
		return nil, err
	}
	return frames, nil
}

// SetChannel sends color on a named color channel. Channels are read by
// transforms that follow an external color source.
func (c *Client) SetChannel(ctx context.Context, channel, color string) error {
	if strings.TrimSpace(channel) == "" {
		return fmt.Errorf("channel name cannot be empty")
	}
	color, err := ParseColor(color)
	if err != nil {
		return err
	}
	form := url.Values{"channel": {channel}, "color": {color}}
	return c.PostForm(ctx, PathChannelSet, form, []byte(form.Encode()), nil)
}
