package layer

// Styles are stored per layer and edited through the layer settings, but
// are not rendered by the compositor.
type Styles struct {
	DropShadow      DropShadow
	InnerGlow       Glow
	OuterGlow       Glow
	Stroke          Stroke
	ColorOverlay    ColorOverlay
	GradientOverlay GradientOverlay
	BevelAndEmboss  BevelAndEmboss
	Satin           Satin
}

type DropShadow struct {
	Enabled          bool
	Color            string
	Opacity          float64
	Blur             float64
	OffsetX, OffsetY float64
}

type Glow struct {
	Enabled bool
	Color   string
	Opacity float64
	Blur    float64
}

// StrokePosition places an outline relative to the layer edge.
type StrokePosition string

const (
	StrokeOutside StrokePosition = "outside"
	StrokeInside  StrokePosition = "inside"
	StrokeCenter  StrokePosition = "center"
)

type Stroke struct {
	Enabled  bool
	Color    string
	Size     float64
	Opacity  float64
	Position StrokePosition
}

type ColorOverlay struct {
	Enabled bool
	Color   string
	Opacity float64
	Blend   BlendMode
}

type GradientOverlay struct {
	Enabled    bool
	StartColor string
	EndColor   string
	Angle      float64
	Opacity    float64
	Radial     bool
}

type BevelAndEmboss struct {
	Enabled bool
	Depth   float64
	Blur    float64
	Angle   float64
}

type Satin struct {
	Enabled  bool
	Color    string
	Opacity  float64
	Angle    float64
	Distance float64
	Size     float64
}

// DefaultStyles returns the settings every new layer starts with. All
// blocks are disabled.
func DefaultStyles() Styles {
	return Styles{
		DropShadow:      DropShadow{Color: "#000000", Opacity: 0.75, Blur: 5, OffsetX: 5, OffsetY: 5},
		InnerGlow:       Glow{Color: "#ffffff", Opacity: 0.75, Blur: 5},
		OuterGlow:       Glow{Color: "#ffffff", Opacity: 0.75, Blur: 5},
		Stroke:          Stroke{Color: "#000000", Size: 3, Opacity: 1, Position: StrokeOutside},
		ColorOverlay:    ColorOverlay{Color: "#ff0000", Opacity: 0.5, Blend: Normal},
		GradientOverlay: GradientOverlay{StartColor: "#000000", EndColor: "#ffffff", Angle: 90, Opacity: 1},
		BevelAndEmboss:  BevelAndEmboss{Depth: 50, Blur: 5, Angle: 120},
		Satin:           Satin{Color: "#000000", Opacity: 0.5, Angle: 19, Distance: 11, Size: 14},
	}
}

// Enabled counts the style blocks that are switched on.
func (s Styles) Enabled() int {
	n := 0
	for _, on := range []bool{
		s.DropShadow.Enabled, s.InnerGlow.Enabled, s.OuterGlow.Enabled, s.Stroke.Enabled,
		s.ColorOverlay.Enabled, s.GradientOverlay.Enabled, s.BevelAndEmboss.Enabled, s.Satin.Enabled,
	} {
		if on {
			n++
		}
	}
	return n
}
