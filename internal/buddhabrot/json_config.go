package buddhabrot

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Rot4Deg holds plane rotation angles in degrees (friendlier than radians in JSON).
type Rot4Deg struct {
	AB   Real `json:"ab"`
	ACx  Real `json:"acx"`
	ACy  Real `json:"acy"`
	BCx  Real `json:"bcx"`
	BCy  Real `json:"bcy"`
	CxCy Real `json:"cxcy"`
}

// Radians converts to a Rot4.
func (r Rot4Deg) Radians() Rot4 {
	const d2r = math.Pi / 180
	return Rot4{r.AB * d2r, r.ACx * d2r, r.ACy * d2r, r.BCx * d2r, r.BCy * d2r, r.CxCy * d2r}
}

// AnimationCfg renders a GIF of the projection rotating by StepDeg per frame.
type AnimationCfg struct {
	Frames  int     `json:"frames"`
	StepDeg Rot4Deg `json:"stepDeg"`
	Delay   int     `json:"delay,omitempty"` // 100ths of a second
	Out     string  `json:"out"`
}

type Config struct {
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Iterations   int     `json:"iterations"`
	Samples      int     `json:"samples,omitempty"` // 0: estimate from spp
	Spp          int     `json:"spp,omitempty"`
	ProbeSamples int     `json:"probeSamples,omitempty"`
	BatchSamples int     `json:"batchSamples,omitempty"`
	Seed         *uint64 `json:"seed,omitempty"`
	Workers      int     `json:"workers,omitempty"` // 0: one per CPU

	PointsMode  string `json:"pointsMode"`
	ColorMode   string `json:"colorMode"`
	ColorOffset Real   `json:"colorOffset,omitempty"`
	Escape      string `json:"escape,omitempty"`

	Luminance string `json:"luminance,omitempty"`
	Drain     Real   `json:"drain,omitempty"`
	Contrast  Real   `json:"contrast,omitempty"`

	// Either an explicit transform, or a rotation of trajectory space plus zoom.
	Transform *[8]Real `json:"transform,omitempty"`
	RotDeg    Rot4Deg  `json:"rotDeg"`
	Zoom      Real     `json:"zoom,omitempty"`

	Out         string        `json:"out"`
	Supersample int           `json:"supersample,omitempty"`
	Raw         string        `json:"raw,omitempty"`    // accumulation dump written after the render
	Resume      bool          `json:"resume,omitempty"` // continue from Raw when it exists
	Animation   *AnimationCfg `json:"animation,omitempty"`
}

// LoadConfig reads, defaults and validates the JSON config at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	Logger().Debug("loaded config", "path", path, "width", cfg.Width, "height", cfg.Height,
		"iterations", cfg.Iterations, "points", cfg.PointsMode, "color", cfg.ColorMode, "contrast", cfg.Contrast)
	return cfg, nil
}

// parseConfig decodes data, fills defaults and validates the result.
func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults / validation
	if cfg.Width == 0 {
		cfg.Width = Width
	}
	if cfg.Height == 0 {
		cfg.Height = Height
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = Iterations
	}
	if cfg.Spp <= 0 {
		cfg.Spp = Spp
	}
	if cfg.ProbeSamples <= 0 {
		cfg.ProbeSamples = ProbeSamples
	}
	if cfg.BatchSamples <= 0 {
		cfg.BatchSamples = BatchSamples
	}
	if cfg.Seed == nil {
		s := uint64(Seed)
		cfg.Seed = &s
	}
	if cfg.PointsMode == "" {
		cfg.PointsMode = PointsOuter.String()
	}
	if cfg.ColorMode == "" {
		cfg.ColorMode = ColorWhiteBlack.String()
	}
	if cfg.Escape == "" {
		cfg.Escape = EscapeCircle.String()
	}
	if cfg.Luminance == "" {
		cfg.Luminance = LuminanceWeighted.String()
	}
	if cfg.Contrast == 0 {
		cfg.Contrast = Contrast
	}
	if cfg.Zoom == 0 {
		cfg.Zoom = Zoom
	}
	if cfg.Out == "" {
		cfg.Out = ImageOut
	}
	if cfg.Supersample <= 0 {
		cfg.Supersample = Supersample
	}
	if a := cfg.Animation; a != nil {
		if a.Frames <= 0 {
			a.Frames = GIFFrames
		}
		if a.Delay <= 0 {
			a.Delay = GIFDelay
		}
		if a.Out == "" {
			a.Out = GIFOut
		}
	}
	if cfg.Samples < 0 {
		return nil, fmt.Errorf("samples must be >= 0, got %d", cfg.Samples)
	}
	if cfg.Resume && cfg.Raw == "" {
		return nil, fmt.Errorf("resume needs a raw file")
	}
	if !isFinite(cfg.Contrast) || cfg.Contrast <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContrast, cfg.Contrast)
	}
	if _, err := cfg.Build(); err != nil {
		return nil, err
	}
	if _, err := cfg.ToneMapper(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Build validates and constructs the render parameters. The render size is the
// output size times Supersample.
func (c *Config) Build() (Params, error) {
	return c.BuildRotated(Rot4{})
}

// BuildRotated is Build with an extra rotation on top of RotDeg. An explicit
// transform ignores the rotation.
func (c *Config) BuildRotated(extra Rot4) (Params, error) {
	var p Params
	pm, err := ParsePointsMode(c.PointsMode)
	if err != nil {
		return p, err
	}
	cm, err := ParseColorMode(c.ColorMode)
	if err != nil {
		return p, err
	}
	esc, err := ParseEscapeTest(c.Escape)
	if err != nil {
		return p, err
	}
	ss := imax(c.Supersample, 1)
	p = Params{
		Width:       c.Width * ss,
		Height:      c.Height * ss,
		Iterations:  c.Iterations,
		ColorOffset: c.ColorOffset,
		Points:      pm,
		Color:       cm,
		Escape:      esc,
	}
	if c.Transform != nil {
		p.Transform = Transform(*c.Transform)
	} else {
		p.Transform = TransformFromRotation(c.RotDeg.Radians().Add(extra), c.Zoom)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// ToneMapper builds the tone mapper described by the config.
func (c *Config) ToneMapper() (*ToneMapper, error) {
	lum, err := ParseLuminanceMode(c.Luminance)
	if err != nil {
		return nil, err
	}
	return NewToneMapper(lum, c.Drain)
}
