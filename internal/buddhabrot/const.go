package buddhabrot

// Channel indices for readability.
const (
	ChR      = 0
	ChG      = 1
	ChB      = 2
	Channels = 3

	Width        = 512
	Height       = 512
	Iterations   = 200
	Spp          = 16 // plotted points per pixel target when no explicit sample count is given
	ProbeSamples = 20_000
	BatchSamples = 250_000 // samples per worker per progressive step
	Seed         = 42
	ImageOut     = "buddhabrot.png"
	GIFDelay     = 8 // 100ths of a second per frame
	GIFOut       = "buddhabrot.gif"
	GIFFrames    = 36
	Supersample  = 1
	Zoom         = 1.0
	Contrast     = 1.0

	// sampling domain [-DomainHalf, DomainHalf]² for c = (cx, cy)
	DomainHalf = 2.0
	DomainSpan = 2 * DomainHalf

	// |z|² bound for EscapeCircle, per-axis a² (or b²) bound for EscapeBox
	EscapeRadiusSq = 4.0

	// hue_iters: orbit revisits its start when both axes are within RevisitEps
	RevisitEps   = 0.01
	CycleDivisor = 16.0
	// added to the red channel when a hue increment comes out exactly black
	AntiBlackBump = 2
	// floor(v * HSLScale) keeps v == 1 at 255
	HSLScale = 255.999

	// tone mapping
	HistogramBins          = 256
	HistogramShrinkFactor  = 0.025 // histogram resolves up to 1/0.025 = 40x the average luminance
	DrainFraction          = 0.0001
	MinDrainFraction       = 0.0001
	MaxDrainFraction       = 0.001
	ColorMapLen            = 1024
	DefaultBrightnessScale = 0.05 // k = DefaultBrightnessScale/avgLum until the histogram settles it

	// luminance weights (Rec. 709)
	LumR = 0.2126
	LumG = 0.7152
	LumB = 0.0722

	// bytes per element for RequiredMemory
	counterBytes = 8  // uint64 per channel
	outPixBytes  = 4  // RGBA8
	pointBytes   = 16 // a, b float64

	// MaxMemory bounds RequiredMemory; larger requests are rejected as ErrInvalidDimension.
	MaxMemory = int64(1) << 36
)
