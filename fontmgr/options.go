package fontmgr

import (
	"math"

	"github.com/npillmayer/fontmanager/glyph"
)

// DefaultGamma is the gamma used for coverage correction unless configured
// otherwise.
const DefaultGamma = 1.7

type config struct {
	gamma      float64
	correct    bool
	mode       glyph.RenderMode
	cacheLimit int
}

func defaultConfig() config {
	return config{gamma: DefaultGamma, mode: glyph.RenderNormal}
}

// Option configures a [Manager].
type Option func(*config)

// WithGamma sets the gamma of the correction table. Values <= 0 are ignored.
func WithGamma(gamma float64) Option {
	return func(c *config) {
		if gamma > 0 {
			c.gamma = gamma
		}
	}
}

// WithGammaCorrection switches gamma correction of glyph coverage on or off.
// It is off by default.
func WithGammaCorrection(on bool) Option {
	return func(c *config) {
		c.correct = on
	}
}

// WithRenderMode selects the render mode glyphs are generated with.
// The default is [glyph.RenderNormal].
func WithRenderMode(mode glyph.RenderMode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithGlyphCacheLimit bounds the number of glyphs cached per renderer.
// 0 means unbounded.
func WithGlyphCacheLimit(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.cacheLimit = n
		}
	}
}

// GammaEncode maps a linear coverage value v to its gamma-encoded value.
func GammaEncode(v uint8, gamma float64) uint8 {
	return uint8(math.Round(math.Pow(float64(v)/255, 1/gamma) * 255))
}

// GammaDecode is the inverse of [GammaEncode], up to rounding.
func GammaDecode(v uint8, gamma float64) uint8 {
	return uint8(math.Round(math.Pow(float64(v)/255, gamma) * 255))
}

type gammaTable [256]uint8

func newGammaTable(gamma float64) *gammaTable {
	var t gammaTable
	for i := range t {
		t[i] = GammaEncode(uint8(i), gamma)
	}
	return &t
}
