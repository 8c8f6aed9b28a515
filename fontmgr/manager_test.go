package fontmgr

import (
	"fmt"
	"testing"

	"github.com/npillmayer/fontmanager/glyph"
	"github.com/npillmayer/fontmanager/internal/fakeengine"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type ManagerTestEnviron struct {
	suite.Suite
	engine *fakeengine.Engine
	mgr    *Manager
}

// listen for 'go test' command --> run test methods
func TestManagerFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmanager.mgr")
	defer teardown()
	suite.Run(t, new(ManagerTestEnviron))
}

var screen = Resolution{X: 96, Y: 96}

// run before each test
func (env *ManagerTestEnviron) SetupTest() {
	env.engine = fakeengine.New(map[string]fakeengine.FaceSpec{
		"latin.ttf": {Glyphs: map[rune]uint32{'A': 3, 'B': 4}, NumGlyphs: 10},
		"greek.ttf": {Glyphs: map[rune]uint32{'Ω': 7}, NumGlyphs: 10},
		"misc.ttf":  {Glyphs: map[rune]uint32{'Ω': 2, '€': 5}, NumGlyphs: 10},
	})
	env.mgr = env.newManager()
}

// run after each test
func (env *ManagerTestEnviron) TearDownTest() {
	env.Require().NoError(env.mgr.Close())
}

func (env *ManagerTestEnviron) newManager(opts ...Option) *Manager {
	m, err := New(env.engine, opts...)
	env.Require().NoError(err)
	return m
}

func (env *ManagerTestEnviron) count(entry string) int {
	n := 0
	for _, e := range env.engine.Log {
		if e == entry {
			n++
		}
	}
	return n
}

func (env *ManagerTestEnviron) renderer(m *Manager, path string, height uint32) RendererID {
	f, err := m.FaceCache(path)
	env.Require().NoError(err)
	r, err := m.Renderer(f, height, screen)
	env.Require().NoError(err)
	return r
}

// --- Tests -----------------------------------------------------------------

func (env *ManagerTestEnviron) TestFaceCache() {
	a, err := env.mgr.FaceCache("latin.ttf")
	env.Require().NoError(err)
	b, err := env.mgr.FaceCache("greek.ttf")
	env.Require().NoError(err)
	again, err := env.mgr.FaceCache("latin.ttf")
	env.Require().NoError(err)
	env.Equal(a, again, "repeat calls return the cached face")
	env.NotEqual(a, b)
	env.Equal(1, env.count("new-face latin.ttf"))
	path, err := env.mgr.FacePath(b)
	env.Require().NoError(err)
	env.Equal("greek.ttf", path)
	_, err = env.mgr.FaceCache("missing.ttf")
	env.Error(err)
	_, err = env.mgr.FacePath(42)
	env.ErrorIs(err, ErrUnknownFace)
}

func (env *ManagerTestEnviron) TestRendererCache() {
	f, _ := env.mgr.FaceCache("latin.ttf")
	r12, err := env.mgr.Renderer(f, 12, screen)
	env.Require().NoError(err)
	env.Equal("set-char-size 0 768 96 96", env.engine.Log[len(env.engine.Log)-1])
	again, _ := env.mgr.Renderer(f, 12, screen)
	env.Equal(r12, again)
	r24, _ := env.mgr.Renderer(f, 24, screen)
	env.NotEqual(r12, r24)
	hires, _ := env.mgr.Renderer(f, 12, Resolution{X: 300, Y: 300})
	env.NotEqual(r12, hires)
	h, err := env.mgr.RendererHeight(r24)
	env.Require().NoError(err)
	env.Equal(uint32(24), h)
	//
	_, err = env.mgr.Renderer(f, 0, screen)
	env.ErrorIs(err, ErrInvalidHeight)
	_, err = env.mgr.Renderer(7, 12, screen)
	env.ErrorIs(err, ErrUnknownFace)
	_, _, err = env.mgr.Glyph(99, 'A')
	env.ErrorIs(err, ErrUnknownRenderer)
}

func (env *ManagerTestEnviron) TestGlyphIsOwnedAndCached() {
	r := env.renderer(env.mgr, "latin.ttf", 12)
	g, found, err := env.mgr.Glyph(r, 'A')
	env.Require().NoError(err)
	env.True(found)
	env.Equal(uint32(3), g.Index)
	env.Equal(int16(16), g.Pos.Top, "12pt at 96 dpi is 16px")
	env.Equal(5, g.Image.Bounds().Dx())
	env.Equal(5, g.Image.Bounds().Dy())
	for _, p := range g.Image.Pix {
		env.Equal(uint8(3), p)
	}
	_, _, err = env.mgr.Glyph(r, 'B')
	env.Require().NoError(err)
	env.Equal(uint8(3), g.Image.Pix[0], "glyph images survive later renders")
	again, found, err := env.mgr.Glyph(r, 'A')
	env.Require().NoError(err)
	env.True(found)
	env.Same(g, again)
	env.Equal(1, env.count("load-glyph 3"))
	env.Equal(2, env.mgr.CachedGlyphs(r))
}

func (env *ManagerTestEnviron) TestRendererResizesSharedFace() {
	small := env.renderer(env.mgr, "latin.ttf", 12)
	large := env.renderer(env.mgr, "latin.ttf", 24)
	g, _, err := env.mgr.Glyph(small, 'A')
	env.Require().NoError(err)
	env.Equal(int16(16), g.Pos.Top)
	g, _, err = env.mgr.Glyph(large, 'A')
	env.Require().NoError(err)
	env.Equal(int16(32), g.Pos.Top)
	env.Equal(2, env.count("set-char-size 0 768 96 96"), "12pt is re-applied after the face was resized")
}

func (env *ManagerTestEnviron) TestFallbackToOtherFaces() {
	latin := env.renderer(env.mgr, "latin.ttf", 12)
	greek, _ := env.mgr.FaceCache("greek.ttf")
	g, found, err := env.mgr.Glyph(latin, 'Ω')
	env.Require().NoError(err)
	env.True(found)
	env.Equal(greek, g.Face)
	env.Equal(uint32(7), g.Index)
	r, _ := env.mgr.Renderer(greek, 12, screen)
	env.Equal(RendererID(1), r, "fallback created a renderer for the greek face")
	//
	_, found, err = env.mgr.Glyph(latin, 'Ω')
	env.Require().NoError(err)
	env.True(found)
	env.Equal(1, env.count("load-glyph 7"), "fallback renderer's cache is reused")
	//
	env.renderer(env.mgr, "misc.ttf", 12)
	g, found, err = env.mgr.Glyph(latin, '€')
	env.Require().NoError(err)
	env.True(found)
	env.Equal(uint32(5), g.Index)
}

func (env *ManagerTestEnviron) TestNoFaceKnowsCodepoint() {
	r := env.renderer(env.mgr, "latin.ttf", 12)
	env.renderer(env.mgr, "greek.ttf", 12)
	g, found, err := env.mgr.Glyph(r, '☃')
	env.Require().NoError(err)
	env.False(found)
	env.Require().NotNil(g)
	env.Equal(glyph.NotDef, g.Index)
	latin, _ := env.mgr.FaceCache("latin.ttf")
	env.Equal(latin, g.Face, "the .notdef glyph comes from the requested face")
}

func (env *ManagerTestEnviron) TestFallbackSkipsOtherSizes() {
	latin := env.renderer(env.mgr, "latin.ttf", 12)
	env.renderer(env.mgr, "greek.ttf", 24)
	g, found, err := env.mgr.Glyph(latin, 'Ω')
	env.Require().NoError(err)
	env.True(found)
	env.Equal(int16(16), g.Pos.Top, "fallback renders at the requested size")
}

func (env *ManagerTestEnviron) TestGlyphCacheLimit() {
	m := env.newManager(WithGlyphCacheLimit(1))
	defer m.Close()
	r := env.renderer(m, "latin.ttf", 12)
	for _, cp := range []rune{'A', 'B', 'A'} {
		_, _, err := m.Glyph(r, cp)
		env.Require().NoError(err)
	}
	env.Equal(1, m.CachedGlyphs(r))
	env.Equal(2, env.count("load-glyph 3"), "'A' was evicted by 'B'")
}

func (env *ManagerTestEnviron) TestRenderModeAndGamma() {
	m := env.newManager(WithRenderMode(glyph.RenderMono), WithGammaCorrection(true))
	defer m.Close()
	r := env.renderer(m, "latin.ttf", 12)
	g, _, err := m.Glyph(r, 'B')
	env.Require().NoError(err)
	env.Equal(fmt.Sprintf("render-glyph %d", glyph.RenderMono), env.engine.Log[len(env.engine.Log)-1])
	env.Equal(GammaEncode(4, DefaultGamma), g.Image.Pix[0])
	env.Greater(g.Image.Pix[0], uint8(4), "gamma encoding lifts low coverage")
}

func (env *ManagerTestEnviron) TestGammaTables() {
	for _, gamma := range []float64{DefaultGamma, 2.2} {
		env.Equal(uint8(0), GammaEncode(0, gamma))
		env.Equal(uint8(255), GammaEncode(255, gamma))
		prev := uint8(0)
		for v := 0; v < 256; v++ {
			e := GammaEncode(uint8(v), gamma)
			env.GreaterOrEqual(e, prev, "encoding is monotonic")
			env.GreaterOrEqual(e, uint8(v))
			env.InDelta(v, int(GammaDecode(e, gamma)), 2, "decode inverts encode at %d", v)
			prev = e
		}
	}
	t := newGammaTable(2.2)
	env.Equal(GammaEncode(128, 2.2), t[128])
	var c config
	WithGamma(-1)(&c)
	env.Zero(c.gamma)
}

func (env *ManagerTestEnviron) TestEngineFailures() {
	r := env.renderer(env.mgr, "latin.ttf", 12)
	env.engine.Fail[fakeengine.OpLoadGlyph] = fakeengine.Code(0x10)
	_, _, err := env.mgr.Glyph(r, 'A')
	env.ErrorIs(err, ErrGlyph)
	delete(env.engine.Fail, fakeengine.OpLoadGlyph)
	//
	env.engine.Fail[fakeengine.OpSetCharSize] = fakeengine.Code(0x17)
	f, _ := env.mgr.FaceCache("greek.ttf")
	_, err = env.mgr.Renderer(f, 12, screen)
	env.Error(err)
	delete(env.engine.Fail, fakeengine.OpSetCharSize)
	//
	env.engine.Fail[fakeengine.OpInit] = fakeengine.Code(1)
	_, err = New(env.engine)
	env.Error(err)
	delete(env.engine.Fail, fakeengine.OpInit)
}

func (env *ManagerTestEnviron) TestClose() {
	m := env.newManager()
	env.renderer(m, "latin.ttf", 12)
	env.renderer(m, "greek.ttf", 12)
	env.Require().NoError(m.Close())
	env.Equal(1, env.count("done-face latin.ttf"))
	env.Equal(1, env.count("done-face greek.ttf"))
	env.Require().NoError(m.Close(), "second close is a no-op")
	env.Equal(1, env.count("done-face latin.ttf"))
	_, err := m.FaceCache("latin.ttf")
	env.ErrorIs(err, ErrClosed)
	_, _, err = m.Glyph(0, 'A')
	env.ErrorIs(err, ErrClosed)
}
