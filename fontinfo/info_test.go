package fontinfo

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	f *Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmanager.info")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("fontmanager.info").SetTraceLevel(tracing.LevelError)
	f, err := Parse(goregular.TTF)
	env.Require().NoError(err)
	env.f = f
	tracing.Select("fontmanager.info").SetTraceLevel(tracing.LevelInfo)
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestFontTypeInfo() {
	env.Equal("TrueType", FontType(env.f), "expected font type of test font to be TrueType")
}

func (env *InfoTestEnviron) TestGeneralInfo() {
	info := NameInfo(env.f)
	env.T().Logf("info = %v", info)
	fam, ok := info["family"]
	env.Require().True(ok, "font family identifier not found in font info")
	env.Contains(fam, "Go", "expected font family name 'Go'")
	env.NotEmpty(info["full"])
	n := 0
	for id, value := range NamesRange(env.f) {
		env.NotEmpty(value, "name %d decoded to empty string", id)
		n++
	}
	env.Positive(n)
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.f)
	env.Require().True(ok, "expected to decode table 'head'")
	env.Equal(uint32(0x5F0F3CF5), h.MagicNumber, "expected OpenType head magic number")
	env.Equal(env.f.SFNT.UnitsPerEm(), sfnt.Units(h.UnitsPerEm))
	env.Less(h.XMin, h.XMax)
}

func (env *InfoTestEnviron) TestMaxPInfo() {
	m, ok := MaxPInfo(env.f)
	env.Require().True(ok, "expected to decode table 'maxp'")
	env.Equal(env.f.SFNT.NumGlyphs(), int(m.NumGlyphs), "expected matching numGlyphs")
	env.True(m.HasExtendedProfile, "TrueType fonts carry a version 1.0 'maxp'")
}

func (env *InfoTestEnviron) TestTables() {
	tables := env.f.Tables()
	for _, required := range []string{"cmap", "glyf", "head", "hhea", "hmtx", "name"} {
		env.Contains(tables, required, "expected test font to contain table %s", required)
	}
	env.Nil(env.f.Table("CFF "))
}

func (env *InfoTestEnviron) TestFontMetrics() {
	m, err := FontMetrics(env.f)
	env.Require().NoError(err)
	env.Equal(env.f.SFNT.UnitsPerEm(), m.UnitsPerEm)
	env.Positive(int(m.Ascent))
	env.Negative(int(m.Descent))
	env.Positive(int(m.MaxAdvance))
}

func (env *InfoTestEnviron) TestGlyphMetrics() {
	gid := GlyphIndex(env.f, 'H')
	env.Require().NotZero(gid)
	m, err := GlyphMetrics(env.f, gid)
	env.Require().NoError(err)
	env.False(m.BBox.Empty())
	env.Positive(int(m.Advance))
	env.Positive(int(m.LSB))
	env.InDelta(int(m.BBox.MinX), int(m.LSB), 1, "lsb of a TrueType glyph is its xMin")
	env.Zero(int(m.BBox.MinY), "'H' sits on the baseline")
	env.Equal(m.Advance, m.LSB+m.BBox.Dx()+m.RSB)
	//
	space, err := GlyphMetrics(env.f, GlyphIndex(env.f, ' '))
	env.Require().NoError(err)
	env.True(space.BBox.Empty())
	env.Zero(int(space.RSB))
	env.Positive(int(space.Advance))
	//
	_, err = GlyphMetrics(env.f, sfnt.GlyphIndex(env.f.SFNT.NumGlyphs()))
	env.Error(err)
	env.Zero(GlyphIndex(env.f, 0x10FFFD))
}

func (env *InfoTestEnviron) TestMalformed() {
	_, err := Parse([]byte("not a font at all"))
	env.Error(err)
	_, err = tableDirectory([]byte{0, 1, 0, 0, 0, 9, 0, 0, 0, 0, 0, 0})
	env.Error(err, "9 table records do not fit")
	env.Nil((*Font)(nil).Table("head"))
	env.Empty(NameInfo(&Font{}))
}
