/*
Package fontmgr manages faces and sized renderers on top of a glyph rendering
engine, and hands out rendered glyphs as owned images.

A [Manager] opens each font file once ([Manager.FaceCache]). Renderers bind a
face to a height in points and a device resolution ([Manager.Renderer]).
Glyphs are generated per renderer and cached ([Manager.Glyph]). If a
renderer's face has no glyph for a codepoint, the manager falls back to other
faces at the same height and resolution.

The engine sizes a face globally, so the manager re-applies a renderer's size
before generating glyphs with it. A Manager is not safe for concurrent use.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontmgr

import (
	"errors"
	"fmt"
	"image"

	"github.com/npillmayer/fontmanager"
	"github.com/npillmayer/fontmanager/glyph"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontmanager.mgr'
func tracer() tracing.Trace {
	return tracing.Select("fontmanager.mgr")
}

var (
	ErrClosed          = errors.New("font manager is closed")
	ErrUnknownFace     = errors.New("unknown face")
	ErrUnknownRenderer = errors.New("unknown renderer")
	ErrInvalidHeight   = errors.New("glyph height must be positive")
	ErrGlyph           = errors.New("cannot generate glyph")
)

// FaceID identifies a face opened through a Manager.
type FaceID int

// RendererID identifies a renderer created by a Manager.
type RendererID int

// Resolution is a device resolution in dots per inch.
type Resolution struct {
	X, Y uint32
}

// Glyph is a rendered glyph. Its image is owned by the glyph and holds
// coverage, 255 being full ink.
type Glyph struct {
	Face  FaceID
	Index uint32
	Pos   glyph.Pos
	Image *image.Alpha
}

type face struct {
	id     FaceID
	path   string
	handle fontmanager.Face
	height uint32     // size currently applied to the handle
	res    Resolution // resolution currently applied to the handle
}

type renderer struct {
	id     RendererID
	face   *face
	height uint32
	res    Resolution
	glyphs *glyphCache
}

// Manager caches faces, renderers and glyphs.
type Manager struct {
	lib       fontmanager.Library
	faces     []*face
	renderers []*renderer
	conf      config
	gamma     *gammaTable
	closed    bool
}

// New initializes a rendering context with engine e.
func New(e fontmanager.Engine, opts ...Option) (*Manager, error) {
	conf := defaultConfig()
	for _, opt := range opts {
		opt(&conf)
	}
	lib, st := fontmanager.InitLibrary(e)
	if st != fontmanager.StatusOK {
		return nil, fmt.Errorf("cannot initialize font system: status %d", st)
	}
	m := &Manager{lib: lib, conf: conf}
	if conf.correct {
		m.gamma = newGammaTable(conf.gamma)
	}
	tracer().Debugf("font manager initialized, render mode %s", conf.mode)
	return m, nil
}

// Close releases all faces and the rendering context. Calls after the first
// one are no-ops.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	var errs []error
	for _, f := range m.faces {
		if st := fontmanager.DoneFace(f.handle); st != fontmanager.StatusOK {
			errs = append(errs, fmt.Errorf("cannot release face %s: status %d", f.path, st))
		}
	}
	if st := fontmanager.DoneLibrary(m.lib); st != fontmanager.StatusOK {
		errs = append(errs, fmt.Errorf("cannot shut down font system: status %d", st))
	}
	m.faces, m.renderers = nil, nil
	return errors.Join(errs...)
}

// FaceCache opens the font at path, or returns the id of the face already
// opened from path.
func (m *Manager) FaceCache(path string) (FaceID, error) {
	if m.closed {
		return -1, ErrClosed
	}
	for _, f := range m.faces {
		if f.path == path {
			return f.id, nil
		}
	}
	handle, st := fontmanager.NewFace(m.lib, path)
	if st != fontmanager.StatusOK {
		return -1, fmt.Errorf("cannot open face %s: status %d", path, st)
	}
	f := &face{id: FaceID(len(m.faces)), path: path, handle: handle}
	m.faces = append(m.faces, f)
	tracer().Infof("face %d cached for %s", f.id, path)
	return f.id, nil
}

// FacePath returns the path face id was opened from.
func (m *Manager) FacePath(id FaceID) (string, error) {
	f, err := m.face(id)
	if err != nil {
		return "", err
	}
	return f.path, nil
}

// Renderer returns a renderer for face at height points and resolution res,
// creating it on first use.
func (m *Manager) Renderer(id FaceID, height uint32, res Resolution) (RendererID, error) {
	f, err := m.face(id)
	if err != nil {
		return -1, err
	}
	if height == 0 {
		return -1, ErrInvalidHeight
	}
	if r := m.lookup(f, height, res); r != nil {
		return r.id, nil
	}
	r, err := m.newRenderer(f, height, res)
	if err != nil {
		return -1, err
	}
	return r.id, nil
}

// RendererHeight returns the height in points a renderer was created with.
func (m *Manager) RendererHeight(id RendererID) (uint32, error) {
	r, err := m.renderer(id)
	if err != nil {
		return 0, err
	}
	return r.height, nil
}

// Glyph returns the glyph for codepoint cp rendered by renderer id. The
// boolean result is false if no face knows the codepoint; the glyph is then
// the '.notdef' glyph of the renderer's face.
func (m *Manager) Glyph(id RendererID, cp rune) (*Glyph, bool, error) {
	r, err := m.renderer(id)
	if err != nil {
		return nil, false, err
	}
	g, found, err := m.load(r, cp)
	if err != nil || found {
		return g, found, err
	}
	for _, other := range m.renderers {
		if other == r || other.face == r.face || other.height != r.height || other.res != r.res {
			continue
		}
		if fg, ok, ferr := m.load(other, cp); ferr == nil && ok {
			tracer().Debugf("glyph for %#U taken from face %d", cp, other.face.id)
			return fg, true, nil
		}
	}
	for _, f := range m.faces {
		if f == r.face || m.lookup(f, r.height, r.res) != nil {
			continue
		}
		if fontmanager.CharIndex(f.handle, uint32(cp)) == glyph.NotDef {
			continue
		}
		nr, nerr := m.newRenderer(f, r.height, r.res)
		if nerr != nil {
			tracer().Infof("fallback face %d: %v", f.id, nerr)
			continue
		}
		if fg, ok, ferr := m.load(nr, cp); ferr == nil && ok {
			tracer().Debugf("glyph for %#U taken from new renderer %d", cp, nr.id)
			return fg, true, nil
		}
	}
	return g, false, nil
}

// CachedGlyphs returns the number of glyphs cached by renderer id.
func (m *Manager) CachedGlyphs(id RendererID) int {
	r, err := m.renderer(id)
	if err != nil {
		return 0
	}
	return r.glyphs.len()
}

func (m *Manager) face(id FaceID) (*face, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if id < 0 || int(id) >= len(m.faces) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFace, id)
	}
	return m.faces[id], nil
}

func (m *Manager) renderer(id RendererID) (*renderer, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if id < 0 || int(id) >= len(m.renderers) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRenderer, id)
	}
	return m.renderers[id], nil
}

func (m *Manager) lookup(f *face, height uint32, res Resolution) *renderer {
	for _, r := range m.renderers {
		if r.face == f && r.height == height && r.res == res {
			return r
		}
	}
	return nil
}

func (m *Manager) newRenderer(f *face, height uint32, res Resolution) (*renderer, error) {
	r := &renderer{
		id:     RendererID(len(m.renderers)),
		face:   f,
		height: height,
		res:    res,
		glyphs: newGlyphCache(m.conf.cacheLimit),
	}
	if err := m.activate(r); err != nil {
		return nil, err
	}
	m.renderers = append(m.renderers, r)
	tracer().Debugf("renderer %d: face %d at %dpt, %dx%d dpi", r.id, f.id, height, res.X, res.Y)
	return r, nil
}

// activate applies the renderer's size to its face if another renderer has
// resized the face in between.
func (m *Manager) activate(r *renderer) error {
	f := r.face
	if f.height == r.height && f.res == r.res {
		return nil
	}
	st := fontmanager.SetCharSize(f.handle, 0, uint64(r.height)*64, r.res.X, r.res.Y)
	if st != fontmanager.StatusOK {
		f.height = 0
		return fmt.Errorf("cannot size face %d to %dpt: status %d", f.id, r.height, st)
	}
	f.height, f.res = r.height, r.res
	return nil
}

// load returns the glyph for cp from r's cache or generates it.
func (m *Manager) load(r *renderer, cp rune) (*Glyph, bool, error) {
	gid := fontmanager.CharIndex(r.face.handle, uint32(cp))
	if g, ok := r.glyphs.get(gid); ok {
		return g, gid != glyph.NotDef, nil
	}
	if err := m.activate(r); err != nil {
		return nil, false, err
	}
	if st := fontmanager.GenerateGlyph(r.face.handle, m.conf.mode, gid); st != fontmanager.StatusOK {
		return nil, false, fmt.Errorf("%w %d of face %d: status %d", ErrGlyph, gid, r.face.id, st)
	}
	pos, raster, _ := fontmanager.CurrentGlyphMapData(r.face.handle)
	g := &Glyph{Face: r.face.id, Index: gid, Pos: pos, Image: m.copyRaster(raster)}
	r.glyphs.put(g)
	return g, gid != glyph.NotDef, nil
}

// copyRaster detaches a raster from the engine's glyph slot.
func (m *Manager) copyRaster(raster glyph.Raster) *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, raster.Width, raster.Rows))
	if raster.Validate() != nil {
		return img
	}
	for y := 0; y < raster.Rows; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+raster.Width]
		for x := range row {
			c := raster.Coverage(x, y)
			if m.gamma != nil && raster.PixelMode != glyph.PixelModeMono {
				c = m.gamma[c]
			}
			row[x] = c
		}
	}
	return img
}
