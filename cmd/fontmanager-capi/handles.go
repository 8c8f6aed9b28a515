package main

import (
	"runtime/cgo"
	"unsafe"

	"github.com/npillmayer/fontmanager"
)

// libraryState is the Go side of a library handle passed to C.
type libraryState struct {
	lib   fontmanager.Library
	faces map[cgo.Handle]*faceState
}

// faceState is the Go side of a face handle passed to C. bits points to C
// memory holding a copy of the last glyph bitmap read back by the host.
type faceState struct {
	face    fontmanager.Face
	owner   *libraryState
	bits    bitsBuffer
	handle  cgo.Handle
	retired bool
}

// bitsBuffer abstracts the C allocation of glyph bitmaps.
type bitsBuffer interface {
	fill(src []byte) unsafe.Pointer
	free()
}

var newBits = func() bitsBuffer { return &cBits{} }

func newLibrary(e fontmanager.Engine) (cgo.Handle, int) {
	lib, st := fontmanager.InitLibrary(e)
	if st != fontmanager.StatusOK {
		return 0, st
	}
	state := &libraryState{lib: lib, faces: make(map[cgo.Handle]*faceState)}
	return cgo.NewHandle(state), fontmanager.StatusOK
}

// lookup resolves a handle received from C. Handles of the wrong kind, zero
// handles and deleted handles resolve to nil.
func lookup[T any](h uintptr) (state *T) {
	if h == 0 {
		return nil
	}
	defer func() {
		if recover() != nil {
			state = nil
		}
	}()
	state, _ = cgo.Handle(h).Value().(*T)
	return state
}

func (l *libraryState) newFace(path string) (cgo.Handle, int) {
	face, st := fontmanager.NewFace(l.lib, path)
	if st != fontmanager.StatusOK {
		return 0, st
	}
	state := &faceState{face: face, owner: l, bits: newBits()}
	state.handle = cgo.NewHandle(state)
	l.faces[state.handle] = state
	return state.handle, fontmanager.StatusOK
}

// done shuts down the library. Faces still open are released by the engine;
// their handles become invalid.
func (l *libraryState) done(h cgo.Handle) int {
	st := fontmanager.DoneLibrary(l.lib)
	for _, f := range l.faces {
		f.retire()
	}
	l.faces = nil
	h.Delete()
	return st
}

func (f *faceState) done() int {
	st := fontmanager.DoneFace(f.face)
	if st == fontmanager.StatusOK {
		if f.owner.faces != nil {
			delete(f.owner.faces, f.handle)
		}
		f.retire()
	}
	return st
}

func (f *faceState) retire() {
	if f.retired {
		return
	}
	f.retired = true
	f.bits.free()
	f.handle.Delete()
}
