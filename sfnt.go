package fontmanager

import "github.com/npillmayer/fontmanager/engine"

// SFNT returns the engine backed by package engine, which renders TrueType
// and OpenType outlines with golang.org/x/image.
func SFNT() Engine {
	return sfntEngine{}
}

type sfntEngine struct{}

func (sfntEngine) Init() (Library, error) {
	lib, err := engine.Init()
	if err != nil {
		return nil, err
	}
	return sfntLibrary{lib}, nil
}

type sfntLibrary struct {
	lib *engine.Library
}

func (l sfntLibrary) NewFace(path string) (Face, error) {
	face, err := l.lib.NewFace(path)
	if err != nil {
		return nil, err
	}
	return face, nil
}

func (l sfntLibrary) Done() error {
	return l.lib.Done()
}
