package fontmgr

import "container/list"

// glyphCache holds the glyphs of one renderer, keyed by glyph index.
// With a limit > 0 the least recently used glyph is evicted first.
type glyphCache struct {
	limit   int
	entries map[uint32]*list.Element
	lru     *list.List // front = most recently used
}

func newGlyphCache(limit int) *glyphCache {
	return &glyphCache{
		limit:   limit,
		entries: make(map[uint32]*list.Element),
		lru:     list.New(),
	}
}

func (c *glyphCache) get(gid uint32) (*Glyph, bool) {
	e, ok := c.entries[gid]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(e)
	return e.Value.(*Glyph), true
}

func (c *glyphCache) put(g *Glyph) {
	if e, ok := c.entries[g.Index]; ok {
		e.Value = g
		c.lru.MoveToFront(e)
		return
	}
	c.entries[g.Index] = c.lru.PushFront(g)
	for c.limit > 0 && c.lru.Len() > c.limit {
		last := c.lru.Back()
		c.lru.Remove(last)
		delete(c.entries, last.Value.(*Glyph).Index)
	}
}

func (c *glyphCache) len() int {
	return c.lru.Len()
}
