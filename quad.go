package ripple

import "github.com/hajimehoshi/ebiten/v2"

// Quad is the single textured rectangle the distortion is drawn on. It maps
// the whole texture onto the whole surface.
type Quad struct {
	vertices [4]ebiten.Vertex
	indices  [6]uint16
	w, h     int
	res      resource
}

func newQuad(w, h int) *Quad {
	q := &Quad{
		indices: [6]uint16{0, 1, 2, 1, 3, 2},
		res:     acquireResource(ResourceGeometry),
	}
	q.resize(w, h)
	return q
}

// resize rebuilds the vertices for a w×h surface sampling a w×h texture.
func (q *Quad) resize(w, h int) {
	q.w, q.h = w, h
	fw, fh := float32(w), float32(h)
	corners := [4][2]float32{{0, 0}, {fw, 0}, {0, fh}, {fw, fh}}
	for i, c := range corners {
		q.vertices[i] = ebiten.Vertex{
			DstX: c[0], DstY: c[1],
			SrcX: c[0], SrcY: c[1],
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}
}

// Size returns the quad's extent in pixels.
func (q *Quad) Size() (int, int) { return q.w, q.h }

// Dispose releases the geometry. Safe to call more than once.
func (q *Quad) Dispose() {
	q.res.release()
}
