package path

import "github.com/rivecore/rivecore/geom"

// Iter walks a RawPath's verb stream, yielding each verb along with a
// point slice whose first entry is the segment's start point (even
// though that point physically belongs to the previous verb).
//
// This "back up one point" trick avoids tracking separate cursor
// state: every verb but move always continues from the point the
// previous verb left behind, so peeking backset points into the
// shared point slice recovers the start point for free.
type Iter struct {
	verbs []Verb
	pts   []geom.Vec2D
	vi    int
	pi    int
}

// Iter returns a fresh iterator positioned at the first verb.
func (p *RawPath) Iter() Iter {
	return Iter{verbs: p.verbs, pts: p.points}
}

// Done reports whether the iterator has exhausted the verb stream.
func (it *Iter) Done() bool { return it.vi >= len(it.verbs) }

// Current returns the verb at the iterator's position and a window
// into the point stream: pts[0] is the segment's start point, and the
// following entries (if any) are the verb's own points, matching the
// original Rive convention of pts[PtsBacksetForVerb(verb):].
func (it *Iter) Current() (Verb, []geom.Vec2D) {
	verb := it.verbs[it.vi]
	start := it.pi + verb.pointsBackset()
	return verb, it.pts[start:]
}

// Next advances the iterator past the current verb.
func (it *Iter) Next() {
	verb := it.verbs[it.vi]
	it.pi += verb.PointsAdvance()
	it.vi++
}

// Rewind resets the iterator to the beginning of the same stream.
func (it *Iter) Rewind() {
	it.vi = 0
	it.pi = 0
}
