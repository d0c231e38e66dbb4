// Package geometry holds the pure 2D math used by the editor: vectors, affine
// matrices, the four shape kinds and their containment, bounding-box and
// intersection predicates.
//
// Everything here is total over well-formed input and never returns errors.
// Degenerate input (a polygon with fewer than three points, a zero-length
// line) is normalized rather than rejected.
package geometry
