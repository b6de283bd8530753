// Package framing adapts the json-gold JSON-LD processor to ldframe.
//
// The JSON-LD algorithms themselves (expansion, flattening, frame matching,
// compaction) belong to github.com/piprate/json-gold. This package owns the
// option mapping, the document loader hand-off and the classification of
// processor failures into FramingError.
package framing
