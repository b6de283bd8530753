// Package driver runs a framing job end to end: resolve the named frame,
// load the frame and data documents, frame the data, and serialize the
// result.
//
// Output is fully encoded before anything is written, so a failing run never
// leaves partial JSON on the output stream.
package driver
