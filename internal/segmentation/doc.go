// Package segmentation holds the cut planning core: the detection
// configuration catalog, the candidate scorer, the cut-point resolver, and
// segment derivation. Everything here is pure logic over intervals the
// pause detector adapter has already produced; no tool output is parsed
// and no files are touched.
package segmentation
