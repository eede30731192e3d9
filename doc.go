// Package anicons extracts the icon resources embedded in RIFF containers
// such as Windows animated cursors (.ani).
//
// The walk starts after the 12-byte RIFF header and reads chunk headers at
// increasing offsets. LIST chunks are entered rather than skipped, so icons
// nested at any depth are found in file order. Truncated or malformed input
// ends the walk early instead of failing it; only a missing RIFF header is
// fatal:
//
//	f, _ := os.Open("busy.ani")
//	n, err := anicons.Extract(ctx, f, anicons.NewDirSink("out", f.Name()))
//
// Extracted payloads are written as-is. Their content is not validated.
package anicons
