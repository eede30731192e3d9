package anicons

import (
	"encoding/binary"
	"errors"
)

var errUnexpectedIndex = errors.New("unexpected artifact index")

// chunkBytes encodes a chunk, adding the padding byte for odd payloads.
func chunkBytes(id string, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload)+1)
	copy(out, id)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(payload)))

	out = append(out, payload...)
	if len(payload)%2 == 1 {
		out = append(out, 0)
	}

	return out
}

// listBytes encodes a LIST chunk holding the given chunks.
func listBytes(listType string, children ...[]byte) []byte {
	return chunkBytes("LIST", concat(append([][]byte{[]byte(listType)}, children...)...))
}

// riffBytes encodes a complete RIFF file.
func riffBytes(form string, children ...[]byte) []byte {
	return chunkBytes("RIFF", concat(append([][]byte{[]byte(form)}, children...)...))
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

// memorySink records artifacts in the order they were written.
type memorySink struct {
	artifacts [][]byte
}

func (s *memorySink) WriteArtifact(index uint32, data []byte) error {
	if int(index) != len(s.artifacts) {
		return errUnexpectedIndex
	}

	s.artifacts = append(s.artifacts, append([]byte(nil), data...))

	return nil
}
