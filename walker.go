package anicons

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ossrs/go-oryx-lib/logger"
)

// DefaultMaxPayloadSize caps the size of a single extracted payload.
const DefaultMaxPayloadSize = 16 << 20

// riffHeaderSize covers the RIFF tag, its size and the form type.
const riffHeaderSize = 12

// Container describes the outer RIFF chunk of a file.
type Container struct {
	Chunk
	// Form is the RIFF form type, "ACON" for animated cursors. It is left
	// zeroed when the file ends before it.
	Form [4]byte
}

// Bound is the offset at which the walk stops, as described by the RIFF size.
// The RIFF size counts from byte 8, not from the start of the file.
func (c Container) Bound() int64 {
	return headerSize + int64(c.Size)
}

// VisitFunc is called for every chunk header read during a walk. depth is the
// number of enclosing LIST chunks. Returning an error stops the walk.
type VisitFunc func(ch Chunk, depth int) error

// Extractor walks a RIFF container and pulls out the payloads of leaf chunks.
type Extractor struct {
	r io.ReadSeeker

	// LeafID is the chunk ID whose payloads get extracted.
	LeafID [4]byte
	// MaxPayloadSize skips leaves declaring more bytes than this. Zero
	// disables the limit.
	MaxPayloadSize uint32
	// SkipWriteErrors keeps walking when the sink fails instead of aborting.
	SkipWriteErrors bool
}

// NewExtractor creates an extractor for icon chunks read from r.
func NewExtractor(r io.ReadSeeker) *Extractor {
	return &Extractor{
		r:              r,
		LeafID:         CIDIcon,
		MaxPayloadSize: DefaultMaxPayloadSize,
	}
}

// Extract writes every icon chunk of r to sink and returns how many were
// written.
func Extract(ctx context.Context, r io.ReadSeeker, sink ArtifactSink) (uint32, error) {
	return NewExtractor(r).Extract(ctx, sink)
}

// Container reads the outer RIFF header.
func (e *Extractor) Container() (Container, error) {
	ch, err := ReadHeader(e.r, 0)
	if err != nil {
		return Container{}, fmt.Errorf("%w: %w", ErrNotRIFF, err)
	}

	if ch.ID != CIDRiff {
		return Container{}, fmt.Errorf("%w: found %q", ErrNotRIFF, ch.ID[:])
	}

	out := Container{Chunk: ch}

	// a missing form type leaves nothing to walk, which the caller finds out
	// on the first header read
	_, _ = io.ReadFull(e.r, out.Form[:])

	return out, nil
}

// Walk visits the chunks of the container in file order, entering LIST chunks
// instead of skipping them. Running out of input ends the walk without error.
func (e *Extractor) Walk(ctx context.Context, visit VisitFunc) (Container, error) {
	outer, err := e.Container()
	if err != nil {
		return outer, err
	}

	var lists []int64 // ends of the enclosing LIST chunks

	for cursor := int64(riffHeaderSize); cursor < outer.Bound(); {
		if err := ctx.Err(); err != nil {
			return outer, err
		}

		ch, err := ReadHeader(e.r, cursor)
		if errors.Is(err, ErrEndOfInput) || errors.Is(err, ErrTruncatedHeader) {
			break
		}

		if err != nil {
			return outer, err
		}

		for len(lists) > 0 && cursor >= lists[len(lists)-1] {
			lists = lists[:len(lists)-1]
		}

		if visit != nil {
			if err := visit(ch, len(lists)); err != nil {
				return outer, err
			}
		}

		if ch.ID == CIDList {
			lists = append(lists, ch.end())
			cursor = ch.PayloadStart

			continue
		}

		cursor = ch.PayloadEnd
	}

	return outer, nil
}

// Extract walks the container and hands each leaf payload to sink, numbered
// from zero in the order met. It returns the number of payloads written, also
// when failing.
func (e *Extractor) Extract(ctx context.Context, sink ArtifactSink) (uint32, error) {
	if sink == nil {
		return 0, errors.New("nil artifact sink")
	}

	var count uint32

	_, err := e.Walk(ctx, func(ch Chunk, _ int) error {
		if ch.ID != e.LeafID {
			return nil
		}

		data, err := ReadPayload(e.r, ch, e.MaxPayloadSize)
		if errors.Is(err, ErrEmptyChunk) {
			return nil
		}

		if errors.Is(err, ErrTruncatedPayload) || errors.Is(err, ErrPayloadTooLarge) {
			logger.Wf(ctx, "skip chunk at %v, err %v", ch.Offset, err)
			return nil
		}

		if err != nil {
			return err
		}

		if err := sink.WriteArtifact(count, data); err != nil {
			if !e.SkipWriteErrors {
				return fmt.Errorf("failed to write artifact %d: %w", count, err)
			}

			logger.Wf(ctx, "skip artifact %v of %vB, err %v", count, len(data), err)

			return nil
		}

		count++

		return nil
	})

	return count, err
}
