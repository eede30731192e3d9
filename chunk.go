package anicons

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// headerSize is the length of a chunk header: FourCC + little-endian size.
const headerSize = 8

var (
	// CIDRiff is the chunk ID of the outer RIFF container.
	CIDRiff = riff.RiffID
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDIcon is the chunk ID of an embedded icon resource.
	CIDIcon = [4]byte{'i', 'c', 'o', 'n'}

	// ErrNotRIFF is returned when the source does not start with a RIFF header.
	ErrNotRIFF = errors.New("not a RIFF file")
	// ErrEndOfInput is returned when a header is requested at or past the end
	// of the source.
	ErrEndOfInput = errors.New("end of input")
	// ErrTruncatedHeader is returned when fewer than 8 header bytes remain.
	ErrTruncatedHeader = errors.New("truncated chunk header")
	// ErrTruncatedPayload is returned when a chunk declares more payload bytes
	// than the source holds.
	ErrTruncatedPayload = errors.New("truncated chunk payload")
	// ErrEmptyChunk is returned when reading the payload of a zero-size chunk.
	ErrEmptyChunk = errors.New("empty chunk")
	// ErrPayloadTooLarge is returned when a payload exceeds the configured limit.
	ErrPayloadTooLarge = errors.New("chunk payload too large")
)

// Chunk is a decoded RIFF chunk header.
//
// PayloadEnd includes the padding byte of odd-sized chunks. For RIFF and LIST
// chunks PayloadStart skips the 4-byte form/list type.
type Chunk struct {
	ID [4]byte
	// Size is the payload size as declared in the header, without padding.
	Size uint32
	// Offset is the absolute position of the header.
	Offset       int64
	PayloadStart int64
	PayloadEnd   int64
}

// IsContainer reports whether the chunk carries a form/list type before its
// nested chunks.
func (c Chunk) IsContainer() bool {
	return c.ID == CIDRiff || c.ID == CIDList
}

// paddedSize is the declared size rounded up to the next even value.
func (c Chunk) paddedSize() int64 {
	size := int64(c.Size)
	if size%2 == 1 {
		size++
	}

	return size
}

// end is the offset right after the chunk on disk, regardless of its kind.
func (c Chunk) end() int64 {
	return c.Offset + headerSize + c.paddedSize()
}

func (c Chunk) String() string {
	return fmt.Sprintf("%q size=%d payload=[%d,%d)", c.ID[:], c.Size, c.PayloadStart, c.PayloadEnd)
}

// ReadHeader reads the 8-byte chunk header located at offset.
// The payload is not touched and the declared size is not checked against the
// length of the source.
func ReadHeader(r io.ReadSeeker, offset int64) (Chunk, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return Chunk{}, fmt.Errorf("failed to seek to chunk header at %d: %w", offset, err)
	}

	var head [headerSize]byte

	n, err := io.ReadFull(r, head[:])
	switch {
	case errors.Is(err, io.EOF):
		return Chunk{}, ErrEndOfInput
	case errors.Is(err, io.ErrUnexpectedEOF):
		return Chunk{}, fmt.Errorf("%w: %d of %d bytes at %d", ErrTruncatedHeader, n, headerSize, offset)
	case err != nil:
		return Chunk{}, fmt.Errorf("failed to read chunk header at %d: %w", offset, err)
	}

	id, size, err := riff.New(bytes.NewReader(head[:])).IDnSize()
	if err != nil {
		return Chunk{}, fmt.Errorf("failed to decode chunk header at %d: %w", offset, err)
	}

	ch := Chunk{
		ID:           id,
		Size:         size,
		Offset:       offset,
		PayloadStart: offset + headerSize,
	}
	if ch.IsContainer() {
		ch.PayloadStart += 4
	}

	ch.PayloadEnd = ch.PayloadStart + ch.paddedSize()

	return ch, nil
}

// ReadPayload reads the declared payload of ch, excluding any padding byte.
// On success the source is left positioned after the padding byte.
// A zero limit disables the size guard.
func ReadPayload(r io.ReadSeeker, ch Chunk, limit uint32) ([]byte, error) {
	if ch.Size == 0 {
		return nil, ErrEmptyChunk
	}

	if limit > 0 && ch.Size > limit {
		return nil, fmt.Errorf("%w: %q declares %d bytes, limit is %d", ErrPayloadTooLarge, ch.ID[:], ch.Size, limit)
	}

	if _, err := r.Seek(ch.PayloadStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to %q payload at %d: %w", ch.ID[:], ch.PayloadStart, err)
	}

	body := &riff.Chunk{
		ID:   ch.ID,
		Size: int(ch.Size),
		R:    io.LimitReader(r, int64(ch.Size)),
	}

	// grows with the bytes actually present, not with the declared size
	var buf bytes.Buffer

	n, err := io.Copy(&buf, body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q payload at %d: %w", ch.ID[:], ch.PayloadStart, err)
	}

	if n < int64(ch.Size) {
		return nil, fmt.Errorf("%w: %q declares %d bytes, %d available", ErrTruncatedPayload, ch.ID[:], ch.Size, n)
	}

	if ch.Size%2 == 1 {
		if _, err := r.Seek(1, io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("failed to skip %q padding byte: %w", ch.ID[:], err)
		}
	}

	return buf.Bytes(), nil
}
