package anicons

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IconExt is the extension given to extracted icon files.
const IconExt = ".ico"

// ArtifactSink receives extracted payloads.
type ArtifactSink interface {
	WriteArtifact(index uint32, data []byte) error
}

// SinkFunc adapts a function to the ArtifactSink interface.
type SinkFunc func(index uint32, data []byte) error

// WriteArtifact calls f(index, data).
func (f SinkFunc) WriteArtifact(index uint32, data []byte) error {
	return f(index, data)
}

// DirSink writes each artifact to its own file in Dir, named
// {Prefix}-{index}.ico.
type DirSink struct {
	Dir    string
	Prefix string
}

// NewDirSink returns a sink writing to dir with a prefix taken from the base
// name of the input file, extension removed. An empty dir means the current
// directory.
func NewDirSink(dir, inputPath string) *DirSink {
	base := filepath.Base(inputPath)

	return &DirSink{
		Dir:    dir,
		Prefix: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

// Path returns the file path used for the artifact at index.
func (s *DirSink) Path(index uint32) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s-%d%s", s.Prefix, index, IconExt))
}

// WriteArtifact writes data in full to the file for index. A file that could
// not be completely written is removed.
func (s *DirSink) WriteArtifact(index uint32, data []byte) (err error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", s.Dir, err)
		}
	}

	path := s.Path(index)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("couldn't create %s: %w", path, err)
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}

		if err != nil {
			err = errors.Join(err, removeIfExists(path))
		}
	}()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove partial %s: %w", path, err)
	}

	return nil
}
