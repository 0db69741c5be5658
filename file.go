package readprof

import (
	"io"
	"os"
)

// File is an [io.ReaderAt] whose reads go through its own [SampledReader].
type File struct {
	f      io.ReaderAt
	reader *SampledReader
}

// Open opens the named local file for reading and instruments it with a fresh
// [SampledReader]. Each opened File has an independent slow-read warning.
func Open(name string, cfg *Config, sink LatencySink, clock Clock, opts ...Option) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return Wrap(f, NewSampledReader(cfg, sink, clock, opts...)), nil
}

// Wrap instruments f with r. A nil r behaves as a disabled reader.
func Wrap(f io.ReaderAt, r *SampledReader) *File {
	if r == nil {
		r = NewSampledReader(nil, nil, nil)
	}
	return &File{f: f, reader: r}
}

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f == nil || f.f == nil {
		return 0, ErrNilReader
	}
	return f.reader.ReadAt(f.f, p, off)
}

// Reader returns the sampler attached to f.
func (f *File) Reader() *SampledReader {
	if f == nil {
		return nil
	}
	return f.reader
}

// Name returns the file name when the underlying handle is an *os.File.
func (f *File) Name() string {
	if f == nil {
		return ""
	}
	if osf, ok := f.f.(*os.File); ok {
		return osf.Name()
	}
	return ""
}

// Close closes the underlying handle if it is an io.Closer.
func (f *File) Close() error {
	if f == nil || f.f == nil {
		return nil
	}
	if c, ok := f.f.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
