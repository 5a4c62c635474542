// Package upload normalizes the possible origins of upload bytes (live
// request stream, temporary disk file, in-memory buffer) into a single
// streamable source with known metadata, and owns the lifecycle of any
// temporary on-disk artifact backing it.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FieldName is the multipart form field clients must use for the video file.
const FieldName = "videoFile"

// ErrMissingFile is returned when the request body holds no file part under
// FieldName.
var ErrMissingFile = errors.New("no video file in request")

// Source is a single addressable byte stream plus metadata. Size returns -1
// when the total length is unknown. Close releases whatever backs the source
// and must be safe to call more than once; for disk-backed sources it removes
// the temporary artifact.
type Source interface {
	Open() (io.ReadCloser, error)
	Name() string
	ContentType() string
	Size() int64
	Close() error
}

// StreamSource adapts a live reader, typically one part of an in-flight
// multipart body. It can be opened once and owns no local resources.
type StreamSource struct {
	r           io.Reader
	name        string
	contentType string
	size        int64
}

// NewStreamSource wraps r. Pass size -1 when the length is unknown.
func NewStreamSource(r io.Reader, name, contentType string, size int64) *StreamSource {
	return &StreamSource{r: r, name: name, contentType: contentType, size: size}
}

func (s *StreamSource) Open() (io.ReadCloser, error) {
	if s.r == nil {
		return nil, errors.New("stream source already consumed")
	}
	r := s.r
	s.r = nil
	return io.NopCloser(r), nil
}

func (s *StreamSource) Name() string        { return s.name }
func (s *StreamSource) ContentType() string { return s.contentType }
func (s *StreamSource) Size() int64         { return s.size }
func (s *StreamSource) Close() error        { return nil }

// FileSource is backed by a temporary file owned exclusively by one request.
// Close deletes the file; the deletion happens at most once no matter how
// many exit paths run it.
type FileSource struct {
	path        string
	name        string
	contentType string
	size        int64

	once   sync.Once
	rmErr  error
	closed bool
}

// NewFileSource takes ownership of the file at path.
func NewFileSource(path, name, contentType string, size int64) *FileSource {
	return &FileSource{path: path, name: name, contentType: contentType, size: size}
}

// SpoolToDisk buffers r into a fresh temporary file under dir and returns a
// FileSource owning it. The artifact exists before this function returns and
// is tracked for cleanup through the returned source.
func SpoolToDisk(dir string, r io.Reader, name, contentType string) (*FileSource, error) {
	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(name))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create temp artifact: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("buffer upload to disk: %w", err)
	}
	return NewFileSource(path, name, contentType, n), nil
}

func (s *FileSource) Open() (io.ReadCloser, error) {
	if s.closed {
		return nil, errors.New("file source already released")
	}
	return os.Open(s.path)
}

func (s *FileSource) Name() string        { return s.name }
func (s *FileSource) ContentType() string { return s.contentType }
func (s *FileSource) Size() int64         { return s.size }

// Path exposes the artifact location for tests and logging.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) Close() error {
	s.once.Do(func() {
		s.closed = true
		s.rmErr = os.Remove(s.path)
	})
	return s.rmErr
}

// BufferSource holds the whole upload in memory.
type BufferSource struct {
	data        []byte
	name        string
	contentType string
}

func NewBufferSource(data []byte, name, contentType string) *BufferSource {
	return &BufferSource{data: data, name: name, contentType: contentType}
}

func (s *BufferSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *BufferSource) Name() string        { return s.name }
func (s *BufferSource) ContentType() string { return s.contentType }
func (s *BufferSource) Size() int64         { return int64(len(s.data)) }
func (s *BufferSource) Close() error        { return nil }

// FromMultipart scans mr for the first file part named FieldName and returns
// it as a StreamSource. Other fields and files are drained and discarded.
// Returns ErrMissingFile once the body is exhausted without a match.
//
// The returned source reads directly from the request body, so it must be
// consumed before the surrounding handler returns.
func FromMultipart(mr *multipart.Reader) (*StreamSource, error) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, ErrMissingFile
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart body: %w", err)
		}

		if part.FormName() == FieldName && part.FileName() != "" {
			ct := part.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			return NewStreamSource(part, part.FileName(), ct, -1), nil
		}

		// Not ours; drain so the reader can advance.
		if _, err := io.Copy(io.Discard, part); err != nil {
			return nil, fmt.Errorf("drain multipart part: %w", err)
		}
		part.Close()
	}
}
