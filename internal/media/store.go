package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

// DefaultMaxBytes is the largest logo accepted.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

var (
	// ErrInvalidID is returned for identifiers that are not media identifiers.
	ErrInvalidID = errors.New("invalid media identifier")
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file size should be less than 5MB")
	// ErrNotImage is returned when the uploaded bytes are not an image.
	ErrNotImage = errors.New("please upload an image file")
	// ErrNotFound is returned when no binary was uploaded for an identifier.
	ErrNotFound = errors.New("media not found")
)

var (
	_ ports.MediaReserver = (*Store)(nil)
	_ ports.MediaResolver = (*Store)(nil)
	_ ports.MediaUploader = (*Store)(nil)
)

// Object is one stored logo binary.
type Object struct {
	io.ReadSeekCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Store keeps logo binaries on the local filesystem, one file per identifier.
type Store struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewStore creates dir when missing. baseURL is the public prefix media URLs
// are built from; empty yields root-relative URLs.
func NewStore(dir, baseURL string, maxBytes int64) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("media dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

// Reserve hands out a fresh identifier. Nothing is written until Put.
func (s *Store) Reserve(context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate media id: %w", err)
	}
	return id.String(), nil
}

// MediaURL returns the fetchable URL of an identifier.
func (s *Store) MediaURL(id string) string {
	return s.baseURL + "/media/" + id
}

// Put stores the bytes read from r under id, replacing any earlier upload.
// It returns the sniffed content type.
func (s *Store) Put(ctx context.Context, id string, r io.Reader) (string, error) {
	path, err := s.path(id)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}
	contentType := DetectImage(data)
	if contentType == "" {
		return "", ErrNotImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return contentType, nil
}

// UploadMedia implements ports.MediaUploader for in-process hosts.
func (s *Store) UploadMedia(ctx context.Context, id string, file ports.LogoFile) error {
	_, err := s.Put(ctx, id, bytes.NewReader(file.Data))
	return err
}

// Open returns the stored binary for id. Callers close the object.
func (s *Store) Open(id string) (*Object, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat media: %w", err)
	}
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("sniff media: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rewind media: %w", err)
	}
	return &Object{ReadSeekCloser: f, ContentType: mtype.String(), Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Delete removes the binary for id. Missing binaries are not an error.
func (s *Store) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

func (s *Store) path(id string) (string, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if !domain.IsMediaID(id) {
		return "", ErrInvalidID
	}
	return filepath.Join(s.dir, id), nil
}

// DetectImage sniffs data and returns its MIME type when it is an image, or
// an empty string otherwise.
func DetectImage(data []byte) string {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return mtype.String()
		}
	}
	return ""
}
