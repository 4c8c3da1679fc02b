// Package source loads raw network descriptions from local files or S3.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidLocation is returned when a location string cannot be resolved
// to a source.
var ErrInvalidLocation = errors.New("invalid source location")

// S3Scheme prefixes S3 locations (s3://bucket/key).
const S3Scheme = "s3"

// Source provides the raw bytes of a network description
type Source interface {
	// Load fetches the current content
	Load(ctx context.Context) ([]byte, error)
	// Describe returns a human readable location
	Describe() string
}

// Open resolves a location to a Source. Locations of the form
// s3://bucket/key are read from S3 using awsOpts; anything else is treated as a
// local path.
func Open(ctx context.Context, location string, awsOpts AWSOptions) (Source, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrInvalidLocation)
	}

	if strings.HasPrefix(location, S3Scheme+"://") {
		bucket, key, err := parseS3Location(location)
		if err != nil {
			return nil, err
		}
		return NewS3Source(ctx, bucket, key, awsOpts)
	}

	return NewFileSource(location), nil
}

func parseS3Location(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs both bucket and key", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}

// FileSource reads a network description from the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: filepath.Clean(path)}
}

// Load reads the whole file.
func (f *FileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return data, nil
}

// Describe returns the file path.
func (f *FileSource) Describe() string {
	return f.path
}

// Path returns the file path being read.
func (f *FileSource) Path() string {
	return f.path
}
