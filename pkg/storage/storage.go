package storage

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"path"
	"strings"
)

// Object describes a stored blob.
type Object struct {
	Path     string
	Size     int64
	MIMEType string
	// SHA256 is the hex encoded digest of the stored bytes.
	SHA256 string
}

// Storage persists streamed uploads under slash separated keys.
type Storage interface {
	// Save streams r to key. An empty contentType is sniffed from the first bytes.
	Save(ctx context.Context, key string, r io.Reader, contentType string) (*Object, error)
	// Delete removes a single object.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) bool
	// URL returns the public URL for key.
	URL(key string) string
}

// CleanKey normalizes key to a relative slash separated path.
// Keys that are empty or climb out of the root are rejected with ErrInvalidPath.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	if strings.Contains(key, "\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, key)
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidPath)
	}
	return cleaned, nil
}

// sniff returns contentType when set, otherwise the type detected from the
// first 512 bytes of r. The returned reader still yields every byte of r.
func sniff(r io.Reader, contentType string) (string, io.Reader) {
	if contentType != "" {
		return contentType, r
	}
	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(512)
	return http.DetectContentType(head), br
}

// digest counts and hashes the bytes flowing through it.
type digest struct {
	h hash.Hash
	n int64
}

func newDigest() *digest { return &digest{h: sha256.New()} }

func (d *digest) Write(p []byte) (int, error) {
	d.n += int64(len(p))
	return d.h.Write(p)
}

func (d *digest) sum() string { return hex.EncodeToString(d.h.Sum(nil)) }

// contextReader fails reads once ctx is done, so long copies stop early.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
