package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Disk stores uploaded screenshots on the local filesystem.
type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Save writes the upload under a unique name, keeping the original extension
// so the MIME type stays derivable from the stored path.
func (d *Disk) Save(_ context.Context, filename string, src io.Reader) (string, error) {
	name := uniqueName(filename)
	full := filepath.Join(d.dir, name)

	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(full)
		return "", err
	}
	return full, nil
}

func (d *Disk) Read(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (d *Disk) Remove(_ context.Context, path string) error {
	return os.Remove(path)
}

func uniqueName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), rand.Intn(1_000_000_000), ext)
}
