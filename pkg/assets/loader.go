// Package assets loads prompts, messages and images from a file tree laid out as
// prompts/<key>.txt, messages/<key>.txt and images/<key>.jpg.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
)

//go:embed resources
var resources embed.FS

const (
	promptsDir  = "prompts"
	messagesDir = "messages"
	imagesDir   = "images"
)

// Loader implements ports.AssetLoader over a file system.
type Loader struct {
	fsys fs.FS
}

var _ ports.AssetLoader = (*Loader)(nil)

// New creates a Loader reading from fsys.
func New(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Default returns a Loader over the resources compiled into the binary.
func Default() *Loader {
	sub, err := fs.Sub(resources, "resources")
	if err != nil {
		panic(err) // The directory is embedded above.
	}
	return New(sub)
}

// FromDir returns a Loader reading from dir first and from the compiled resources
// for any file dir does not have. An empty dir yields Default.
func FromDir(dir string) (*Loader, error) {
	def := Default()
	if dir == "" {
		return def, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets dir %s is not a directory", dir)
	}
	return New(layered{os.DirFS(dir), def.fsys}), nil
}

// LoadPrompt returns the system prompt stored under key.
func (l *Loader) LoadPrompt(key string) (string, error) {
	b, err := l.read(promptsDir, key, ".txt")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// LoadMessage returns the user-facing text stored under key.
func (l *Loader) LoadMessage(key string) (string, error) {
	b, err := l.read(messagesDir, key, ".txt")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// LoadImage returns the JPEG stored under key.
func (l *Loader) LoadImage(key string) ([]byte, error) {
	return l.read(imagesDir, key, ".jpg")
}

func (l *Loader) read(dir, key, ext string) ([]byte, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return nil, fmt.Errorf("%w: invalid key %q", domain.ErrAssetNotFound, key)
	}
	name := path.Join(dir, key+ext)
	b, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, name)
		}
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return b, nil
}

// layered opens each name from the first file system that has it.
type layered []fs.FS

func (l layered) Open(name string) (fs.File, error) {
	var firstErr error
	for _, fsys := range l {
		f, err := fsys.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
