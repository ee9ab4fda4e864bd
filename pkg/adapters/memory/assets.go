package memory

import (
	"fmt"

	"github.com/aretw0/tinderbolt/pkg/domain"
)

// Assets implements ports.AssetLoader from in-memory maps.
// It is read-only after construction.
type Assets struct {
	Prompts  map[string]string
	Messages map[string]string
	Images   map[string][]byte
}

// NewAssets creates an empty asset set.
func NewAssets() *Assets {
	return &Assets{
		Prompts:  make(map[string]string),
		Messages: make(map[string]string),
		Images:   make(map[string][]byte),
	}
}

// LoadPrompt returns the prompt stored under key.
func (a *Assets) LoadPrompt(key string) (string, error) {
	if v, ok := a.Prompts[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: prompt %q", domain.ErrAssetNotFound, key)
}

// LoadMessage returns the message stored under key.
func (a *Assets) LoadMessage(key string) (string, error) {
	if v, ok := a.Messages[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: message %q", domain.ErrAssetNotFound, key)
}

// LoadImage returns the image stored under key.
func (a *Assets) LoadImage(key string) ([]byte, error) {
	if v, ok := a.Images[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: image %q", domain.ErrAssetNotFound, key)
}
