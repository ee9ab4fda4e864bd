package assets

import (
	"errors"
	"fmt"

	"github.com/aretw0/tinderbolt/pkg/ports"
)

// Validate checks that every key resolves and reports all the missing ones at once.
func Validate(loader ports.AssetLoader, prompts, messages, images []string) error {
	var errs []error
	for _, k := range prompts {
		if _, err := loader.LoadPrompt(k); err != nil {
			errs = append(errs, err)
		}
	}
	for _, k := range messages {
		if _, err := loader.LoadMessage(k); err != nil {
			errs = append(errs, err)
		}
	}
	for _, k := range images {
		b, err := loader.LoadImage(k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(b) == 0 {
			errs = append(errs, fmt.Errorf("image %q is empty", k))
		}
	}
	return errors.Join(errs...)
}
