package dispatch

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/tinderbolt/pkg/domain"
)

// DefaultMaxInputSize is the largest accepted text or callback payload, in bytes.
// Telegram caps messages at 4096 characters, which is up to 16KB of UTF-8.
const DefaultMaxInputSize = 16 << 10

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
func SanitizeInput(input string, limit int) (string, error) {
	if len(input) > limit {
		// Rejected, not truncated: a cut message would reach the model as if the user wrote it.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// sanitizeEvent cleans the user-controlled fields of ev.
func sanitizeEvent(ev domain.Event, limit int) (domain.Event, error) {
	text, err := SanitizeInput(ev.Text, limit)
	if err != nil {
		return ev, err
	}
	data, err := SanitizeInput(ev.Data, limit)
	if err != nil {
		return ev, err
	}
	ev.Text, ev.Data = text, data
	return ev, nil
}
