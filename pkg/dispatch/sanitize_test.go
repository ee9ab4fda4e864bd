package dispatch_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/tinderbolt/pkg/dispatch"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := 64

	_, err := dispatch.SanitizeInput(strings.Repeat("a", limit), limit)
	assert.NoError(t, err)

	_, err = dispatch.SanitizeInput(strings.Repeat("a", limit+1), limit)
	assert.ErrorIs(t, err, dispatch.ErrInputTooLarge)
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Hello World", "Hello World"},
		{"Safe Controls", "Line1\nLine2\tTabbed\r", "Line1\nLine2\tTabbed\r"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Emoji", "ask ChatGPT 🧠", "ask ChatGPT 🧠"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dispatch.SanitizeInput(tt.input, dispatch.DefaultMaxInputSize)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := dispatch.SanitizeInput("bad \xff", dispatch.DefaultMaxInputSize)
	assert.ErrorIs(t, err, dispatch.ErrInvalidUTF8)
}

func TestDispatcher_Process_SanitizesAndRejects(t *testing.T) {
	var got []string
	obs := &outcomes{}
	d := dispatch.New(dispatch.HandlerFunc(func(ctx context.Context, ev domain.Event) error {
		got = append(got, ev.Text)
		return nil
	}), dispatch.WithObserver(obs), dispatch.WithMaxInputSize(8))

	ctx := context.Background()
	assert.Equal(t, dispatch.OutcomeOK, d.Process(ctx, domain.NewTextEvent(1, 1, 1, 0, "hi\x07")))
	assert.Equal(t, dispatch.OutcomeRejected, d.Process(ctx, domain.NewTextEvent(2, 1, 1, 0, "far too long")))

	assert.Equal(t, []string{"hi"}, got)
	assert.Equal(t, 1, obs.get(dispatch.OutcomeRejected))
}
