package outbound_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tinderbolt/pkg/adapters/memory"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSender() (*outbound.Sender, *memory.Gateway) {
	gw := memory.NewGateway()
	assets := memory.NewAssets()
	assets.Images["main"] = []byte("jpeg")
	return outbound.NewSender(gw, assets), gw
}

func TestSender_ShowMainMenu_ShortCircuits(t *testing.T) {
	s, gw := newSender()
	ctx := context.Background()
	menu := []string{"main menu", "/start", "ask gpt", "/gpt"}

	require.NoError(t, s.ShowMainMenu(ctx, 1, menu...))
	assert.Equal(t, 1, gw.Count(memory.MethodSetCommands))
	assert.Equal(t, 1, gw.Count(memory.MethodSetMenuButton))
	assert.Equal(t, domain.MenuButtonCommands, gw.Menu(1))

	// Same list again: only the lookup happens.
	require.NoError(t, s.ShowMainMenu(ctx, 1, menu...))
	assert.Equal(t, 2, gw.Count(memory.MethodGetCommands))
	assert.Equal(t, 1, gw.Count(memory.MethodSetCommands))
	assert.Equal(t, 1, gw.Count(memory.MethodSetMenuButton))

	// Another chat has its own menu.
	require.NoError(t, s.ShowMainMenu(ctx, 2, menu...))
	assert.Equal(t, 2, gw.Count(memory.MethodSetCommands))
}

func TestSender_HideMainMenu(t *testing.T) {
	s, gw := newSender()
	ctx := context.Background()
	require.NoError(t, s.ShowMainMenu(ctx, 1, "menu", "/start"))
	require.NoError(t, s.HideMainMenu(ctx, 1))

	assert.Equal(t, domain.MenuButtonDefault, gw.Menu(1))
	cmds, err := gw.GetCommands(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestSender_SendText_Fallback(t *testing.T) {
	s, gw := newSender()
	_, err := s.SendText(context.Background(), 1, "odd_one")
	require.NoError(t, err)

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.ParseHTML, calls[0].ParseMode)
	assert.Equal(t, outbound.InvalidMarkdownNotice("odd_one"), calls[0].Text)
}

func TestSender_GatewayErrorsAreWrapped(t *testing.T) {
	s, gw := newSender()
	ctx := context.Background()
	boom := errors.New("429 too many requests")
	gw.FailOn(memory.MethodSendMessage, boom)

	_, err := s.SendText(ctx, 1, "hi")
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.ErrorIs(t, err, boom)

	gw.FailOn(memory.MethodEditMessage, boom)
	err = s.EditText(ctx, domain.SentMessage{ChatID: 1, MessageID: 1}, "x")
	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestSender_SendPhoto(t *testing.T) {
	s, gw := newSender()
	ctx := context.Background()

	_, err := s.SendPhotoText(ctx, 1, "main", "caption")
	require.NoError(t, err)
	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "main.jpg", calls[0].Photo)
	assert.Equal(t, "caption", calls[0].Caption)

	_, err = s.SendPhoto(ctx, 1, "missing")
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
	assert.NotErrorIs(t, err, domain.ErrGateway)
}
