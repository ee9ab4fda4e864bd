package tinderbolt_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/tinderbolt"
	"github.com/aretw0/tinderbolt/internal/testutils"
	"github.com/aretw0/tinderbolt/pkg/adapters/memory"
	"github.com/aretw0/tinderbolt/pkg/dispatch"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource []domain.Event

func (s sliceSource) Events(ctx context.Context) (<-chan domain.Event, error) {
	ch := make(chan domain.Event, len(s))
	for _, ev := range s {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func TestNew_RequiresPorts(t *testing.T) {
	_, err := tinderbolt.New(nil, testutils.NewCompleter())
	assert.Error(t, err)

	_, err = tinderbolt.New(memory.NewGateway(), nil)
	assert.Error(t, err)
}

func TestNew_RejectsIncompleteAssets(t *testing.T) {
	assets := memory.NewAssets()
	assets.Messages["main"] = "hi"

	_, err := tinderbolt.New(memory.NewGateway(), testutils.NewCompleter(), tinderbolt.WithAssets(assets))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestBot_Run_DeduplicatesAndCounts(t *testing.T) {
	gateway := memory.NewGateway()
	var exchanges atomic.Int32
	bot, err := tinderbolt.New(gateway, testutils.NewCompleter(),
		tinderbolt.WithWorkers(1),
		tinderbolt.WithLifecycleHooks(domain.LifecycleHooks{
			OnExchange: func(ctx context.Context, e *domain.ExchangeEvent) { exchanges.Add(1) },
		}),
	)
	require.NoError(t, err)

	events := sliceSource{
		domain.NewTextEvent(1, 5, 5, 0, "/gpt"),
		domain.NewTextEvent(2, 5, 5, 0, "hello"),
		domain.NewTextEvent(2, 5, 5, 0, "hello"),
	}
	require.NoError(t, bot.Run(context.Background(), events))

	assert.Equal(t, int32(1), exchanges.Load())
	snap, err := bot.Sessions().Get(5)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeGpt, snap.Mode)
	require.Len(t, snap.History, 3)

	n, err := testutil.GatherAndCount(bot.Metrics().Registry(), "tinderbolt_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "ok and duplicate outcomes")
}

func TestBot_Run_KeepsPastedLinesInOrder(t *testing.T) {
	for run := 0; run < 50; run++ {
		bot, err := tinderbolt.New(memory.NewGateway(), testutils.NewCompleter())
		require.NoError(t, err)

		events := sliceSource{
			domain.NewTextEvent(1, 9, 9, 0, "/message"),
			domain.NewTextEvent(2, 9, 9, 0, "a"),
			domain.NewTextEvent(3, 9, 9, 0, "b"),
			domain.NewTextEvent(4, 9, 9, 0, "c"),
		}
		require.NoError(t, bot.Run(context.Background(), events))

		snap, err := bot.Sessions().Get(9)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, snap.Transcript, "run %d", run)
	}
}

func TestBot_Process_Outcomes(t *testing.T) {
	gateway := memory.NewGateway()
	bot, err := tinderbolt.New(gateway, testutils.NewCompleter())
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, dispatch.OutcomeOK, bot.Process(ctx, domain.NewTextEvent(1, 8, 8, 0, "/start")))
	assert.Equal(t, dispatch.OutcomeDuplicate, bot.Process(ctx, domain.NewTextEvent(1, 8, 8, 0, "/start")))

	gateway.FailOn(memory.MethodSendMessage, assert.AnError)
	assert.Equal(t, dispatch.OutcomeError, bot.Process(ctx, domain.NewTextEvent(2, 8, 8, 0, "/gpt")))
}

type recordingLocker struct {
	keys []string
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.keys = append(l.keys, key)
	return func(context.Context) error { return nil }, nil
}

func TestBot_WithLocker(t *testing.T) {
	locker := &recordingLocker{}
	bot, err := tinderbolt.New(memory.NewGateway(), testutils.NewCompleter(),
		tinderbolt.WithLocker(locker, time.Minute))
	require.NoError(t, err)

	require.NoError(t, bot.Handle(context.Background(), domain.NewTextEvent(1, 3, 3, 0, "/start")))
	assert.Len(t, locker.keys, 1)
}
