package router_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/tinderbolt/internal/testutils"
	"github.com/aretw0/tinderbolt/pkg/adapters/memory"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/outbound"
	"github.com/aretw0/tinderbolt/pkg/router"
	"github.com/aretw0/tinderbolt/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	gateway   *memory.Gateway
	completer *testutils.Completer
	sessions  *session.Manager
	router    *router.Router
	updateID  int64
	mu        sync.Mutex
}

func newFixture(t *testing.T, opts ...router.Option) *fixture {
	t.Helper()
	req := router.RequiredAssets()
	assets := testutils.NewAssets(req.Prompts, req.Messages, req.Images)

	f := &fixture{
		gateway:   memory.NewGateway(),
		completer: testutils.NewCompleter(),
	}
	f.sessions = session.NewManager(session.WithCompleter(f.completer))
	sender := outbound.NewSender(f.gateway, assets)
	f.router = router.New(f.sessions, sender, assets, opts...)
	return f
}

func (f *fixture) nextID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateID++
	return f.updateID
}

func (f *fixture) text(t *testing.T, user int64, text string) []memory.Outbound {
	t.Helper()
	require.NoError(t, f.router.Handle(context.Background(), domain.NewTextEvent(f.nextID(), user, user, 0, text)))
	return f.gateway.Drain(user)
}

func (f *fixture) press(t *testing.T, user int64, key string) []memory.Outbound {
	t.Helper()
	ev := domain.NewCallbackEvent(f.nextID(), user, user, 0, "cb", key)
	require.NoError(t, f.router.Handle(context.Background(), ev))
	return f.gateway.Drain(user)
}

func (f *fixture) state(t *testing.T, user int64) domain.Snapshot {
	t.Helper()
	snap, err := f.sessions.Get(user)
	require.NoError(t, err)
	return snap
}

func methods(calls []memory.Outbound) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

func TestRouter_Start(t *testing.T) {
	f := newFixture(t)

	calls := f.text(t, 1, "/start")
	assert.Equal(t, []string{
		memory.MethodSendPhoto,
		memory.MethodSendMessage,
		memory.MethodGetCommands,
		memory.MethodSetCommands,
		memory.MethodSetMenuButton,
	}, methods(calls))
	assert.Equal(t, "main.jpg", calls[0].Photo)
	assert.Equal(t, testutils.MessageText("main"), calls[1].Text)
	require.Len(t, calls[3].Commands, 6)
	assert.Equal(t, "start", calls[3].Commands[0].Command)
	assert.Equal(t, "gpt", calls[3].Commands[5].Command)
	assert.Equal(t, domain.MenuButtonCommands, f.gateway.Menu(1))
	assert.Equal(t, domain.ModeIdle, f.state(t, 1).Mode)

	// Same menu already registered: only the lookup is issued.
	calls = f.text(t, 1, "/start")
	assert.Equal(t, []string{
		memory.MethodSendPhoto,
		memory.MethodSendMessage,
		memory.MethodGetCommands,
	}, methods(calls))
}

func TestRouter_CommandsTakePrecedence(t *testing.T) {
	f := newFixture(t)

	f.text(t, 1, "/profile")
	f.text(t, 1, "30")
	require.Equal(t, 2, f.state(t, 1).Step)

	calls := f.text(t, 1, "/gpt")
	assert.Equal(t, domain.ModeGpt, f.state(t, 1).Mode)
	assert.Equal(t, 0, f.state(t, 1).Step)
	assert.Equal(t, []string{memory.MethodSendPhoto, memory.MethodSendMessage}, methods(calls))
	assert.Equal(t, "gpt.jpg", calls[0].Photo)
	assert.Empty(t, f.completer.Calls())

	// Bot name suffix and arguments are ignored.
	f.text(t, 1, "/date@TinderBolt now")
	assert.Equal(t, domain.ModeDate, f.state(t, 1).Mode)
}

func TestRouter_UnknownCommandFallsBack(t *testing.T) {
	f := newFixture(t)
	f.text(t, 1, "/gpt")

	calls := f.text(t, 1, "/unknown")
	require.Len(t, calls, 4)
	assert.Equal(t, "*Hello!*", calls[0].Text)
	assert.Equal(t, "You wrote /unknown", calls[2].Text)
	assert.Equal(t, domain.ModeGpt, f.state(t, 1).Mode)
	assert.Empty(t, f.completer.Calls())
}

func TestRouter_Gpt(t *testing.T) {
	f := newFixture(t)
	f.text(t, 1, "/gpt")

	calls := f.text(t, 1, "what is love")
	require.Len(t, calls, 2)
	assert.Equal(t, memory.MethodSendMessage, calls[0].Method)
	assert.Equal(t, testutils.MessageText("thinking"), calls[0].Text)
	assert.Equal(t, memory.MethodEditMessage, calls[1].Method)
	assert.Equal(t, calls[0].MessageID, calls[1].MessageID)
	assert.Equal(t, "reply 1", calls[1].Text)

	last := f.completer.Last()
	require.Len(t, last, 2)
	assert.Equal(t, domain.SystemTurn(testutils.PromptText("gpt")), last[0])
	assert.Equal(t, domain.UserTurn("what is love"), last[1])

	// Each message is a fresh exchange.
	f.text(t, 1, "and then")
	assert.Len(t, f.completer.Last(), 2)
	assert.Len(t, f.state(t, 1).History, 3)
}

func TestRouter_Idle_TextFallsBack(t *testing.T) {
	f := newFixture(t)

	calls := f.text(t, 1, "hello")
	require.Len(t, calls, 4)
	assert.Equal(t, "*Hello!*", calls[0].Text)
	assert.Equal(t, domain.ParseMarkdown, calls[0].ParseMode)
	assert.Equal(t, "_Hello!_", calls[1].Text)
	assert.Equal(t, "You wrote hello", calls[2].Text)
	assert.Equal(t, "Choose a mode:", calls[3].Text)
	assert.Equal(t, [][]domain.Button{
		{{Label: "Start", Value: "start"}},
		{{Label: "Stop", Value: "stop"}},
	}, calls[3].Buttons)
	assert.Equal(t, domain.ModeIdle, f.state(t, 1).Mode)
}

func TestRouter_Fallback_OddDelimiterUsesHTML(t *testing.T) {
	f := newFixture(t)

	calls := f.text(t, 1, "snake_case")
	require.Len(t, calls, 4)
	assert.Equal(t, domain.ParseHTML, calls[2].ParseMode)
	assert.Contains(t, calls[2].Text, "invalid markdown")
}

func TestRouter_Date(t *testing.T) {
	f := newFixture(t)

	calls := f.text(t, 1, "/date")
	require.Len(t, calls, 2)
	assert.Equal(t, "date.jpg", calls[0].Photo)
	require.Len(t, calls[1].Buttons, 5)
	assert.Equal(t, domain.Button{Label: "Ariana Grande", Value: "date_grande"}, calls[1].Buttons[0][0])

	// Text before a persona is chosen still continues the conversation.
	calls = f.text(t, 1, "hi")
	require.Len(t, calls, 2)
	assert.Equal(t, testutils.MessageText("date_typing"), calls[0].Text)
	assert.Equal(t, "reply 1", calls[1].Text)
	assert.Equal(t, []domain.Turn{domain.UserTurn("hi")}, f.completer.Last())

	calls = f.press(t, 1, "date_grande")
	require.Len(t, calls, 2)
	assert.Equal(t, "date_grande.jpg", calls[0].Photo)
	assert.Equal(t, testutils.MessageText("date_scenario"), calls[1].Text)

	snap := f.state(t, 1)
	assert.Equal(t, domain.ModeDate, snap.Mode)
	assert.Equal(t, "date_grande", snap.Persona)
	assert.Equal(t, []domain.Turn{domain.SystemTurn(testutils.PromptText("date_grande"))}, snap.History)

	calls = f.text(t, 1, "Hi, wanna grab a coffee?")
	require.Len(t, calls, 2)
	assert.Equal(t, testutils.MessageText("date_typing"), calls[0].Text)
	assert.Equal(t, "reply 2", calls[1].Text)

	history := f.state(t, 1).History
	require.Len(t, history, 3)
	assert.Equal(t, domain.RoleSystem, history[0].Role)
	assert.Equal(t, domain.UserTurn("Hi, wanna grab a coffee?"), history[1])
	assert.Equal(t, domain.RoleAssistant, history[2].Role)

	f.text(t, 1, "Tomorrow?")
	assert.Len(t, f.completer.Last(), 4)
	assert.Len(t, f.state(t, 1).History, 5)
}

func TestRouter_Date_UnknownPersonaFallsBack(t *testing.T) {
	f := newFixture(t)
	f.text(t, 1, "/date")

	calls := f.press(t, 1, "date_nobody")
	require.Len(t, calls, 4)
	assert.Equal(t, "", f.state(t, 1).Persona)
}

func TestRouter_ButtonOutsideItsModeFallsBack(t *testing.T) {
	f := newFixture(t)
	f.text(t, 1, "/gpt")

	calls := f.press(t, 1, "date_grande")
	require.Len(t, calls, 4)
	assert.Equal(t, "You wrote date_grande", calls[2].Text)
	assert.Equal(t, domain.ModeGpt, f.state(t, 1).Mode)
	assert.Empty(t, f.completer.Calls())
}

func TestRouter_Message(t *testing.T) {
	f := newFixture(t)

	calls := f.text(t, 1, "/message")
	require.Len(t, calls, 2)
	assert.Equal(t, "message.jpg", calls[0].Photo)
	assert.Equal(t, [][]domain.Button{
		{{Label: "Next message", Value: "message_next"}},
		{{Label: "Invite on a date", Value: "message_date"}},
	}, calls[1].Buttons)

	assert.Empty(t, f.text(t, 1, "A: hi"))
	assert.Empty(t, f.text(t, 1, "B: hello"))
	assert.Empty(t, f.text(t, 1, "A: free on friday?"))
	assert.Equal(t, []string{"A: hi", "B: hello", "A: free on friday?"}, f.state(t, 1).Transcript)

	calls = f.press(t, 1, "message_next")
	require.Len(t, calls, 2)
	assert.Equal(t, memory.MethodEditMessage, calls[1].Method)

	last := f.completer.Last()
	require.Len(t, last, 2)
	assert.Equal(t, domain.SystemTurn(testutils.PromptText("message_next")), last[0])
	assert.Equal(t, domain.UserTurn("A: hi\n\nB: hello\n\nA: free on friday?"), last[1])

	// The transcript survives a suggestion and is cleared by re-entering the mode.
	assert.Len(t, f.state(t, 1).Transcript, 3)
	f.press(t, 1, "message_date")
	assert.Equal(t, testutils.PromptText("message_date"), f.completer.Last()[0].Content)

	f.text(t, 1, "/message")
	assert.Empty(t, f.state(t, 1).Transcript)
}

func TestRouter_ProfileInterview(t *testing.T) {
	f := newFixture(t)

	calls := f.text(t, 1, "/profile")
	require.Len(t, calls, 2)
	assert.Equal(t, "profile.jpg", calls[0].Photo)
	assert.Equal(t, testutils.MessageText("profile_q1"), calls[1].Text)
	assert.Equal(t, 1, f.state(t, 1).Step)

	answers := []string{"30", "engineer", "climbing", "rudeness", "marriage"}
	for i, answer := range answers[:4] {
		calls = f.text(t, 1, answer)
		require.Len(t, calls, 1)
		assert.Equal(t, testutils.MessageText("profile_q"+string(rune('2'+i))), calls[0].Text)
		assert.Equal(t, i+2, f.state(t, 1).Step)
	}
	assert.Empty(t, f.completer.Calls())

	calls = f.text(t, 1, answers[4])
	require.Len(t, calls, 2)
	assert.Equal(t, "reply 1", calls[1].Text)

	snap := f.state(t, 1)
	assert.Equal(t, 5, snap.Step)
	assert.Equal(t, domain.UserProfile{
		Age:        "30",
		Occupation: "engineer",
		Hobby:      "climbing",
		Annoys:     "rudeness",
		Goals:      "marriage",
	}, snap.Profile)

	last := f.completer.Last()
	require.Len(t, last, 2)
	assert.Equal(t, domain.SystemTurn(testutils.PromptText("profile")), last[0])
	assert.Equal(t, snap.Profile.Summary(), last[1].Content)
	assert.Equal(t, "Age: 30\nOccupation: engineer\nHobby: climbing\nDislikes in people: rudeness\nDating goals: marriage\n", last[1].Content)

	// Step 5 is terminal: another answer overwrites goals and resubmits.
	f.text(t, 1, "friendship")
	assert.Equal(t, 5, f.state(t, 1).Step)
	assert.Equal(t, "friendship", f.state(t, 1).Profile.Goals)
	assert.Len(t, f.completer.Calls(), 2)
}

func TestRouter_OpenerInterview_RawLastAnswer(t *testing.T) {
	f := newFixture(t)
	f.text(t, 1, "/opener")

	for _, answer := range []string{"Anna", "25", "yoga", "designer", "dinner"} {
		f.text(t, 1, answer)
	}
	snap := f.state(t, 1)
	assert.Equal(t, domain.ModeOpener, snap.Mode)
	assert.Equal(t, "Anna", snap.Profile.Name)
	assert.Equal(t, "designer", snap.Profile.Occupation)

	last := f.completer.Last()
	require.Len(t, last, 2)
	assert.Equal(t, domain.SystemTurn(testutils.PromptText("opener")), last[0])
	assert.Equal(t, domain.UserTurn("dinner"), last[1])
}

func TestRouter_OpenerInterview_Summary(t *testing.T) {
	f := newFixture(t, router.WithOpenerSummary(true))
	f.text(t, 1, "/opener")

	for _, answer := range []string{"Anna", "25", "yoga", "designer", "dinner"} {
		f.text(t, 1, answer)
	}
	assert.Equal(t, "Name: Anna\nAge: 25\nOccupation: designer\nHobby: yoga\nDating goals: dinner\n",
		f.completer.Last()[1].Content)
}

func TestRouter_Interview_IgnoresEmptyText(t *testing.T) {
	f := newFixture(t)
	f.text(t, 1, "/profile")

	assert.Empty(t, f.text(t, 1, ""))
	assert.Equal(t, 1, f.state(t, 1).Step)
}

func TestRouter_ExchangeFailure(t *testing.T) {
	f := newFixture(t)
	f.text(t, 1, "/profile")
	for _, answer := range []string{"30", "engineer", "climbing", "rudeness"} {
		f.text(t, 1, answer)
	}

	f.completer.Fail(true)
	calls := f.text(t, 1, "marriage")
	require.Len(t, calls, 2)
	assert.Equal(t, memory.MethodEditMessage, calls[1].Method)
	assert.Equal(t, testutils.MessageText("exchange_failed"), calls[1].Text)

	snap := f.state(t, 1)
	assert.Equal(t, domain.ModeProfile, snap.Mode)
	assert.Equal(t, 5, snap.Step)
	assert.Empty(t, snap.History)

	// Resending retries.
	f.completer.Fail(false)
	calls = f.text(t, 1, "marriage")
	assert.Equal(t, "reply 2", calls[1].Text)
	assert.Len(t, f.state(t, 1).History, 3)
}

func TestRouter_Date_FailureKeepsHistory(t *testing.T) {
	f := newFixture(t)
	f.text(t, 1, "/date")
	f.press(t, 1, "date_hardy")

	f.completer.Fail(true)
	f.text(t, 1, "hey")
	assert.Len(t, f.state(t, 1).History, 1)
}

func TestRouter_GatewayFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	f.gateway.FailOn(memory.MethodSendPhoto, boom)

	err := f.router.Handle(context.Background(), domain.NewTextEvent(1, 1, 1, 0, "/gpt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.ErrorIs(t, err, boom)

	// The transition happened before the failed send.
	assert.Equal(t, domain.ModeGpt, f.state(t, 1).Mode)
}

func TestRouter_MissingAssetIsReturned(t *testing.T) {
	gateway := memory.NewGateway()
	assets := memory.NewAssets()
	mgr := session.NewManager()
	r := router.New(mgr, outbound.NewSender(gateway, assets), assets)

	err := r.Handle(context.Background(), domain.NewTextEvent(1, 1, 1, 0, "/start"))
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestRouter_Hooks(t *testing.T) {
	var (
		mu        sync.Mutex
		modes     []domain.ModeEvent
		exchanges []domain.ExchangeEvent
	)
	f := newFixture(t, router.WithHooks(domain.LifecycleHooks{
		OnModeEnter: func(_ context.Context, e *domain.ModeEvent) {
			mu.Lock()
			defer mu.Unlock()
			modes = append(modes, *e)
		},
		OnExchange: func(_ context.Context, e *domain.ExchangeEvent) {
			mu.Lock()
			defer mu.Unlock()
			exchanges = append(exchanges, *e)
		},
	}))

	f.text(t, 7, "/gpt")
	f.text(t, 7, "question")

	require.Len(t, modes, 1)
	assert.Equal(t, domain.ModeIdle, modes[0].From)
	assert.Equal(t, domain.ModeGpt, modes[0].To)
	assert.Equal(t, int64(7), modes[0].UserID)

	require.Len(t, exchanges, 1)
	assert.Equal(t, "start", exchanges[0].Kind)
	assert.Equal(t, domain.ModeGpt, exchanges[0].Mode)
	assert.NoError(t, exchanges[0].Err)
}

// TestRouter_UsersAreIsolated drives two users through different modes concurrently.
func TestRouter_UsersAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, user := range []int64{1, 2} {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			texts := []string{"/profile", "30", "dev", "chess", "noise", "love"}
			if user == 2 {
				texts = []string{"/message", "line 1", "line 2", "line 3"}
			}
			for _, text := range texts {
				assert.NoError(t, f.router.Handle(ctx, domain.NewTextEvent(f.nextID(), user, user, 0, text)))
			}
		}(user)
	}
	wg.Wait()

	one := f.state(t, 1)
	assert.Equal(t, domain.ModeProfile, one.Mode)
	assert.Equal(t, 5, one.Step)
	assert.Empty(t, one.Transcript)

	two := f.state(t, 2)
	assert.Equal(t, domain.ModeMessage, two.Mode)
	assert.Equal(t, []string{"line 1", "line 2", "line 3"}, two.Transcript)
	assert.Empty(t, two.Profile)
}

func TestRequiredAssets(t *testing.T) {
	req := router.RequiredAssets()
	assert.Contains(t, req.Prompts, "date_zendaya")
	assert.Contains(t, req.Messages, "opener_q5")
	assert.Contains(t, req.Images, "date_gosling")
	assert.Contains(t, req.Images, "main")
}
