package telegram_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/tinderbolt/pkg/adapters/telegram"
	"github.com/aretw0/tinderbolt/pkg/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	Method string
	Form   map[string]string
	File   []byte
}

// botAPI is a fake Bot API server answering each method with a canned result.
type botAPI struct {
	mu       sync.Mutex
	requests []request
	results  map[string]string
}

const getMe = `{"ok": true, "result": {"id": 1, "is_bot": true, "first_name": "Bolt", "username": "TinderBoltBot"}}`

func newBotAPI(t *testing.T) (*botAPI, *telegram.Client) {
	t.Helper()
	api := &botAPI{results: map[string]string{"getMe": getMe}}
	srv := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(srv.Close)

	c, err := telegram.New(context.Background(), "TOKEN", telegram.WithBaseURL(srv.URL))
	require.NoError(t, err)
	api.reset()
	return api, c
}

func (a *botAPI) respond(method, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results[method] = body
}

func (a *botAPI) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = nil
}

func (a *botAPI) serve(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimPrefix(r.URL.Path, "/botTOKEN/")
	req := request{Method: method, Form: map[string]string{}}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		_ = r.ParseMultipartForm(1 << 20)
		for k, v := range r.MultipartForm.Value {
			req.Form[k] = v[0]
		}
		if fh, ok := r.MultipartForm.File["photo"]; ok {
			f, _ := fh[0].Open()
			req.File, _ = io.ReadAll(f)
			req.Form["filename"] = fh[0].Filename
		}
	} else {
		_ = r.ParseForm()
		for k, v := range r.PostForm {
			req.Form[k] = v[0]
		}
	}

	a.mu.Lock()
	a.requests = append(a.requests, req)
	body, ok := a.results[method]
	a.mu.Unlock()
	if !ok {
		body = `{"ok": true, "result": true}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (a *botAPI) last() request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[len(a.requests)-1]
}

func (a *botAPI) methods() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for _, r := range a.requests {
		out = append(out, r.Method)
	}
	return out
}

// jsonField decodes a form value the SDK sent as JSON.
func jsonField(t *testing.T, r request, key string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(r.Form[key]), &v), key)
	return v
}

func TestNew_VerifiesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botBAD/getMe", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok": false, "error_code": 401, "description": "Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := telegram.New(context.Background(), "BAD", telegram.WithBaseURL(srv.URL))
	var apiErr *tgbotapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Code)
}

func TestClient_Self(t *testing.T) {
	_, c := newBotAPI(t)
	assert.Equal(t, "TinderBoltBot", c.Self().UserName)
}

const sentMessage = `{"ok": true, "result": {"message_id": 99, "chat": {"id": 5, "type": "private"}}}`

func TestClient_SendMessage(t *testing.T) {
	api, c := newBotAPI(t)
	api.respond("sendMessage", sentMessage)

	msg, err := c.SendMessage(context.Background(), domain.SendMessageRequest{
		ChatID:    5,
		Text:      "pick one",
		ParseMode: domain.ParseMarkdown,
		Buttons:   [][]domain.Button{{{Label: "Start", Value: "start"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SentMessage{ChatID: 5, MessageID: 99}, msg)

	got := api.last()
	assert.Equal(t, "sendMessage", got.Method)
	assert.Equal(t, "5", got.Form["chat_id"])
	assert.Equal(t, "pick one", got.Form["text"])
	assert.Equal(t, "Markdown", got.Form["parse_mode"])
	markup := jsonField(t, got, "reply_markup").(map[string]any)
	rows := markup["inline_keyboard"].([]any)
	button := rows[0].([]any)[0].(map[string]any)
	assert.Equal(t, "Start", button["text"])
	assert.Equal(t, "start", button["callback_data"])
}

func TestClient_SendPhoto(t *testing.T) {
	api, c := newBotAPI(t)
	api.respond("sendPhoto", sentMessage)

	msg, err := c.SendPhoto(context.Background(), domain.SendPhotoRequest{
		ChatID:   5,
		Filename: "main.jpg",
		Image:    []byte{0xff, 0xd8, 0xff},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), msg.MessageID)

	got := api.last()
	assert.Equal(t, "5", got.Form["chat_id"])
	assert.Equal(t, "main.jpg", got.Form["filename"])
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, got.File)
}

func TestClient_EditMessageText(t *testing.T) {
	api, c := newBotAPI(t)

	require.NoError(t, c.EditMessageText(context.Background(), domain.EditMessageRequest{ChatID: 5, MessageID: 99, Text: "done"}))
	got := api.last()
	assert.Equal(t, "99", got.Form["message_id"])
	assert.Equal(t, "done", got.Form["text"])

	api.respond("editMessageText", `{"ok": false, "error_code": 400, "description": "Bad Request: message is not modified"}`)
	assert.NoError(t, c.EditMessageText(context.Background(), domain.EditMessageRequest{ChatID: 5, MessageID: 99, Text: "done"}))
}

func TestClient_APIError(t *testing.T) {
	api, c := newBotAPI(t)
	api.respond("sendMessage", `{"ok": false, "error_code": 403, "description": "Forbidden: bot was blocked by the user"}`)

	_, err := c.SendMessage(context.Background(), domain.SendMessageRequest{ChatID: 5, Text: "hi"})
	var apiErr *tgbotapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Code)
	assert.Contains(t, err.Error(), "telegram sendMessage")
	assert.NotErrorIs(t, err, telegram.ErrMessageNotModified)
}

func TestClient_Commands(t *testing.T) {
	api, c := newBotAPI(t)
	ctx := context.Background()
	api.respond("getMyCommands", `{"ok": true, "result": [{"command": "start", "description": "main menu"}]}`)

	cmds, err := c.GetCommands(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.BotCommand{{Command: "start", Description: "main menu"}}, cmds)
	scope := jsonField(t, api.last(), "scope").(map[string]any)
	assert.Equal(t, "chat", scope["type"])
	assert.Equal(t, float64(5), scope["chat_id"])

	require.NoError(t, c.SetCommands(ctx, 5, cmds))
	assert.Len(t, jsonField(t, api.last(), "commands"), 1)

	require.NoError(t, c.DeleteCommands(ctx, 5))
	require.NoError(t, c.SetMenuButton(ctx, 5, domain.MenuButtonCommands))
	assert.Equal(t, "5", api.last().Form["chat_id"])
	assert.Equal(t, map[string]any{"type": "commands"}, jsonField(t, api.last(), "menu_button"))

	assert.Equal(t, []string{"getMyCommands", "setMyCommands", "deleteMyCommands", "setChatMenuButton"}, api.methods())
}

func TestEventOf(t *testing.T) {
	var u tgbotapi.Update
	require.NoError(t, json.Unmarshal([]byte(`{
		"update_id": 10,
		"message": {"message_id": 3, "from": {"id": 7, "first_name": "A"}, "chat": {"id": 8, "type": "private"}, "text": "/start@TinderBoltBot"}
	}`), &u))
	ev, ok := telegram.EventOf(u)
	require.True(t, ok)
	assert.Equal(t, domain.EventCommand, ev.Kind)
	assert.Equal(t, "start", ev.Command)
	assert.Equal(t, int64(7), ev.UserID)
	assert.Equal(t, int64(8), ev.ChatID)

	require.NoError(t, json.Unmarshal([]byte(`{
		"update_id": 11,
		"callback_query": {"id": "cb1", "from": {"id": 7, "first_name": "A"}, "message": {"message_id": 4, "chat": {"id": 8, "type": "private"}}, "data": "date_hardy"}
	}`), &u))
	ev, ok = telegram.EventOf(u)
	require.True(t, ok)
	assert.Equal(t, domain.EventCallback, ev.Kind)
	assert.Equal(t, "date_hardy", ev.ButtonKey())
	assert.Equal(t, "cb1", ev.CallbackID)

	_, ok = telegram.EventOf(tgbotapi.Update{UpdateID: 12})
	assert.False(t, ok)
}

func TestPoller_Events(t *testing.T) {
	api, c := newBotAPI(t)
	api.respond("getUpdates", `{"ok": true, "result": [
		{"update_id": 1, "message": {"message_id": 1, "from": {"id": 7}, "chat": {"id": 7}, "text": "hello"}},
		{"update_id": 2, "callback_query": {"id": "cb", "from": {"id": 7}, "data": "start"}}
	]}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := telegram.NewPoller(c, telegram.WithPollTimeout(0)).Events(ctx)
	require.NoError(t, err)

	first := <-events
	assert.Equal(t, "hello", first.Text)
	second := <-events
	assert.Equal(t, "start", second.Data)
	// A third event can only come from a second poll.
	third := <-events
	assert.Equal(t, "hello", third.Text)
	cancel()

	var offsets []string
	api.mu.Lock()
	for _, r := range api.requests {
		if r.Method == "getUpdates" {
			offsets = append(offsets, r.Form["offset"])
		}
	}
	api.mu.Unlock()
	require.GreaterOrEqual(t, len(offsets), 2)
	assert.Equal(t, "", offsets[0])
	assert.Equal(t, "3", offsets[1])
	assert.Equal(t, "deleteWebhook", api.methods()[0])
	assert.Contains(t, api.methods(), "answerCallbackQuery")
}

func TestWebhook(t *testing.T) {
	wh := telegram.NewWebhook(nil, "s3cret", nil)
	events, err := wh.Events(context.Background())
	require.NoError(t, err)

	body := `{"update_id": 1, "message": {"message_id": 1, "from": {"id": 7}, "chat": {"id": 7}, "text": "hi"}}`

	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(telegram.SecretHeader, "s3cret")
	rec = httptest.NewRecorder()
	wh.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	ev := <-events
	assert.Equal(t, "hi", ev.Text)
	assert.Equal(t, int64(1), ev.UpdateID)

	req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{"))
	req.Header.Set(telegram.SecretHeader, "s3cret")
	rec = httptest.NewRecorder()
	wh.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
