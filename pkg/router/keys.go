package router

import (
	"fmt"

	"github.com/aretw0/tinderbolt/pkg/domain"
)

// Command tokens recognized in any mode.
const (
	CmdStart   = "start"
	CmdGpt     = "gpt"
	CmdDate    = "date"
	CmdMessage = "message"
	CmdProfile = "profile"
	CmdOpener  = "opener"
)

// Button key prefixes of the modes that accept button presses.
const (
	DatePrefix    = "date_"
	MessagePrefix = "message_"
)

// Button keys of Message mode. They double as prompt keys.
const (
	KeyMessageNext = "message_next"
	KeyMessageDate = "message_date"
)

// Asset keys shared by several handlers.
const (
	KeyMain           = "main"
	KeyThinking       = "thinking"
	KeyDateTyping     = "date_typing"
	KeyDateScenario   = "date_scenario"
	KeyExchangeFailed = "exchange_failed"
)

// MainMenu is the interleaved description/command list registered on /start.
var MainMenu = []string{
	"main menu", "/start",
	"generate a dating profile 😎", "/profile",
	"opening message for a match 🥰", "/opener",
	"chat on your behalf 😈", "/message",
	"date a celebrity 🔥", "/date",
	"ask ChatGPT 🧠", "/gpt",
}

// Personas is the interleaved label/key list of the Date mode picker.
// Each key names a prompt and an image asset.
var Personas = []string{
	"Ariana Grande", "date_grande",
	"Margot Robbie", "date_robbie",
	"Zendaya", "date_zendaya",
	"Ryan Gosling", "date_gosling",
	"Tom Hardy", "date_hardy",
}

// MessageButtons is the interleaved label/key list shown on /message.
var MessageButtons = []string{
	"Next message", KeyMessageNext,
	"Invite on a date", KeyMessageDate,
}

// FallbackButtons is the generic two-button prompt of unmatched input.
var FallbackButtons = []string{
	"Start", "start",
	"Stop", "stop",
}

// questionKey names the message asset of an interview question.
func questionKey(prefix string, step int) string {
	return fmt.Sprintf("%s_q%d", prefix, step)
}

// Required lists every asset key the router can ask for.
type Required struct {
	Prompts  []string
	Messages []string
	Images   []string
}

// RequiredAssets returns the keys that must resolve for the router to run.
// A deployment validates them at startup; a missing one is a configuration error.
func RequiredAssets() Required {
	req := Required{
		Prompts: []string{CmdGpt, CmdProfile, CmdOpener, KeyMessageNext, KeyMessageDate},
		Messages: []string{
			KeyMain, CmdGpt, CmdDate, CmdMessage,
			KeyThinking, KeyDateTyping, KeyDateScenario, KeyExchangeFailed,
		},
		Images: []string{KeyMain, CmdGpt, CmdDate, CmdMessage, CmdProfile, CmdOpener},
	}
	for i := 1; i < len(Personas); i += 2 {
		req.Prompts = append(req.Prompts, Personas[i])
		req.Images = append(req.Images, Personas[i])
	}
	for _, prefix := range []string{CmdProfile, CmdOpener} {
		for step := 1; step <= domain.InterviewSteps; step++ {
			req.Messages = append(req.Messages, questionKey(prefix, step))
		}
	}
	return req
}
