/*
Package tinderbolt is a multi-session dialog engine for a dating-assistant chat bot.

Each user of the bot owns one session holding a dialog mode (free chat, a date
simulation with a persona, reply suggestions for a transcript, or one of two five-step
interviews) and the exchange history with an external conversation service. Inbound
events are routed by command, then by the current mode, then to a fallback echo.

# Architecture

The engine is hexagonal: the router only talks to driven ports (ports.Gateway for the
messenger, ports.Completer for the conversation service, ports.AssetLoader for texts and
images). Adapters for Telegram, OpenAI, Anthropic, Redis and an in-memory gateway live
under pkg/adapters.

Each user is pinned to one worker of a bounded pool, so the events of one user are
handled in arrival order while different users run concurrently.

# Usage

	bot, err := tinderbolt.New(gateway, completer)
	if err != nil {
		log.Fatal(err)
	}

	// Telegram long polling; any ports.EventSource works.
	if err := bot.Run(ctx, telegram.NewPoller(client)); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
*/
package tinderbolt
