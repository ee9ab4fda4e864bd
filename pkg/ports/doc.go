/*
Package ports defines the driven ports (interfaces) of the dialog engine.

These interfaces decouple the router from the messaging gateway, the external
conversation service and the static asset source, so the core can run against
Telegram, a local console, an MCP client or test fakes.

# Key Interfaces

  - Gateway: outbound delivery (send, photo, edit) and per-chat command menus.
  - EventSource: inbound delivery of normalized events (long-polling or webhook).
  - Completer: turns an ordered list of turns into one assistant turn.
  - AssetLoader: prompt, message and image lookup by asset key.
  - DistributedLocker: cross-replica serialization of one user's session.
  - Deduplicator: guards against redelivered updates.
*/
package ports
