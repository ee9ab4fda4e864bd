// Package memory provides in-process implementations of the ports:
// a recording Gateway, map-backed Assets and a windowed Deduplicator.
// They back the MCP surface, local development and tests.
package memory
