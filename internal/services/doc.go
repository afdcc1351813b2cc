// Package services implements the HTTP client for the remote reading service.
//
// # Service Interface
//
// The reading provider is consumed through the [Service] abstraction so the
// TUI, CLI runner, and stream session depend on behavior rather than on a
// concrete HTTP client.
//
// # Oracle Implementation
//
// [OracleService] talks to the reading backend's REST and streaming
// endpoints. Authentication is a static bearer token injected through an
// [oauth2] client; the gateway in front of the backend additionally expects
// browser-session headers, which users capture with "Copy as cURL" and the
// client replays from the configured headers file on every request.
//
// Catalogue fetches are paginated and rate limited with a token bucket; the
// stream request intentionally bypasses the limiter and any client timeout
// because the response body stays open for the life of the reading.
//
// # Raw API Access
//
// [APIService] exposes plain GET/POST against the backend for the `arcana
// api` debugging commands, returning status, headers, and a best-effort JSON
// decode of the body.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : HTTP request failed or returned non-2xx
//   - [shared.ErrDeckEmpty] : catalogue fetch returned no cards
//   - [shared.ErrServiceUnavailable] : client not configured
package services
