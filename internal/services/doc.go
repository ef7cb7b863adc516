// Package services provides the shared error taxonomy and context plumbing
// used by every pipeline stage that talks to an external engine.
//
// Errors are tagged with sentinel markers so that retry loops and the
// narration circuit breaker can classify failures without inspecting
// engine-specific types. Classification also falls back to scanning the
// error text for well-known API signals (HTTP status codes, Google API
// status names) because the upstream SDKs surface those only as strings.
package services
