// Package notifications pushes job lifecycle events to an ntfy topic. With
// no topic configured the service degrades to a noop, so callers never guard
// their notification calls.
package notifications
