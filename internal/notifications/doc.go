// Package notifications delivers operator push notifications over ntfy.
// When no topic is configured a noop implementation is returned so callers
// never need to nil-check.
package notifications
