// Package analysis runs the out-of-band classification pass over newly
// uploaded videos. Each upload gets at most one background job; the job
// commits its verdict to the catalog before any event is broadcast, so
// connected viewers never observe a state that was not durably stored.
package analysis
