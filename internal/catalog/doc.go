// Package catalog persists video metadata in SQLite.
//
// Every uploaded video gets a row created in the pending state. The
// background analysis worker later applies a terminal verdict exactly once;
// ApplyVerdict enforces that transition at the SQL level so no code path can
// move a video out of a terminal state or apply two verdicts to the same row.
package catalog
