// Package stream implements HTTP partial-content semantics for stored
// media objects: parsing and validating Range headers against a known
// object length, and writing bounded 200/206 responses without buffering
// whole objects in memory.
package stream
