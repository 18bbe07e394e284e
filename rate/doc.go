// Package rate implements fixed-window admission counters over the shared
// TTL store. Counters are keyed by (operation, identity); the window TTL is
// applied only when the first event creates the counter, so boundary bursts
// across adjacent windows are accepted behavior.
package rate
