// Package poller implements the quote poller.
//
// The quote poller:
//   - Fetches the last tick of every configured instrument on a fixed interval
//   - Runs requests one at a time, as the terminal connection is half-duplex
//   - Forwards only ticks newer than the last one seen per instrument
//   - Logs failures and keeps polling; reconnecting is left to the owner
package poller
