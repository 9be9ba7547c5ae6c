// Package connection implements the terminal connection manager and command channel.
//
// The Manager:
//   - Owns one TCP socket to the terminal (connect, disconnect, timeout)
//   - Waits for the terminal greeting before reporting Connected
//   - Sends one framed command at a time and accumulates the reply up to the ! sentinel
//   - Races reply completion against socket errors and the command timeout
//   - Moves to Faulted on timeout or socket error; callers reconnect explicitly
package connection
