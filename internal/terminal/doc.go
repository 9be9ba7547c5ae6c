// Package terminal provides the domain operations of the trading terminal on top
// of the connection command channel.
//
// Every operation is one catalogue entry in package protocol: the client
// validates arguments, translates the instrument, sends the command and reads
// the reply fields into a record from package model. Tick and bar history is
// assembled page by page through package history.
package terminal
