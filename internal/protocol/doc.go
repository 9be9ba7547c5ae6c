// Package protocol implements the terminal wire protocol.
//
// Commands are framed as opcode^argc^arg1^...^argN^authCode^! where argc counts
// the arguments plus the authorization code. Replies echo the opcode in the first
// field and end with the ! sentinel:
//
//	F020^7^1718000000^1.08512^1.08505^0^0^7^1718000000123^!
//
// A reply whose first field is not the requested opcode carries an application
// error code in field 3, resolved through the static error table.
//
// Multi-row replies carry one record per field, with record values separated by $.
package protocol
