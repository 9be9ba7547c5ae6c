package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is returned when a reply field cannot be converted.
	ErrDecode = errors.New("decode error")

	// ErrInvalidTimeframe is returned for a timeframe missing from the timeframe table.
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// Error codes with a fixed role in the client.
const (
	CodeCheckConnection = "00001"
	CodeHandshake       = "00103"
	CodeWrongAuth       = "99900"
	CodeUndefined       = "99901"
)

// TerminalError is an application failure reported by the terminal: the reply did
// not echo the requested opcode and instead carried an error code.
type TerminalError struct {
	Opcode     Opcode // requested opcode
	Echo       string // first field of the reply
	Code       string // error table code, CodeUndefined when absent
	OrderError string // terminal-side order error number, if reported
	Message    string
	Raw        string
}

func (e *TerminalError) Error() string {
	if e.OrderError != "" {
		return fmt.Sprintf("terminal error %s on %s: %s (order error %s)", e.Code, e.Opcode, e.Message, e.OrderError)
	}
	return fmt.Sprintf("terminal error %s on %s: %s", e.Code, e.Opcode, e.Message)
}

// DecodeError reports a reply field that does not match its declared type.
type DecodeError struct {
	Opcode Opcode
	Index  int
	Value  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s field %d %q: %s", e.Opcode, e.Index, e.Value, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// ErrorText returns the message for a terminal error code. Unknown codes map to
// the generic undefined error text.
func ErrorText(code string) string {
	if msg, ok := errorTable[code]; ok {
		return msg
	}
	return errorTable[CodeUndefined]
}

var errorTable = map[string]string{
	"00001": "Undefined check connection error",

	"00101": "IP address error",
	"00102": "Port number error",
	"00103": "Connection error with license EA",
	"00104": "Undefined answer from license EA",

	"00301": "Unknown instrument for broker",
	"00302": "Instrument not in demo",
	"00304": "Unknown instrument for broker",

	"00401": "Instrument not in demo",
	"00402": "Instrument not exists for broker",

	"00501": "No instrument defined/configured",

	"01101": "Undefined check terminal connection error",
	"01201": "Undefined check MT type error",

	"02001": "Instrument not in demo",
	"02002": "Unknown instrument for broker",
	"02003": "Unknown instrument for broker",
	"02004": "Time out error",

	"04101": "Instrument not in demo",
	"04102": "Wrong/unknown time frame",
	"04103": "No records",
	"04104": "Undefined error",
	"04105": "Unknown instrument for broker",

	"04201": "Instrument not in demo",
	"04202": "Wrong/unknown time frame",
	"04204": "Unknown instrument for broker",

	"04501": "Instrument not in demo",
	"04502": "Wrong/unknown time frame",
	"04503": "No records",
	"04504": "Missing market instrument",

	"06201": "Wrong time window",
	"06401": "Wrong time window",

	"07001": "Trading not allowed, check MT terminal settings",
	"07002": "Instrument not in demo",
	"07003": "Instrument not in market watch",
	"07004": "Instrument not known at broker",
	"07005": "Unknown order type",
	"07006": "Wrong SL value",
	"07007": "Wrong TP value",
	"07008": "Wrong volume value",
	"07009": "Error opening / placing order",

	"07101": "Trading not allowed",
	"07102": "Position not found/error",

	"07201": "Trading not allowed",
	"07202": "Position not found/error",
	"07203": "Wrong volume",
	"07204": "Error in partial close",

	"07301": "Trading not allowed",
	"07302": "Error in delete",

	"07401": "Trading not allowed, check MT terminal settings",
	"07402": "Error check number",
	"07403": "Position does not exist",
	"07404": "Opposite position does not exist",
	"07405": "Both position of same type",

	"07501": "Trading not allowed",
	"07502": "Position not open",
	"07503": "Error in modify",

	"07601": "Trading not allowed",
	"07602": "Position not open",
	"07603": "Error in modify",

	"07701": "Trading not allowed",
	"07702": "Position not open",
	"07703": "Error in modify",

	"07801": "Trading not allowed",
	"07802": "Position not open",
	"07803": "Error in modify",

	"07901": "Trading not allowed",
	"07902": "Instrument not in demo",
	"07903": "Order does not exist",
	"07904": "Wrong order type",
	"07905": "Wrong price",
	"07906": "Wrong TP value",
	"07907": "Wrong SL value",
	"07908": "Check error code",
	"07909": "Something wrong",

	"08101": "Unknown global variable",

	"08201": "Log file not existing",
	"08202": "Log file empty",
	"08203": "Error in reading log file",
	"08204": "Function not implemented",

	"09101": "Trading not allowed",
	"09102": "Unknown instrument for broker",
	"09103": "Function not implemented",

	"99900": "Wrong authorizaton code",
	"99901": "Undefined error",
	"99999": "Dummy",
}
