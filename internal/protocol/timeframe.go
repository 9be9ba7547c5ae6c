package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timeframe is a bar period in the terminal's numeric encoding.
type Timeframe int

// Timeframes supported by the terminal.
const (
	M1  Timeframe = 1
	M2  Timeframe = 2
	M3  Timeframe = 3
	M4  Timeframe = 4
	M5  Timeframe = 5
	M6  Timeframe = 6
	M10 Timeframe = 10
	M12 Timeframe = 12
	M15 Timeframe = 15
	M20 Timeframe = 20
	M30 Timeframe = 30
	H1  Timeframe = 16385
	H2  Timeframe = 16386
	H3  Timeframe = 16387
	H4  Timeframe = 16388
	H6  Timeframe = 16390
	H8  Timeframe = 16392
	H12 Timeframe = 16396
	D1  Timeframe = 16408
	W1  Timeframe = 32769
	MN1 Timeframe = 49153
)

var timeframes = map[string]Timeframe{
	"MN1": MN1, "W1": W1, "D1": D1,
	"H12": H12, "H8": H8, "H6": H6, "H4": H4, "H3": H3, "H2": H2, "H1": H1,
	"M30": M30, "M20": M20, "M15": M15, "M12": M12, "M10": M10,
	"M6": M6, "M5": M5, "M4": M4, "M3": M3, "M2": M2, "M1": M1,
}

// ParseTimeframe resolves a name such as "H1" (case-insensitive).
func ParseTimeframe(name string) (Timeframe, error) {
	tf, ok := timeframes[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, name)
	}
	return tf, nil
}

// Valid reports whether tf is one of the terminal's timeframes.
func (tf Timeframe) Valid() bool {
	for _, v := range timeframes {
		if v == tf {
			return true
		}
	}
	return false
}

// String returns the timeframe name, or its number when unknown.
func (tf Timeframe) String() string {
	for name, v := range timeframes {
		if v == tf {
			return name
		}
	}
	return strconv.Itoa(int(tf))
}

// Arg renders tf as a command argument.
func (tf Timeframe) Arg() string {
	return strconv.Itoa(int(tf))
}

// FormatWindowTime renders a window bound as Y/M/D/h/m/s. The terminal expects a
// zero-based month (January is 0).
func FormatWindowTime(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d/%d/%d/%d",
		t.Year(), int(t.Month())-1, t.Day(), t.Hour(), t.Minute(), t.Second())
}

// ParseServerTime parses the Y-M-D-h-m-s form used by server time replies.
// The month is calendar based here.
func ParseServerTime(s string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 6 {
		return time.Time{}, &DecodeError{Opcode: OpServerTime, Index: 2, Value: s, Reason: "expected Y-M-D-h-m-s"}
	}
	var n [6]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, &DecodeError{Opcode: OpServerTime, Index: 2, Value: s, Reason: "not a date"}
		}
		n[i] = v
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, loc), nil
}
