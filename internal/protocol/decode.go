package protocol

import (
	"math"
	"strconv"
	"strings"
)

// Reply is a decoded reply whose opcode matched the request.
type Reply struct {
	Opcode Opcode
	Fields []string // sentinel removed; Fields[0] is the echoed opcode
	Raw    string
}

// Decode splits a complete reply and validates the echoed opcode. A mismatched
// opcode yields a *TerminalError, never a transport error.
func Decode(raw string, want Opcode) (*Reply, error) {
	if !Complete(raw) {
		return nil, &DecodeError{Opcode: want, Index: -1, Value: raw, Reason: "reply not terminated"}
	}

	body := strings.TrimSuffix(raw, Sentinel)
	body = strings.TrimSuffix(body, FieldSep)
	fields := strings.Split(body, FieldSep)

	if fields[0] != string(want) {
		te := &TerminalError{
			Opcode: want,
			Echo:   fields[0],
			Code:   CodeUndefined,
			Raw:    raw,
		}
		if len(fields) > 3 && fields[3] != "" {
			te.Code = fields[3]
		}
		if len(fields) > 4 {
			te.OrderError = fields[4]
		}
		te.Message = ErrorText(te.Code)
		return nil, te
	}

	return &Reply{Opcode: want, Fields: fields, Raw: raw}, nil
}

// Len returns the number of fields, opcode included.
func (r *Reply) Len() int { return len(r.Fields) }

// Field returns field i or "" when the reply is shorter.
func (r *Reply) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Require fails when the reply carries fewer than n fields.
func (r *Reply) Require(n int) error {
	if len(r.Fields) < n {
		return &DecodeError{
			Opcode: r.Opcode,
			Index:  len(r.Fields),
			Value:  r.Raw,
			Reason: "expected " + strconv.Itoa(n) + " fields",
		}
	}
	return nil
}

// Reader returns a positional reader starting at field from.
func (r *Reply) Reader(from int) *FieldReader {
	var fields []string
	if from < len(r.Fields) {
		fields = r.Fields[from:]
	}
	return &FieldReader{op: r.Opcode, fields: fields, base: from}
}

// Rows returns one reader per record. Records start at field 2; field 1 holds
// the row count. Empty fields are skipped.
func (r *Reply) Rows() []*FieldReader {
	if len(r.Fields) <= 2 {
		return nil
	}
	rows := make([]*FieldReader, 0, len(r.Fields)-2)
	for _, f := range r.Fields[2:] {
		if f == "" {
			continue
		}
		rows = append(rows, &FieldReader{op: r.Opcode, fields: strings.Split(f, RecordSep)})
	}
	return rows
}

// Values returns the raw fields from field 2 on, skipping empty ones.
func (r *Reply) Values() []string {
	if len(r.Fields) <= 2 {
		return nil
	}
	out := make([]string, 0, len(r.Fields)-2)
	for _, f := range r.Fields[2:] {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// FieldReader reads typed values positionally. The first failure sticks: later
// reads return zero values and Err reports the original failure.
type FieldReader struct {
	op     Opcode
	fields []string
	base   int
	pos    int
	err    error
}

// NewFieldReader returns a reader over fields.
func NewFieldReader(op Opcode, fields []string) *FieldReader {
	return &FieldReader{op: op, fields: fields}
}

func (r *FieldReader) next() (string, bool) {
	if r.err != nil {
		return "", false
	}
	if r.pos >= len(r.fields) {
		r.err = &DecodeError{Opcode: r.op, Index: r.base + r.pos, Reason: "missing field"}
		return "", false
	}
	v := r.fields[r.pos]
	r.pos++
	return v, true
}

func (r *FieldReader) fail(v, reason string) {
	r.err = &DecodeError{Opcode: r.op, Index: r.base + r.pos - 1, Value: v, Reason: reason}
}

// String reads a text field.
func (r *FieldReader) String() string {
	v, _ := r.next()
	return v
}

// Int reads an integer field. Integral values rendered with a fraction are accepted.
func (r *FieldReader) Int() int64 {
	v, ok := r.next()
	if !ok {
		return 0
	}
	s := strings.TrimSpace(v)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// Some terminals render integers as floats ("150.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		r.fail(v, "not an integer")
		return 0
	}
	return int64(f)
}

// Float reads a floating point field.
func (r *FieldReader) Float() float64 {
	v, ok := r.next()
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		r.fail(v, "not a number")
		return 0
	}
	return f
}

// Bool reads a boolean field rendered as true/false or 1/0.
func (r *FieldReader) Bool() bool {
	v, ok := r.next()
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	r.fail(v, "not a boolean")
	return false
}

// Skip advances past n fields.
func (r *FieldReader) Skip(n int) {
	for i := 0; i < n; i++ {
		if _, ok := r.next(); !ok {
			return
		}
	}
}

// Remaining returns the number of unread fields.
func (r *FieldReader) Remaining() int {
	return len(r.fields) - r.pos
}

// Err returns the first failure.
func (r *FieldReader) Err() error {
	return r.err
}
