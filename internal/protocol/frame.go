package protocol

import (
	"strconv"
	"strings"
)

// Wire delimiters.
const (
	FieldSep  = "^"
	RecordSep = "$"
	Sentinel  = "!"
)

// DefaultAuthCode is sent when no authorization code is configured.
const DefaultAuthCode = "None"

var (
	delimiterStripper = strings.NewReplacer(FieldSep, "", RecordSep, "", Sentinel, "")
	frameStripper     = strings.NewReplacer(FieldSep, "", Sentinel, "")
)

// Sanitize strips every delimiter character from free text such as order comments.
func Sanitize(s string) string {
	return delimiterStripper.Replace(s)
}

// BuildFrame renders one command as opcode^argc^arg1^...^argN^authCode^!.
// Field separators and sentinels are stripped from arguments so a caller cannot
// break the framing. Record separators are kept: list arguments use them.
func BuildFrame(op Opcode, authCode string, args ...string) string {
	var b strings.Builder
	b.WriteString(string(op))
	b.WriteString(FieldSep)
	b.WriteString(strconv.Itoa(len(args) + 1))
	b.WriteString(FieldSep)
	for _, a := range args {
		b.WriteString(frameStripper.Replace(a))
		b.WriteString(FieldSep)
	}
	b.WriteString(frameStripper.Replace(authCode))
	b.WriteString(FieldSep)
	b.WriteString(Sentinel)
	return b.String()
}

// Complete reports whether buf holds a whole reply.
func Complete(buf string) bool {
	return strings.HasSuffix(buf, Sentinel)
}

// FormatFloat renders a float argument in its shortest exact form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatInt renders an integer argument.
func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// FormatBool renders a boolean argument.
func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}
