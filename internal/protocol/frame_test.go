package protocol

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func TestBuildFrame(t *testing.T) {
	tests := []struct {
		name string
		op   Opcode
		auth string
		args []string
		want string
	}{
		{
			name: "no arguments",
			op:   OpCheckConnection,
			auth: "None",
			want: "F000^1^None^!",
		},
		{
			name: "instrument argument",
			op:   OpInstrumentInfo,
			auth: "secret",
			args: []string{"EURUSD.pro"},
			want: "F003^2^EURUSD.pro^secret^!",
		},
		{
			name: "bars page",
			op:   OpBars,
			auth: "None",
			args: []string{"EURUSD", "16385", "2000", "500"},
			want: "F042^5^EURUSD^16385^2000^500^None^!",
		},
		{
			name: "framing characters stripped from arguments",
			op:   OpSetGlobal,
			auth: "None",
			args: []string{"a^b!c", "1.5"},
			want: "F080^3^abc^1.5^None^!",
		},
		{
			name: "record separators kept in list arguments",
			op:   OpSpecificBars,
			auth: "None",
			args: []string{"EURUSD$GBPUSD$", "1", "16408"},
			want: "F045^4^EURUSD$GBPUSD$^1^16408^None^!",
		},
		{
			name: "empty argument kept",
			op:   OpOpenOrder,
			auth: "None",
			args: []string{"EURUSD", "buy", "0.01", "0", "10", "1000", "0", "0", "", "false"},
			want: "F070^11^EURUSD^buy^0.01^0^10^1000^0^0^^false^None^!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFrame(tt.op, tt.auth, tt.args...)
			if got != tt.want {
				t.Errorf("BuildFrame() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFrameShape(t *testing.T) {
	argSets := [][]string{
		nil,
		{"x"},
		{"x", "y"},
		{"EURUSD", "1", "0", "100"},
		{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
	}
	for op := range Catalogue {
		for _, args := range argSets {
			frame := BuildFrame(op, "auth", args...)
			pattern := "^" + string(op) + `\^` + strconv.Itoa(len(args)+1) + `\^(.*\^)?auth\^!$`
			if !regexp.MustCompile(pattern).MatchString(frame) {
				t.Errorf("frame %q does not match %s", frame, pattern)
			}
			fields := strings.Split(strings.TrimSuffix(frame, "^!"), "^")
			if got := len(fields) - 2; got != len(args)+1 {
				t.Errorf("frame %q carries %d values after argc, want %d", frame, got, len(args)+1)
			}
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain comment", "plain comment"},
		{"a^b", "ab"},
		{"$$$", ""},
		{"wow!", "wow"},
		{"^x$y!z^", "xyz"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.01, "0.01"},
		{1.08512, "1.08512"},
		{-1, "-1"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
