package protocol

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		in      string
		want    Timeframe
		wantErr bool
	}{
		{in: "M1", want: 1},
		{in: "m15", want: 15},
		{in: "H1", want: 16385},
		{in: "H4", want: 16388},
		{in: "D1", want: 16408},
		{in: "W1", want: 32769},
		{in: "MN1", want: 49153},
		{in: "M7", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeframe(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeframe) {
					t.Errorf("ParseTimeframe(%q) error = %v, want ErrInvalidTimeframe", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeframe(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeframe(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeframeValid(t *testing.T) {
	if !H1.Valid() || !MN1.Valid() {
		t.Error("expected known timeframes to be valid")
	}
	if Timeframe(7).Valid() {
		t.Error("expected 7 to be invalid")
	}
	if H1.String() != "H1" || H1.Arg() != "16385" {
		t.Errorf("H1 = %s / %s", H1.String(), H1.Arg())
	}
}

func TestFormatWindowTime(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	if got := FormatWindowTime(ts); got != "2024/2/5/14/7/9" {
		t.Errorf("FormatWindowTime() = %q, want %q", got, "2024/2/5/14/7/9")
	}
}

func TestParseServerTime(t *testing.T) {
	got, err := ParseServerTime("2024-3-5-14-7-9", time.UTC)
	if err != nil {
		t.Fatalf("ParseServerTime failed: %v", err)
	}
	want := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseServerTime() = %v, want %v", got, want)
	}

	if _, err := ParseServerTime("2024-03-05", time.UTC); !errors.Is(err, ErrDecode) {
		t.Errorf("short date error = %v, want ErrDecode", err)
	}
}
