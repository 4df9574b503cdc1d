package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// Init wires the buffer and level once; Get must hand back a logger whose
// level methods chain directly on the return value.
func Test_InitAndGet_Chainable(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})

	Get().Info().Msg("filtered out")
	Get().Error().Str("k", "v").Msg("kept")

	out := buf.String()
	if strings.Contains(out, "filtered out") {
		t.Fatalf("info should be below the warn level, got %q", out)
	}
	if !strings.Contains(out, "kept") || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("error entry missing from output: %q", out)
	}
}

func Test_ParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
