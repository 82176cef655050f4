package buddhabrot

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseModes(t *testing.T) {
	for m, name := range colorModeNames {
		got, err := ParseColorMode(strings.ToUpper(name))
		if err != nil || got != m {
			t.Fatalf("ParseColorMode(%q): %v %v", name, got, err)
		}
	}
	for m, name := range pointsModeNames {
		if got, err := ParsePointsMode(name); err != nil || got != m {
			t.Fatalf("ParsePointsMode(%q): %v %v", name, got, err)
		}
	}
	for e, name := range escapeTestNames {
		if got, err := ParseEscapeTest(name); err != nil || got != e {
			t.Fatalf("ParseEscapeTest(%q): %v %v", name, got, err)
		}
	}
	for l, name := range luminanceNames {
		if got, err := ParseLuminanceMode(name); err != nil || got != l {
			t.Fatalf("ParseLuminanceMode(%q): %v %v", name, got, err)
		}
	}

	if _, err := ParseColorMode("rainbow"); !errors.Is(err, ErrUnknownColorMode) {
		t.Fatalf("got %v", err)
	}
	if s := ColorMode(42).String(); s != "ColorMode(42)" {
		t.Fatalf("String: %q", s)
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var out bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	if _, err := SamplesFor(outerParams(8, 8, 10), 1, 100, 1); err != nil {
		t.Fatalf("SamplesFor: %v", err)
	}
	if !strings.Contains(out.String(), "plotted=") {
		t.Fatalf("stats not logged: %q", out.String())
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("default logger must be silent")
	}
}
