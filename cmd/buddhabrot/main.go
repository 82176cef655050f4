package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"

	"github.com/lukaszgryglicki/buddhabrot/internal/buddhabrot"
)

func main() {
	var (
		prof = flag.String("profile", "", "profile mode: cpu, mem, trace (PROFILE env selects cpu)")
		dir  = flag.String("profile-dir", ".", "directory for profile output")
	)
	flag.Parse()

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	buddhabrot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	mode := *prof
	if mode == "" && os.Getenv("PROFILE") != "" {
		mode = "cpu"
	}
	// os.Exit skips deferred calls, so the profile is stopped by hand
	stopper, err := startProfile(mode, *dir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg := "configs/config.json"
	if flag.NArg() > 0 {
		cfg = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = buddhabrot.Run(ctx, cfg)
	stop()
	if stopper != nil {
		stopper.Stop()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// startProfile starts the profiler selected by mode, writing into dir.
// An empty mode returns a nil stopper.
func startProfile(mode, dir string) (interface{ Stop() }, error) {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return nil, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	case "trace":
		kind = profile.TraceProfile
	default:
		return nil, fmt.Errorf("unknown profile mode %q", mode)
	}
	return profile.Start(kind, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook), nil
}
