package buddhabrot

import (
	"log/slog"
	"math/rand/v2"
)

var (
	// Compile time checks
	_ rand.Source    = (*PCG32)(nil)
	_ slog.LogValuer = Stats{}
	_ slog.LogValuer = Params{}
)
