package fibbuddy

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultLogger mirrors the teacher allocator's LogLevelInfo default: only
// info-level events (allocator initialization) are emitted, while the
// per-call allocate/split/release lines are debug-level and suppressed.
// Output goes to stderr as human-readable console output rather than raw
// JSON so a demo run reads like the old Debug/Info/Error lines did.
func defaultLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)
}
