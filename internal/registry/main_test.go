package registry

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	// Keep go test -v output free of log lines.
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}
