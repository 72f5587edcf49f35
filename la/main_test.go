package la

import (
	"io"
	"log"
	"os"
	"testing"

	"github.com/notargets/fvcore/core"
)

func TestMain(m *testing.M) {
	core.Initialize(core.Settings{Threads: 4, DeviceLanes: 3, Logger: log.New(io.Discard, "", 0)})
	code := m.Run()
	core.Finalize()
	os.Exit(code)
}
