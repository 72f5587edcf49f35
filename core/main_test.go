package core

import (
	"io"
	"log"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// More batches than most test ranges need, so partition edges get exercised
	Initialize(Settings{Threads: 4, DeviceLanes: 3, Logger: log.New(io.Discard, "", 0)})
	code := m.Run()
	Finalize()
	os.Exit(code)
}
