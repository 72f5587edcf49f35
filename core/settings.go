package core

import (
	"log"
	"os"
	"runtime"
	"sync/atomic"
)

// Settings configure the runtime. The zero value of a field selects its default.
type Settings struct {
	Threads     int // Batches used by the multicore executor, default GOMAXPROCS
	DeviceLanes int // Lanes of the emulated accelerator, default GOMAXPROCS
	PinLanes    bool
	Bounds      BoundsPolicy // Default policy of views created from containers
	Logger      *log.Logger
}

var settings atomic.Pointer[Settings]

func DefaultSettings() Settings {
	return Settings{
		Threads:     runtime.GOMAXPROCS(0),
		DeviceLanes: runtime.GOMAXPROCS(0),
		Bounds:      Unchecked,
		Logger:      log.New(os.Stderr, "fvcore: ", log.LstdFlags),
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.Threads <= 0 {
		s.Threads = def.Threads
	}
	if s.DeviceLanes <= 0 {
		s.DeviceLanes = def.DeviceLanes
	}
	if s.Logger == nil {
		s.Logger = def.Logger
	}
	return s
}

// Initialize installs the runtime settings. A running accelerator stream is
// drained and restarted so that a new lane count takes effect.
func Initialize(s Settings) {
	s = s.withDefaults()
	settings.Store(&s)
	stopDevice()
	s.Logger.Printf("initialized: threads=%d lanes=%d pin=%v bounds=%s",
		s.Threads, s.DeviceLanes, s.PinLanes, s.Bounds)
}

// Finalize drains and stops the accelerator stream and restores defaults
func Finalize() {
	stopDevice()
	s := current()
	settings.Store(nil)
	s.Logger.Printf("finalized")
}

func CurrentSettings() Settings {
	return *current()
}

func current() *Settings {
	if s := settings.Load(); s != nil {
		return s
	}
	s := DefaultSettings()
	settings.CompareAndSwap(nil, &s)
	return settings.Load()
}
