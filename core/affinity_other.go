//go:build !linux

package core

// Affinity is not supported here, lanes stay locked to their OS thread only
func pinToCPU(cpu int) error {
	return nil
}
