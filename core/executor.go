package core

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	Serial Kind = iota
	Multicore
	Accelerator
)

func (k Kind) String() string {
	return [...]string{"Serial", "Multicore", "Accelerator"}[k]
}

// Executor identifies where memory lives and where kernels run. The set of
// executors is closed: SerialExecutor, CPUExecutor and GPUExecutor. Executors
// carry no state, two executors are equal when their kinds are equal.
type Executor interface {
	Kind() Kind
	Name() string
	isExecutor()
}

// SerialExecutor runs kernels on the calling goroutine in ascending index order
type SerialExecutor struct{}

// CPUExecutor splits kernels over Settings.Threads goroutines, no ordering is implied
type CPUExecutor struct{}

// GPUExecutor is the accelerator backend. Launches are queued on the device
// stream and complete asynchronously, Fence blocks until they are done.
type GPUExecutor struct{}

func (SerialExecutor) Kind() Kind   { return Serial }
func (SerialExecutor) Name() string { return "SerialExecutor" }
func (SerialExecutor) isExecutor()  {}

func (CPUExecutor) Kind() Kind   { return Multicore }
func (CPUExecutor) Name() string { return "CPUExecutor" }
func (CPUExecutor) isExecutor()  {}

func (GPUExecutor) Kind() Kind   { return Accelerator }
func (GPUExecutor) Name() string { return "GPUExecutor" }
func (GPUExecutor) isExecutor()  {}

// Executors lists one executor of each kind, in Kind order
func Executors() []Executor {
	return []Executor{SerialExecutor{}, CPUExecutor{}, GPUExecutor{}}
}

func SameExecutor(a, b Executor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind() == b.Kind()
}

// IsHost reports whether memory owned by exec can be read directly by the host
func IsHost(exec Executor) bool {
	switch exec.(type) {
	case SerialExecutor, CPUExecutor:
		return true
	case GPUExecutor:
		return false
	default:
		unknownExecutor(exec)
	}
	return false
}

// Ordered reports whether exec runs the indices of a dispatch one at a time in
// ascending order
func Ordered(exec Executor) bool {
	switch exec.(type) {
	case SerialExecutor:
		return true
	case CPUExecutor, GPUExecutor:
		return false
	default:
		unknownExecutor(exec)
	}
	return false
}

func ParseExecutor(name string) (exec Executor, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "serial", "serialexecutor":
		exec = SerialExecutor{}
	case "multicore", "cpu", "cpuexecutor":
		exec = CPUExecutor{}
	case "accelerator", "gpu", "gpuexecutor":
		exec = GPUExecutor{}
	default:
		err = fmt.Errorf("unknown executor %q, must be one of serial, multicore or accelerator", name)
	}
	return
}

// Fence blocks until all work previously launched on exec has completed.
// Host executors are synchronous so this returns immediately for them.
func Fence(exec Executor) {
	switch exec.(type) {
	case SerialExecutor, CPUExecutor:
	case GPUExecutor:
		if d := activeDevice.Load(); d != nil {
			d.fence()
		}
	default:
		unknownExecutor(exec)
	}
}

func unknownExecutor(exec Executor) {
	panic(fmt.Sprintf("unknown executor type %T", exec))
}

func assertSameExecutor(what string, a, b Executor) {
	if !SameExecutor(a, b) {
		panic(fmt.Sprintf("%s: executors do not match, %s != %s", what, a.Name(), b.Name()))
	}
}
