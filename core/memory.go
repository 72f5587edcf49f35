package core

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

var bytesInUse [3]atomic.Int64

// Allocate returns n zeroed elements owned by exec
func Allocate[T any](exec Executor, n int) []T {
	if n < 0 {
		panic(fmt.Sprintf("negative allocation size %d on %s", n, exec.Name()))
	}
	switch exec.(type) {
	case SerialExecutor, CPUExecutor:
	case GPUExecutor:
		acceleratorDevice()
	default:
		unknownExecutor(exec)
	}
	buf := make([]T, n)
	bytesInUse[exec.Kind()].Add(sizeOf[T](n))
	return buf
}

// Reallocate resizes buf to n elements. The first min(len(buf), n) elements are
// preserved, anything beyond that is unspecified.
func Reallocate[T any](exec Executor, buf []T, n int) []T {
	Fence(exec)
	out := Allocate[T](exec, n)
	copy(out, buf)
	Free(exec, buf)
	return out
}

// Free releases buf, which must have been allocated by exec
func Free[T any](exec Executor, buf []T) {
	if buf == nil {
		return
	}
	switch exec.(type) {
	case SerialExecutor, CPUExecutor:
	case GPUExecutor:
		// kernels in flight may still reference buf
		Fence(exec)
	default:
		unknownExecutor(exec)
	}
	bytesInUse[exec.Kind()].Add(-sizeOf[T](len(buf)))
}

// MemoryInUse returns the bytes currently allocated on executors of kind k
func MemoryInUse(k Kind) int64 {
	return bytesInUse[k].Load()
}

// copyBuffer copies src (owned by srcExec) into dst (owned by dstExec)
func copyBuffer[T any](dstExec Executor, dst []T, srcExec Executor, src []T) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("copy size mismatch, %d != %d", len(dst), len(src)))
	}
	Fence(srcExec)
	Fence(dstExec)
	copy(dst, src)
}

func sizeOf[T any](n int) int64 {
	var zero T
	return int64(unsafe.Sizeof(zero)) * int64(n)
}
