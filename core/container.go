package core

import (
	"fmt"
)

// Container owns a contiguous buffer on one executor. Memory is released with
// Free, usually deferred right after construction. Containers never share
// memory, a transfer between executors is always a copy.
type Container[T any] struct {
	exec Executor
	data []T
}

func NewContainer[T any](exec Executor, n int) *Container[T] {
	return &Container[T]{exec: exec, data: Allocate[T](exec, n)}
}

func NewContainerWith[T any](exec Executor, n int, value T) (c *Container[T]) {
	c = NewContainer[T](exec, n)
	Fill(c, value)
	return
}

// NewContainerFromHost copies a host slice into a new container on exec
func NewContainerFromHost[T any](exec Executor, host []T) (c *Container[T]) {
	c = NewContainer[T](exec, len(host))
	copyBuffer(exec, c.data, SerialExecutor{}, host)
	return
}

func (c *Container[T]) Exec() Executor { return c.exec }

func (c *Container[T]) Len() int { return len(c.data) }

func (c *Container[T]) Empty() bool { return len(c.data) == 0 }

// View returns a view using the runtime's default bounds policy
func (c *Container[T]) View() View[T] {
	return c.ViewWith(current().Bounds)
}

// ViewWith returns a view with an explicit bounds policy. Accelerator kernels
// cannot report back to the host, Record is promoted to Abort there.
func (c *Container[T]) ViewWith(policy BoundsPolicy) View[T] {
	if policy == Record && !IsHost(c.exec) {
		policy = Abort
	}
	return NewView(c.data, policy)
}

// HostSlice exposes the buffer of a host container after fencing its executor
func (c *Container[T]) HostSlice() []T {
	if !IsHost(c.exec) {
		panic(fmt.Sprintf("container on %s is not host accessible, use CopyToHost", c.exec.Name()))
	}
	Fence(c.exec)
	return c.data
}

// Copy returns an independent deep copy on the same executor
func (c *Container[T]) Copy() (out *Container[T]) {
	out = NewContainer[T](c.exec, len(c.data))
	copyBuffer(c.exec, out.data, c.exec, c.data)
	return
}

// Move transfers the buffer to a new container and leaves c empty
func (c *Container[T]) Move() (out *Container[T]) {
	out = &Container[T]{exec: c.exec, data: c.data}
	c.data = nil
	return
}

// Assign replaces the contents of c with a copy of src. Lengths must agree,
// executors may differ.
func (c *Container[T]) Assign(src *Container[T]) {
	copyBuffer(c.exec, c.data, src.exec, src.data)
}

// Resize changes the length to n, preserving the common prefix
func (c *Container[T]) Resize(n int) {
	if len(c.data) == n && c.data != nil {
		return
	}
	if c.data == nil {
		c.data = Allocate[T](c.exec, n)
		return
	}
	c.data = Reallocate(c.exec, c.data, n)
}

// Free releases the buffer, it is safe to call more than once
func (c *Container[T]) Free() {
	if c.data == nil {
		return
	}
	Free(c.exec, c.data)
	c.data = nil
}

// CopyToExecutor returns an independent copy of c on dst
func (c *Container[T]) CopyToExecutor(dst Executor) (out *Container[T]) {
	out = NewContainer[T](dst, len(c.data))
	copyBuffer(dst, out.data, c.exec, c.data)
	return
}

func (c *Container[T]) CopyToHost() *Container[T] {
	return c.CopyToExecutor(SerialExecutor{})
}

func (c *Container[T]) String() string {
	return fmt.Sprintf("Container[%s] len=%d", c.exec.Name(), len(c.data))
}
