package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainer(t *testing.T) {
	for _, exec := range Executors() {
		t.Run(exec.Name(), func(t *testing.T) {
			before := MemoryInUse(exec.Kind())
			{ // Allocation is accounted to the owning executor and released by Free
				c := NewContainerWith[float64](exec, 100, 2.5)
				assert.Equal(t, before+800, MemoryInUse(exec.Kind()))
				assert.Equal(t, 250., Sum(c))
				c.Free()
				c.Free()
				assert.Equal(t, before, MemoryInUse(exec.Kind()))
				assert.True(t, c.Empty())
			}
			{ // Copy is deep
				a := NewContainerFromHost(exec, []int32{1, 2, 3})
				b := a.Copy()
				bv := b.View()
				ParallelFor(exec, 0, 1, func(i int) { bv.Set(0, 42) })
				ha, hb := a.CopyToHost(), b.CopyToHost()
				assert.Equal(t, []int32{1, 2, 3}, ha.HostSlice())
				assert.Equal(t, []int32{42, 2, 3}, hb.HostSlice())
				ha.Free()
				hb.Free()
				a.Free()
				b.Free()
			}
			{ // Move leaves the source empty
				a := NewContainerWith[int32](exec, 10, 7)
				b := a.Move()
				assert.Equal(t, 0, a.Len())
				assert.Equal(t, 10, b.Len())
				assert.Equal(t, int32(70), Sum(b))
				a.Free()
				b.Free()
			}
			{ // Resize preserves the prefix
				c := NewContainerFromHost(exec, []int64{1, 2, 3, 4})
				c.Resize(6)
				assert.Equal(t, 6, c.Len())
				h := c.CopyToHost()
				assert.Equal(t, []int64{1, 2, 3, 4}, h.HostSlice()[:4])
				h.Free()
				c.Resize(2)
				assert.Equal(t, int64(3), Sum(c))
				c.Free()
				c.Resize(3)
				assert.Equal(t, 3, c.Len())
				c.Free()
			}
			{ // Map and Equal
				a := NewContainer[int](exec, 50)
				b := NewContainer[int](exec, 50)
				Map(a, func(i int) int { return i * i })
				Map(b, func(i int) int { return i * i })
				assert.True(t, Equal(a, b))
				Fill(b, 1)
				assert.False(t, Equal(a, b))
				a.Free()
				b.Free()
			}
			assert.Equal(t, before, MemoryInUse(exec.Kind()))
		})
	}
	{ // Round trip through every executor preserves values
		host := []float64{3.5, -1, 0, 1e-12, 42}
		c := NewContainerFromHost(SerialExecutor{}, host)
		for _, exec := range Executors() {
			next := c.CopyToExecutor(exec)
			c.Free()
			c = next
		}
		back := c.CopyToHost()
		assert.Equal(t, host, back.HostSlice())
		assert.NotSame(t, &host[0], &back.HostSlice()[0])
		back.Free()
		c.Free()
	}
	{ // Assign copies across executors
		dst := NewContainer[int32](GPUExecutor{}, 3)
		src := NewContainerFromHost(CPUExecutor{}, []int32{4, 5, 6})
		dst.Assign(src)
		assert.True(t, Equal(dst, src))
		assert.Panics(t, func() { dst.HostSlice() })
		dst.Free()
		src.Free()
	}
}
