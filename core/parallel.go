package core

import (
	"sync"

	"github.com/exascience/pargo/parallel"
)

// Number is the set of element types that can be summed and scanned
type Number interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Scalar is the set of matrix value types
type Scalar interface {
	~float32 | ~float64
}

// ParallelFor calls kernel(i) exactly once for every i in [begin, end).
// Only the serial executor orders the calls. On the accelerator the launch is
// asynchronous, use Fence before reading results on the host. Kernels must not
// launch work or fence themselves.
func ParallelFor(exec Executor, begin, end int, kernel func(i int)) {
	if end <= begin {
		return
	}
	switch exec.(type) {
	case SerialExecutor:
		for i := begin; i < end; i++ {
			kernel(i)
		}
	case CPUExecutor:
		parallel.Range(begin, end, degree(exec, end-begin), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				kernel(i)
			}
		})
	case GPUExecutor:
		acceleratorDevice().enqueue(begin, end, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				kernel(i)
			}
		})
	default:
		unknownExecutor(exec)
	}
}

// ParallelReduce folds kernel contributions over [begin, end) into a single
// value. Each batch accumulates into its own copy of r.Identity(), batches are
// joined on the host in batch order so the result is reproducible for a given
// runtime configuration. The call is synchronous on every executor.
func ParallelReduce[T any](exec Executor, begin, end int, kernel func(i int, acc *T), r Reducer[T]) (result T) {
	result = r.Identity()
	if end <= begin {
		return
	}
	switch exec.(type) {
	case SerialExecutor:
		for i := begin; i < end; i++ {
			kernel(i, &result)
		}
	case CPUExecutor, GPUExecutor:
		var (
			pm      = NewPartitionMap(degree(exec, end-begin), begin, end)
			partial = make([]T, pm.ParallelDegree)
		)
		runPartitions(exec, pm, func(np int) {
			acc := r.Identity()
			lo, hi := pm.GetBucketRange(np)
			for i := lo; i < hi; i++ {
				kernel(i, &acc)
			}
			partial[np] = acc
		})
		for np := range partial {
			result = r.Join(result, partial[np])
		}
	default:
		unknownExecutor(exec)
	}
	return
}

// ParallelScan performs an exclusive prefix scan over [begin, end). The kernel
// is called with final=false while batch totals are collected and with
// final=true in the pass that produces results. On entry *update holds the sum
// of the contributions of all indices below i, in index order, regardless of
// executor. The kernel adds its own contribution to *update. The grand total
// is returned.
func ParallelScan[T Number](exec Executor, begin, end int, kernel func(i int, update *T, final bool)) (total T) {
	if end <= begin {
		return
	}
	switch exec.(type) {
	case SerialExecutor:
		for i := begin; i < end; i++ {
			kernel(i, &total, true)
		}
	case CPUExecutor, GPUExecutor:
		var (
			pm     = NewPartitionMap(degree(exec, end-begin), begin, end)
			sums   = make([]T, pm.ParallelDegree)
			starts = make([]T, pm.ParallelDegree)
		)
		runPartitions(exec, pm, func(np int) {
			var acc T
			lo, hi := pm.GetBucketRange(np)
			for i := lo; i < hi; i++ {
				kernel(i, &acc, false)
			}
			sums[np] = acc
		})
		for np := range sums {
			starts[np] = total
			total += sums[np]
		}
		runPartitions(exec, pm, func(np int) {
			acc := starts[np]
			lo, hi := pm.GetBucketRange(np)
			for i := lo; i < hi; i++ {
				kernel(i, &acc, true)
			}
		})
	default:
		unknownExecutor(exec)
	}
	return
}

// runPartitions calls body once per bucket and returns when all have finished
func runPartitions(exec Executor, pm *PartitionMap, body func(np int)) {
	NP := pm.ParallelDegree
	switch exec.(type) {
	case SerialExecutor:
		for np := 0; np < NP; np++ {
			body(np)
		}
	case CPUExecutor:
		wg := sync.WaitGroup{}
		for np := 0; np < NP; np++ {
			wg.Add(1)
			go func(np int) {
				body(np)
				wg.Done()
			}(np)
		}
		wg.Wait()
	case GPUExecutor:
		d := acceleratorDevice()
		d.enqueue(0, NP, func(lo, hi int) {
			for np := lo; np < hi; np++ {
				body(np)
			}
		})
		d.fence()
	default:
		unknownExecutor(exec)
	}
}

func degree(exec Executor, n int) (nd int) {
	s := current()
	switch exec.(type) {
	case SerialExecutor:
		nd = 1
	case CPUExecutor:
		nd = s.Threads
	case GPUExecutor:
		nd = s.DeviceLanes
	default:
		unknownExecutor(exec)
	}
	if nd > n {
		nd = n
	}
	if nd < 1 {
		nd = 1
	}
	return
}
