package core

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// The accelerator is emulated by one process wide device. Launches enter an
// in-order stream, a dispatcher splits each launch over a fixed set of lane
// goroutines and waits for all lanes before starting the next launch. A panic
// inside a kernel is not recovered and takes the process down.

type launch struct {
	begin, end int
	kernel     func(lo, hi int)
	marker     chan struct{} // non-nil for fence markers
}

type laneTask struct {
	lo, hi int
	kernel func(lo, hi int)
	wg     *sync.WaitGroup
}

type device struct {
	lanes    int
	launches chan launch
	work     []chan laneTask
	stopped  chan struct{}
}

var (
	activeDevice atomic.Pointer[device]
	deviceMu     sync.Mutex // start and stop only, never taken on the launch path
)

func acceleratorDevice() *device {
	if d := activeDevice.Load(); d != nil {
		return d
	}
	deviceMu.Lock()
	defer deviceMu.Unlock()
	if d := activeDevice.Load(); d != nil {
		return d
	}
	d := startDevice(current())
	activeDevice.Store(d)
	return d
}

func stopDevice() {
	deviceMu.Lock()
	defer deviceMu.Unlock()
	if d := activeDevice.Swap(nil); d != nil {
		d.stop()
	}
}

func startDevice(s *Settings) (d *device) {
	d = &device{
		lanes:    s.DeviceLanes,
		launches: make(chan launch, 64),
		work:     make([]chan laneTask, s.DeviceLanes),
		stopped:  make(chan struct{}),
	}
	for l := 0; l < d.lanes; l++ {
		d.work[l] = make(chan laneTask)
		go d.lane(l, s)
	}
	go d.dispatch()
	s.Logger.Printf("accelerator started with %d lanes", d.lanes)
	return
}

func (d *device) lane(id int, s *Settings) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if s.PinLanes {
		if err := pinToCPU(id % runtime.NumCPU()); err != nil {
			s.Logger.Printf("lane %d: unable to pin: %v", id, err)
		}
	}
	for t := range d.work[id] {
		t.kernel(t.lo, t.hi)
		t.wg.Done()
	}
}

func (d *device) dispatch() {
	var wg sync.WaitGroup
	for l := range d.launches {
		if l.marker != nil {
			close(l.marker)
			continue
		}
		pm := NewPartitionMap(d.lanes, l.begin, l.end)
		wg.Add(pm.ParallelDegree)
		for bn := 0; bn < pm.ParallelDegree; bn++ {
			lo, hi := pm.GetBucketRange(bn)
			d.work[bn] <- laneTask{lo: lo, hi: hi, kernel: l.kernel, wg: &wg}
		}
		wg.Wait()
	}
	for _, w := range d.work {
		close(w)
	}
	close(d.stopped)
}

// enqueue queues a launch over [begin, end) and returns without waiting
func (d *device) enqueue(begin, end int, kernel func(lo, hi int)) {
	d.launches <- launch{begin: begin, end: end, kernel: kernel}
}

// fence returns once every launch queued before it has completed
func (d *device) fence() {
	marker := make(chan struct{})
	d.launches <- launch{marker: marker}
	<-marker
}

func (d *device) stop() {
	d.fence()
	close(d.launches)
	<-d.stopped
}
