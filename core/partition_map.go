package core

// PartitionMap splits the index range [Begin, Begin+MaxIndex) into
// ParallelDegree contiguous buckets
type PartitionMap struct {
	Begin          int
	MaxIndex       int // Number of indices partitioned
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of each bucket, absolute
}

// NewPartitionMap partitions [begin, end). The degree is clamped to the range
// length so that no bucket is empty, an empty range still gets one bucket.
func NewPartitionMap(parallelDegree, begin, end int) (pm *PartitionMap) {
	n := end - begin
	if n < 0 {
		n = 0
	}
	if parallelDegree > n {
		parallelDegree = n
	}
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	pm = &PartitionMap{
		Begin:          begin,
		MaxIndex:       n,
		ParallelDegree: parallelDegree,
		Partitions:     make([][2]int, parallelDegree),
	}
	for bn := 0; bn < parallelDegree; bn++ {
		pm.Partitions[bn] = pm.Split1D(bn)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

// Split1D returns the range of one bucket. Buckets differ in size by at most
// one item, the remainder goes to the leading buckets.
func (pm *PartitionMap) Split1D(bucketNum int) (bucket [2]int) {
	var (
		nPart            = pm.MaxIndex / pm.ParallelDegree
		remainder        = pm.MaxIndex % pm.ParallelDegree
		startAdd, endAdd int
	)
	if remainder != 0 {
		if bucketNum+1 > remainder {
			startAdd = remainder
		} else {
			startAdd = bucketNum
			endAdd = 1
		}
	}
	bucket[0] = pm.Begin + bucketNum*nPart + startAdd
	bucket[1] = bucket[0] + nPart + endAdd
	return
}
