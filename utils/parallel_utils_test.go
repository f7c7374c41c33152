package utils

import (
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes differ by at most one and cover every job
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 8)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Bucket ranges tile [0, MaxIndex) in order
		for maxIndex := 0; maxIndex < 50; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			var next int
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				assert.Equal(t, next, kMin)
				assert.Equal(t, kMax-kMin, pm.GetBucketDimension(np))
				next = kMax
			}
			assert.Equal(t, maxIndex, next)
		}
	}
	{ // Zero parallel degree is promoted to one bucket
		pm := NewPartitionMap(0, 7)
		assert.Equal(t, 1, pm.ParallelDegree)
		assert.Equal(t, [2]int{0, 7}, pm.Partitions[0])
	}
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 1, WorkerCount(1, 10))
	assert.Equal(t, 3, WorkerCount(8, 3))
	assert.Equal(t, 1, WorkerCount(4, 0))
	expected := runtime.NumCPU()
	if expected > 100 {
		expected = 100
	}
	assert.Equal(t, expected, WorkerCount(0, 100))
}
