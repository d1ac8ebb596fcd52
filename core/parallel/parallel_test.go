package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkers(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), Workers(-1))
	assert.Equal(t, runtime.NumCPU(), Workers(0))
	assert.Equal(t, 3, Workers(3))
}

func TestParallelizeCoversEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{-1, 1, 2, 7, 100} {
		hits := make([]int32, 53)
		Parallelize(len(hits), workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "workers=%d index=%d", workers, i)
		}
	}
}

func TestParallelizeEmpty(t *testing.T) {
	called := false
	Parallelize(0, 4, func(start, end int) { called = true })
	assert.False(t, called)
}

func TestParallelizeWithThresholdRunsSequentially(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(10, 100, -1, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	})
	assert.Equal(t, 1, calls)
}
