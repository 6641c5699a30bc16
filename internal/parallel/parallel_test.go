package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeCoversEveryIndexOnce(t *testing.T) {
	configs := map[string]Config{
		"sequential": Sequential(),
		"parallel":   {Enabled: true, NumWorkers: 4, MinChunkSize: 3},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			const n = 101
			var hits [n]int32
			Range(n, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			}, cfg)
			for i := range hits {
				assert.Equal(t, int32(1), hits[i], "index %d", i)
			}
		})
	}
}

func TestForZeroItems(t *testing.T) {
	called := false
	For(0, func(int) { called = true }, DefaultConfig())
	assert.False(t, called)
}
