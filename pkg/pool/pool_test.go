package pool

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	p := NewPool(4)
	var calls int64
	results := p.Search(8, func() interface{} {
		n := atomic.AddInt64(&calls, 1)
		// fail every other attempt
		if n%2 == 0 {
			return nil
		}
		return n
	})
	require.Len(t, results, 8)
	for _, r := range results {
		require.NotNil(t, r)
	}
}

func TestParallelize(t *testing.T) {
	p := NewPool(3)
	results := p.Parallelize(10, func(i int) interface{} {
		return i * i
	})
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestLockedReader(t *testing.T) {
	src := bytes.Repeat([]byte{0xAB}, 1024)
	r := NewLockedReader(bytes.NewReader(src))

	p := NewPool(4)
	results := p.Parallelize(16, func(int) interface{} {
		buf := make([]byte, 64)
		n, err := r.Read(buf)
		if err != nil {
			return err
		}
		return n
	})
	total := 0
	for _, res := range results {
		n, ok := res.(int)
		require.True(t, ok)
		total += n
	}
	assert.Equal(t, len(src), total)
}
