package lflist_test

import (
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/moea/lflist"
)

type benchItem struct {
	payload int
	next    atomic.Pointer[benchItem]
}

// BenchmarkStack_PushPop measures the uncontended single-goroutine cycle.
func BenchmarkStack_PushPop(b *testing.B) {
	s := lflist.New(func(it *benchItem) *atomic.Pointer[benchItem] { return &it.next })
	it := &benchItem{payload: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Push(it)
		s.Pop()
	}
}

// BenchmarkStack_ContendedPush measures push throughput under parallel
// contention on the head.
func BenchmarkStack_ContendedPush(b *testing.B) {
	s := lflist.New(func(it *benchItem) *atomic.Pointer[benchItem] { return &it.next })

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Push(&benchItem{})
		}
	})
}
