package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"zero uses GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative uses GOMAXPROCS", -2, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWorkerPool(tt.workers)
			defer p.Close()
			if p.Workers() != tt.want {
				t.Errorf("Workers() = %d, want %d", p.Workers(), tt.want)
			}
			if !p.IsRunning() {
				t.Error("new pool is not running")
			}
		})
	}
}

func TestExecuteAllRunsEveryItemOnce(t *testing.T) {
	for _, workers := range []int{1, 4, 32} {
		p := NewWorkerPool(workers)

		const n = 500
		var hits [n]atomic.Int32
		work := make([]func(), n)
		for i := range work {
			work[i] = func() { hits[i].Add(1) }
		}
		p.ExecuteAll(work)

		for i := range hits {
			if got := hits[i].Load(); got != 1 {
				t.Fatalf("workers=%d: item %d ran %d times", workers, i, got)
			}
		}
		p.Close()
	}
}

func TestExecuteAllEmptyAndNil(t *testing.T) {
	p := NewWorkerPool(2)
	defer p.Close()

	p.ExecuteAll(nil)
	p.ExecuteAll([]func(){})
	p.ExecuteAll([]func(){nil, nil})
}

func TestExecuteAllUnevenWork(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var slow, fast atomic.Int64
	work := make([]func(), 64)
	for i := range work {
		if i%16 == 0 {
			work[i] = func() {
				time.Sleep(5 * time.Millisecond)
				slow.Add(1)
			}
		} else {
			work[i] = func() { fast.Add(1) }
		}
	}
	p.ExecuteAll(work)

	if slow.Load() != 4 || fast.Load() != 60 {
		t.Errorf("slow = %d, fast = %d, want 4 and 60", slow.Load(), fast.Load())
	}
}

func TestExecuteAllConcurrentCallers(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work := make([]func(), 40)
			for i := range work {
				work[i] = func() { counter.Add(1) }
			}
			p.ExecuteAll(work)
		}()
	}
	wg.Wait()

	if counter.Load() != 8*40 {
		t.Errorf("counter = %d, want %d", counter.Load(), 8*40)
	}
}

func TestCloseIdempotent(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close()
	if p.IsRunning() {
		t.Error("closed pool is running")
	}
}

func TestExecuteAllAfterCloseRunsInline(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()

	var n atomic.Int32
	p.ExecuteAll([]func(){
		func() { n.Add(1) },
		func() { n.Add(1) },
	})
	if n.Load() != 2 {
		t.Errorf("ran %d items after Close, want 2", n.Load())
	}
}

func TestWorkerPoolNoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(20 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for range 5 {
		p := NewWorkerPool(4)
		p.ExecuteAll([]func(){func() {}, func() {}})
		p.Close()
	}

	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	if final := runtime.NumGoroutine(); final > baseline+2 {
		t.Errorf("goroutines: baseline=%d, final=%d", baseline, final)
	}
}

func BenchmarkExecuteAll(b *testing.B) {
	p := NewWorkerPool(runtime.GOMAXPROCS(0))
	defer p.Close()

	work := make([]func(), 64)
	for i := range work {
		work[i] = func() {}
	}

	b.ReportAllocs()
	for b.Loop() {
		p.ExecuteAll(work)
	}
}

func TestCloseDuringExecuteAll(t *testing.T) {
	for range 20 {
		p := NewWorkerPool(2)

		var ran atomic.Int64
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				work := make([]func(), 64)
				for i := range work {
					work[i] = func() { ran.Add(1) }
				}
				p.ExecuteAll(work)
			}()
		}
		go p.Close()

		finished := make(chan struct{})
		go func() {
			wg.Wait()
			close(finished)
		}()
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("ExecuteAll did not return while the pool was closing")
		}
		p.Close()

		if ran.Load() != 4*64 {
			t.Fatalf("ran %d items, want %d", ran.Load(), 4*64)
		}
	}
}
