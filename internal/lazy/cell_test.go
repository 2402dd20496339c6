package lazy

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type payload struct{ n int }

func TestCell_ConcurrentFirstAccessBuildsOnce(t *testing.T) {
	var c Cell[*payload]
	var calls atomic.Int32
	start := make(chan struct{})

	const workers = 64
	got := make([]*payload, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			<-start
			v, err := c.Get(func() (*payload, error) {
				calls.Add(1)
				return &payload{n: 7}, nil
			})
			if err != nil {
				t.Errorf("Get() error = %v", err)
				return
			}
			got[i] = v
		}()
	}
	close(start)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("constructor ran %d times, want 1", n)
	}
	for i := 1; i < workers; i++ {
		if got[i] != got[0] {
			t.Fatalf("worker %d observed a different instance", i)
		}
	}
}

func TestCell_FailedBuildDoesNotPoison(t *testing.T) {
	var c Cell[int]
	boom := errors.New("boom")
	if _, err := c.Get(func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("first Get() error = %v, want boom", err)
	}
	if _, ok := c.Peek(); ok {
		t.Fatalf("failed construction must leave the cell empty")
	}
	v, err := c.Get(func() (int, error) { return 42, nil })
	if err != nil || v != 42 {
		t.Fatalf("retry Get() = %d, %v", v, err)
	}
}

func TestCell_PanickingBuildDoesNotPoison(t *testing.T) {
	var c Cell[string]
	func() {
		defer func() { _ = recover() }()
		_, _ = c.Get(func() (string, error) { panic("ouch") })
	}()
	v, err := c.Get(func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Fatalf("Get() after panic = %q, %v", v, err)
	}
}

func TestMap_PerKeySingleConstruction(t *testing.T) {
	var m Map[string, *payload]
	var calls atomic.Int32
	var wg sync.WaitGroup
	const workers = 32
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			key := "a"
			if i%2 == 1 {
				key = "b"
			}
			if _, err := m.Get(key, func() (*payload, error) {
				calls.Add(1)
				return &payload{}, nil
			}); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}()
	}
	wg.Wait()
	if n := calls.Load(); n != 2 {
		t.Fatalf("constructors ran %d times, want 2", n)
	}
	if n := m.Len(); n != 2 {
		t.Fatalf("Len() = %d, want 2", n)
	}
	if _, ok := m.Peek("c"); ok {
		t.Fatalf("Peek on unknown key must miss")
	}
}
