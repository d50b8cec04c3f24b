package looper

import (
	"runtime"
	"sync"
	"testing"
)

func TestMailboxTryRecvEmpty(t *testing.T) {
	mb := NewMailbox(4)

	_, ok := mb.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	const slots = 8
	mb := NewMailbox(slots)
	noop := func() {}

	for i := 0; i < slots; i++ {
		if ok := mb.TrySend(noop); !ok {
			t.Fatalf("TrySend() ok = false at slot %d, want true", i)
		}
	}
	if ok := mb.TrySend(noop); ok {
		t.Fatalf("TrySend() ok = true when full, want false")
	}
	if got := mb.Len(); got != slots {
		t.Fatalf("Len() = %d, want %d", got, slots)
	}

	for i := 0; i < slots; i++ {
		if _, ok := mb.TryRecv(); !ok {
			t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
		}
	}
	if got := mb.Len(); got != 0 {
		t.Fatalf("Len() = %d after drain, want 0", got)
	}
}

func TestMailboxFIFO(t *testing.T) {
	mb := NewMailbox(3)
	var got []int
	for round := 0; round < 4; round++ {
		for i := 0; i < 3; i++ {
			v := round*3 + i
			if !mb.TrySend(func() { got = append(got, v) }) {
				t.Fatalf("TrySend(%d) rejected", v)
			}
		}
		for {
			fn, ok := mb.TryRecv()
			if !ok {
				break
			}
			fn()
		}
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 2_000
		total     = producers * perProd
	)

	mb := NewMailbox(16)
	seen := make([]bool, total)

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				id := producerID*perProd + i
				fn := func() {
					if seen[id] {
						t.Errorf("duplicate id %d", id)
					}
					seen[id] = true
				}
				for !mb.TrySend(fn) {
					runtime.Gosched()
				}
			}
		}(producerID)
	}
	close(start)

	for n := 0; n < total; {
		fn, ok := mb.TryRecv()
		if !ok {
			runtime.Gosched()
			continue
		}
		fn()
		n++
	}
	wg.Wait()

	for id, ok := range seen {
		if !ok {
			t.Fatalf("id %d never delivered", id)
		}
	}
}
