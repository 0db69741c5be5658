package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"
)

type collectingHandler struct {
	mu      sync.Mutex
	values  []int64
	batches int
}

func (h *collectingHandler) Handle(_ context.Context, batch []int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, batch...)
	h.batches++
}

func (h *collectingHandler) Values() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]int64, len(h.values))
	copy(out, h.values)
	return out
}

type gateHandler struct {
	entered chan struct{}
	gate    chan struct{}
}

func newGateHandler() *gateHandler {
	return &gateHandler{
		entered: make(chan struct{}, 1),
		gate:    make(chan struct{}),
	}
}

func (h *gateHandler) Handle(context.Context, []int64) {
	select {
	case h.entered <- struct{}{}:
	default:
	}
	<-h.gate
}

func TestDisabledDispatcherIsNilAndSafe(t *testing.T) {
	d := New[int64](Config{Enabled: false}, &collectingHandler{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	d.Emit(context.Background(), 1)
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops on nil dispatcher")
	}

	if New[int64](Config{Enabled: true}, nil) != nil {
		t.Fatal("expected nil dispatcher without handler")
	}
}

func TestCloseDeliversBufferedValuesInOrder(t *testing.T) {
	h := &collectingHandler{}
	d := New[int64](Config{Enabled: true, BufferSize: 64, MaxBatch: 8}, h)

	for i := int64(0); i < 50; i++ {
		d.Emit(context.Background(), i)
	}
	d.Close()

	got := h.Values()
	if len(got) != 50 {
		t.Fatalf("expected 50 values, got %d", len(got))
	}
	for i, v := range got {
		if v != int64(i) {
			t.Fatalf("expected value %d at index %d, got %d", i, i, v)
		}
	}
}

func TestBatchesNeverExceedMaxBatch(t *testing.T) {
	var mu sync.Mutex
	largest := 0
	h := HandlerFunc[int64](func(_ context.Context, batch []int64) {
		mu.Lock()
		if len(batch) > largest {
			largest = len(batch)
		}
		mu.Unlock()
	})
	d := New[int64](Config{Enabled: true, BufferSize: 128, MaxBatch: 4}, h)
	for i := int64(0); i < 100; i++ {
		d.Emit(context.Background(), i)
	}
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	if largest == 0 || largest > 4 {
		t.Fatalf("expected batches of 1..4 values, largest was %d", largest)
	}
}

func TestBufferFullDropIfFullTrueDoesNotBlock(t *testing.T) {
	h := newGateHandler()
	d := New[int64](Config{Enabled: true, BufferSize: 1, DropIfFull: true, MaxBatch: 1}, h)
	defer func() {
		close(h.gate)
		d.Close()
	}()

	d.Emit(context.Background(), 1)
	<-h.entered
	d.Emit(context.Background(), 2)

	start := time.Now()
	d.Emit(context.Background(), 3)
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when DropIfFull is true")
	}
	if d.Dropped() != 1 {
		t.Fatalf("expected one dropped value, got %d", d.Dropped())
	}
}

func TestBufferFullDropIfFullFalseBlocksUntilSpace(t *testing.T) {
	h := newGateHandler()
	d := New[int64](Config{Enabled: true, BufferSize: 1, DropIfFull: false, MaxBatch: 1}, h)
	defer func() {
		close(h.gate)
		d.Close()
	}()

	d.Emit(context.Background(), 1)
	<-h.entered
	d.Emit(context.Background(), 2)

	done := make(chan struct{})
	go func() {
		d.Emit(context.Background(), 3)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	h.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed after space is available")
	}
}

func TestBlockedEmitHonorsContext(t *testing.T) {
	h := newGateHandler()
	d := New[int64](Config{Enabled: true, BufferSize: 1, MaxBatch: 1}, h)
	defer func() {
		close(h.gate)
		d.Close()
	}()

	d.Emit(context.Background(), 1)
	<-h.entered
	d.Emit(context.Background(), 2)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	d.Emit(ctx, 3)
	if time.Since(start) > time.Second {
		t.Fatal("expected emit to return after context deadline")
	}
}

func TestCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	h := &collectingHandler{}
	d := New[int64](Config{Enabled: true, BufferSize: 4, DropIfFull: true}, h)

	d.Emit(context.Background(), 1)
	d.Close()
	d.Close()
	d.Emit(context.Background(), 2)

	if got := h.Values(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only the pre-close value, got %v", got)
	}
}
