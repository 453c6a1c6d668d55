package result

import (
	"sync"
	"testing"
)

func TestHolderDeliversCurrentStateToLateSubscriber(t *testing.T) {
	h := NewHolder[string]()
	h.Set(Loading[string]())
	h.Set(Success("done"))

	ch, cancel := h.Subscribe()
	defer cancel()

	got := <-ch
	if !got.IsSuccess() || got.Value != "done" {
		t.Fatalf("expected latest success state, got %+v", got)
	}
}

func TestHolderConflatesToLatest(t *testing.T) {
	h := NewHolder[int]()
	ch, cancel := h.Subscribe()
	defer cancel()

	// Subscriber never drains between sets; it must still observe the newest.
	h.Set(Success(1))
	h.Set(Success(2))
	h.Set(Success(3))

	got := <-ch
	if got.Value != 3 {
		t.Fatalf("expected conflated latest value 3, got %d", got.Value)
	}
}

func TestHolderLatestBeforeAnySet(t *testing.T) {
	h := NewHolder[string]()
	if _, ok := h.Latest(); ok {
		t.Fatal("expected no state before first Set")
	}
}

func TestEventConsumeExactlyOnce(t *testing.T) {
	ev := NewEvent(Success("payload"))

	res, ok := ev.Consume()
	if !ok || res.Value != "payload" {
		t.Fatalf("first consume should succeed, got ok=%v res=%+v", ok, res)
	}
	if _, ok := ev.Consume(); ok {
		t.Fatal("second consume should report already handled")
	}
}

func TestEventConcurrentConsumers(t *testing.T) {
	ev := NewEvent(Success("once"))

	const consumers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, consumers)

	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := ev.Consume(); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var count int
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one successful consumer, got %d", count)
	}
}

func TestEventPeekDoesNotConsume(t *testing.T) {
	ev := NewEvent(Failure[string]("boom"))

	if got := ev.Peek(); !got.IsFailure() || got.Message != "boom" {
		t.Fatalf("peek returned %+v", got)
	}
	if ev.Consumed() {
		t.Fatal("peek must not consume")
	}
	if _, ok := ev.Consume(); !ok {
		t.Fatal("consume after peek should still succeed")
	}
}
