package eventbus

import "testing"

type change struct {
	Kind string
	ID   string
}

func TestTypedBusPublishSubscribe(t *testing.T) {
	bus := NewTyped[change](0)
	ch := bus.Subscribe()
	bus.Publish(change{Kind: "period.created", ID: "p1"})
	v := <-ch
	if v.Kind != "period.created" || v.ID != "p1" {
		t.Fatalf("unexpected event %+v", v)
	}
	bus.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after Unsubscribe")
	}
}

func TestTypedBusDropsWhenFull(t *testing.T) {
	bus := NewTyped[int](1)
	ch := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	if got := bus.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}
	if v := <-ch; v != 1 {
		t.Fatalf("expected first event kept, got %d", v)
	}
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int](0)
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	bus.Publish(3)
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("expected closed channel from closed bus")
	}
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64](0)
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
