package diagbus

import "testing"

func TestPublishFanOut(t *testing.T) {
	bus := New()
	a := bus.Subscribe()
	b := bus.Subscribe()
	bus.Publish(Diagnostic{Code: CodeIntervalDowngrade, Message: "downgraded"})
	for _, sub := range []<-chan Diagnostic{a, b} {
		select {
		case d := <-sub:
			if d.Code != CodeIntervalDowngrade {
				t.Fatalf("code %q", d.Code)
			}
		default:
			t.Fatalf("subscriber missed the diagnostic")
		}
	}
}

func TestPublishDropsWhenSubscriberFull(t *testing.T) {
	bus := New()
	sub := bus.Subscribe()
	for i := 0; i < 20; i++ {
		bus.Publish(Diagnostic{Code: CodeReplicateFailures})
	}
	// The subscriber buffer holds 8; the rest were dropped without blocking.
	n := 0
	for {
		select {
		case <-sub:
			n++
			continue
		default:
		}
		break
	}
	if n != 8 {
		t.Fatalf("delivered %d diagnostics, want buffered 8", n)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New()
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel still open after unsubscribe")
	}
	bus.Publish(Diagnostic{Code: CodeIntervalDowngrade})
}

func TestCloseIsIdempotent(t *testing.T) {
	bus := New()
	sub := bus.Subscribe()
	bus.Close()
	bus.Close()
	if _, ok := <-sub; ok {
		t.Fatalf("channel still open after close")
	}
	bus.Publish(Diagnostic{Code: CodeIntervalDowngrade})
	if late := bus.Subscribe(); late == nil {
		t.Fatalf("subscribe after close must return a closed channel")
	} else if _, ok := <-late; ok {
		t.Fatalf("late subscription channel must be closed")
	}
}
