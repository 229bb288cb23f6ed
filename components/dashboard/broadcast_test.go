package dashboard

import (
	"context"
	"testing"

	"go.uber.org/goleak"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)

	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	pub := Publication{Panel: PanelOverview, Region: "actual_vs_budget", Version: 1}
	if err := hook.OutputPublished(context.Background(), pub); err != nil {
		t.Fatalf("OutputPublished returned error: %v", err)
	}
	select {
	case got := <-ch:
		if got.Region != pub.Region || got.Version != 1 {
			t.Fatalf("expected %+v, got %+v", pub, got)
		}
	default:
		t.Fatalf("expected publication to be delivered")
	}
}

func TestBroadcastHookDropsWhenSubscriberIsFull(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	for i := 0; i < subscriberBuffer+3; i++ {
		if err := hook.OutputPublished(context.Background(), Publication{Version: i + 1}); err != nil {
			t.Fatalf("OutputPublished returned error: %v", err)
		}
	}
	if len(ch) != subscriberBuffer {
		t.Fatalf("expected %d buffered publications, got %d", subscriberBuffer, len(ch))
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	if hook.Subscribers() != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	if hook.Subscribers() != 0 {
		t.Fatalf("expected no subscribers after cancel")
	}
}
