package events_test

import (
	"testing"

	"github.com/cleggacus/cleggcoin/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestEvents(t *testing.T) {
	t.Log("Given the need to broadcast events to registered receivers.")
	{
		evts := events.New()

		ch1 := evts.Acquire("one")
		ch2 := evts.Acquire("two")
		if evts.Acquire("one") != ch1 {
			t.Fatalf("\t%s\tShould return the same channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould return the same channel for the same id.", success)

		if evts.Count() != 2 {
			t.Fatalf("\t%s\tShould have 2 receivers, got %d.", failed, evts.Count())
		}
		t.Logf("\t%s\tShould have 2 receivers.", success)

		evts.Sendf("block[%d]", 1)
		for i, ch := range []<-chan string{ch1, ch2} {
			if msg := <-ch; msg != "block[1]" {
				t.Fatalf("\t%s\tShould deliver the message to receiver %d, got %q.", failed, i, msg)
			}
		}
		t.Logf("\t%s\tShould deliver the message to every receiver.", success)

		for i := 0; i < 500; i++ {
			evts.Send("flood")
		}
		t.Logf("\t%s\tShould not block when a receiver is full.", success)

		if err := evts.Release("one"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a receiver: %s", failed, err)
		}
		if err := evts.Release("one"); err == nil {
			t.Fatalf("\t%s\tShould fail to release an unknown receiver.", failed)
		}
		t.Logf("\t%s\tShould be able to release a receiver once.", success)

		evts.Shutdown()
		if evts.Count() != 0 {
			t.Fatalf("\t%s\tShould remove every receiver on shutdown.", failed)
		}

		n := 0
		for range ch2 {
			n++
		}
		if n != 100 {
			t.Fatalf("\t%s\tShould drain the buffered messages before close, got %d.", failed, n)
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}
