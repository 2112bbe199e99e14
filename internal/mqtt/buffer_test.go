package mqtt

import (
	"fmt"
	"testing"
)

func msg(i int) message {
	return message{topic: TopicStatus, payload: []byte(fmt.Sprint(i))}
}

func TestBacklogFIFO(t *testing.T) {
	b := newBacklog(4)
	for i := 0; i < 3; i++ {
		b.push(msg(i))
	}
	if b.len() != 3 {
		t.Fatalf("len: got %d, want 3", b.len())
	}

	got := b.drain()
	for i, m := range got {
		if string(m.payload) != fmt.Sprint(i) {
			t.Errorf("message %d: got %s", i, m.payload)
		}
	}
	if b.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", b.len())
	}
}

func TestBacklogDropsOldest(t *testing.T) {
	b := newBacklog(3)
	for i := 0; i < 5; i++ {
		b.push(msg(i))
	}

	got := b.drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, want := range []string{"2", "3", "4"} {
		if string(got[i].payload) != want {
			t.Errorf("message %d: got %s, want %s", i, got[i].payload, want)
		}
	}
	if b.dropped != 0 {
		t.Errorf("dropped should reset on drain, got %d", b.dropped)
	}
}

func TestBacklogDrainEmpty(t *testing.T) {
	b := newBacklog(2)
	if got := b.drain(); len(got) != 0 {
		t.Errorf("expected no messages, got %d", len(got))
	}
}

func TestBacklogReusableAfterDrain(t *testing.T) {
	b := newBacklog(2)
	b.push(msg(1))
	b.drain()
	b.push(msg(7))

	got := b.drain()
	if len(got) != 1 || string(got[0].payload) != "7" {
		t.Errorf("got %+v", got)
	}
}
