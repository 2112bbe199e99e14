package mqtt

import "log"

// message is a serialized MQTT message held for replay after reconnection.
type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog is a bounded FIFO that drops its oldest message when full.
// Not safe for concurrent use; callers synchronize.
type backlog struct {
	msgs    []message
	limit   int
	dropped int // messages dropped since the last drain
}

func newBacklog(limit int) *backlog {
	return &backlog{limit: limit}
}

func (b *backlog) push(m message) {
	if len(b.msgs) < b.limit {
		b.msgs = append(b.msgs, m)
		return
	}
	if b.dropped == 0 {
		log.Printf("mqtt: backlog full (%d messages), dropping oldest", b.limit)
	}
	b.dropped++
	copy(b.msgs, b.msgs[1:])
	b.msgs[len(b.msgs)-1] = m
}

// drain returns every held message, oldest first, and empties the backlog.
func (b *backlog) drain() []message {
	msgs := b.msgs
	b.msgs = nil
	if b.dropped > 0 {
		log.Printf("mqtt: %d messages were dropped while disconnected", b.dropped)
		b.dropped = 0
	}
	return msgs
}

func (b *backlog) len() int {
	return len(b.msgs)
}
