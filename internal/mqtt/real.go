package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	// backlogLimit bounds the messages held while the broker is unreachable.
	backlogLimit = 64

	// outboxSize bounds the messages handed to the sender goroutine but not
	// yet sent or held.
	outboxSize = 32

	// writeTimeout bounds one packet write on a stalled connection.
	writeTimeout = 2 * time.Second
)

// RealPublisher publishes to an actual MQTT broker.
//
// Publish calls only hand the message to a sender goroutine; when its outbox
// is full the message is dropped. The sender owns the connection: while the
// broker is unreachable it holds messages in a bounded backlog, and after a
// reconnect it replays the backlog before anything newer.
type RealPublisher struct {
	client paho.Client

	outbox    chan message
	connected chan struct{}
	done      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	replayed bool // backlog sent since the last connect
	dropped  int

	pending *backlog // owned by the sender goroutine
}

// NewRealPublisher creates a publisher and starts connecting to broker in
// the background.
func NewRealPublisher(broker string) *RealPublisher {
	p := newRealPublisher()

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("rgbcal").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWriteTimeout(writeTimeout).
		SetBinaryWill(TopicSystem, WillPayload(), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.start(paho.NewClient(opts))
	p.client.Connect()
	return p
}

func newRealPublisher() *RealPublisher {
	return &RealPublisher{
		outbox:    make(chan message, outboxSize),
		connected: make(chan struct{}, 1),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		pending:   newBacklog(backlogLimit),
	}
}

func (p *RealPublisher) start(client paho.Client) {
	p.client = client
	go p.run()
}

// PublishStatus queues a status change (QoS 0, not retained).
func (p *RealPublisher) PublishStatus(event StatusEvent) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	p.enqueue(message{topic: TopicStatus, payload: payload})
	return nil
}

// PublishSystem queues a system lifecycle event (QoS 1).
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	p.enqueue(message{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Dropped returns how many messages were discarded because the outbox was full.
func (p *RealPublisher) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close hands over whatever is still queued, then disconnects.
func (p *RealPublisher) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	<-p.finished
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (p *RealPublisher) enqueue(m message) {
	select {
	case p.outbox <- m:
	default:
		p.mu.Lock()
		if p.dropped == 0 {
			log.Printf("mqtt: outbox full, dropping %s message", m.topic)
		}
		p.dropped++
		p.mu.Unlock()
	}
}

// run is the sender goroutine. It is the only caller of client.Publish.
func (p *RealPublisher) run() {
	defer close(p.finished)
	for {
		select {
		case m := <-p.outbox:
			p.deliver(m)
		case <-p.connected:
			p.replay()
		case <-p.done:
			for {
				select {
				case m := <-p.outbox:
					p.deliver(m)
				default:
					return
				}
			}
		}
	}
}

func (p *RealPublisher) deliver(m message) {
	p.mu.Lock()
	ready := p.replayed
	p.mu.Unlock()

	if !ready || !p.client.IsConnectionOpen() {
		p.pending.push(m)
		return
	}
	p.send(m)
}

func (p *RealPublisher) replay() {
	msgs := p.pending.drain()
	log.Printf("mqtt: connected, replaying %d held messages", len(msgs))
	for _, m := range msgs {
		p.send(m)
	}
	p.mu.Lock()
	p.replayed = true
	p.mu.Unlock()
}

func (p *RealPublisher) send(m message) {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	go func() {
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: publish to %s timed out", m.topic)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: publish to %s: %v", m.topic, err)
		}
	}()
}

func (p *RealPublisher) onConnect(paho.Client) {
	select {
	case p.connected <- struct{}{}:
	default:
	}
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	log.Printf("mqtt: connection lost: %v", err)
	p.mu.Lock()
	p.replayed = false
	p.mu.Unlock()
}
