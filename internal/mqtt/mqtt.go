// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"log"
	"time"

	"github.com/sweeney/rgbcal/internal/logic"
)

// TopicStatus is the MQTT topic for level and frame rate changes.
const TopicStatus = "rgbcal/status"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "rgbcal/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishStatus sends a status change to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishStatus(event StatusEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// StatusEvent is one reported status change.
type StatusEvent struct {
	Timestamp time.Time
	Status    logic.Status
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT status message payload.
type Payload struct {
	RGB RGBPayload `json:"rgb"`
}

// RGBPayload contains the status details.
type RGBPayload struct {
	Timestamp string `json:"timestamp"`
	Red       int    `json:"red"`
	Green     int    `json:"green"`
	Blue      int    `json:"blue"`
	FrameRate int    `json:"frame_rate"`
}

// FormatPayload creates the JSON payload for a status change.
func FormatPayload(event StatusEvent) ([]byte, error) {
	l := event.Status.Levels
	payload := Payload{
		RGB: RGBPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Red:       int(l[logic.Red]),
			Green:     int(l[logic.Green]),
			Blue:      int(l[logic.Blue]),
			FrameRate: int(event.Status.FrameRate),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events that
// don't carry a full status snapshot (last will).
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{
		Event:  event.Event,
		Reason: event.Reason,
	}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}

// WillPayload is the retained message the broker publishes if the
// controller drops off without a clean shutdown.
func WillPayload() []byte {
	data, _ := FormatSystemPayload(SystemEvent{Event: "OFFLINE", Reason: "connection lost"})
	return data
}

// Reporter publishes every reported status. It satisfies the input loop's
// reporter interface.
type Reporter struct {
	Publisher Publisher
	Now       func() time.Time
}

// Report publishes s. Failures are logged, never returned.
func (r Reporter) Report(s logic.Status) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	if err := r.Publisher.PublishStatus(StatusEvent{Timestamp: now(), Status: s}); err != nil {
		log.Printf("mqtt status publish error: %v", err)
	}
}
