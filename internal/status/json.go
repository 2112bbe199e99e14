package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/rgbcal/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Levels        LevelsJSON `json:"levels"`
	FrameRate     int        `json:"frame_rate"`
	Ready         bool       `json:"ready"`
	Changes       int        `json:"changes"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Config        ConfigJSON `json:"config"`
}

// LevelsJSON is the JSON representation of the channel levels.
type LevelsJSON struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
	Max   int `json:"max"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	IdlePolicy  string `json:"idle_policy"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	LCD         bool   `json:"lcd"`
}

func buildInner(snap Snapshot) StatusInner {
	l := snap.Status.Levels
	return StatusInner{
		Levels: LevelsJSON{
			Red:   int(l[logic.Red]),
			Green: int(l[logic.Green]),
			Blue:  int(l[logic.Blue]),
			Max:   int(logic.MaxLevel),
		},
		FrameRate:     int(snap.Status.FrameRate),
		Ready:         snap.Ready,
		Changes:       snap.Changes,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			IdlePolicy:  snap.Config.IdlePolicy,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			LCD:         snap.Config.LCD,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
