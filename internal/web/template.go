package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/rgbcal/internal/logic"
	"github.com/sweeney/rgbcal/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	// percent scales a level to a bar width.
	"percent": func(l logic.Level) int {
		return int(l) * 100 / int(logic.MaxLevel)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>RGB Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.bar { display: inline-block; height: 10px; vertical-align: middle; margin-left: 8px; }
.red { background: #d22; }
.green { background: #2a2; }
.blue { background: #22d; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>RGB Controller</h1>

<h2>Levels</h2>
<table>
{{range .Channels}}<tr><th>{{.Name}}</th><td id="{{.Name}}-level">{{.Level}}<span class="bar {{.Name}}" style="width: {{percent .Level}}px"></span></td></tr>
{{end}}<tr><th>Frame rate</th><td id="frame-rate">{{.Status.FrameRate}} fps</td></tr>
<tr><th>Changes</th><td>{{.Changes}}</td></tr>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Up}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Idle policy</th><td>{{.Config.IdlePolicy}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>LCD</th><td>{{if .Config.LCD}}enabled{{else}}disabled{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

type channelRow struct {
	Name  string
	Level logic.Level
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := struct {
		status.Snapshot
		Up       time.Duration
		Channels []channelRow
	}{
		Snapshot: snap,
		Up:       snap.Uptime(),
	}
	for _, ch := range logic.Channels {
		data.Channels = append(data.Channels, channelRow{Name: ch.String(), Level: snap.Status.Levels[ch]})
	}
	indexTmpl.Execute(w, data)
}
