package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/alien-defense/ecs"
)

type Report struct {
	// Configuration
	Duration       time.Duration
	Ticks          int
	Seed           uint64
	AlienFrequency float64

	// Results
	TotalTicks     uint64
	TotalTime      time.Duration
	UpdateTime     Stats
	Rounds         int
	GameOvers      int
	PeakScore      int
	PeakAliens     int
	HighScore      int
	HighScoreSaves int
	Entities       int
	Cues           map[string]int
	Systems        []ecs.SystemStats
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Alien Defense Soak Report

## Configuration
- **Ticks:** {{if .Ticks}}{{.Ticks}}{{else}}until {{.Duration}}{{end}}
- **Seed:** {{.Seed}}
- **Alien Frequency:** {{.AlienFrequency}}

## Gameplay
- **Ticks Run:** {{.TotalTicks}}
- **Rounds:** {{.Rounds}}
- **Game Overs:** {{.GameOvers}}
- **Peak Score:** {{.PeakScore}}
- **High Score:** {{.HighScore}} ({{.HighScoreSaves}} saves)
- **Peak Aliens On Screen:** {{.PeakAliens}}
- **Live Entities At End:** {{.Entities}}
- **Cues:**
{{- range $name, $n := .Cues}}
  - {{$name}}: {{$n}}
{{- end}}

## Performance
- **Total Time:** {{.TotalTime}}
- **Tick Time:** avg {{.UpdateTime.Avg}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}

| System | Runs | Avg | Max |
|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:  {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc: {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:      {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- GC Pause:    {{.MemStatsEnd.PauseTotalNs | ns}}
`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
