package debugui

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/alien-defense/ecs"
)

// FrameHistory is a fixed-size ring of frame durations.
type FrameHistory struct {
	samples []float32 // milliseconds
	next    int
	filled  int
}

func NewFrameHistory(size int) *FrameHistory {
	if size < 1 {
		size = 1
	}
	return &FrameHistory{samples: make([]float32, size)}
}

// Record stores one frame duration, overwriting the oldest once full.
func (h *FrameHistory) Record(d time.Duration) {
	h.samples[h.next] = float32(d.Seconds() * 1000)
	h.next = (h.next + 1) % len(h.samples)
	if h.filled < len(h.samples) {
		h.filled++
	}
}

// Len returns the number of recorded samples.
func (h *FrameHistory) Len() int {
	return h.filled
}

// Average returns the mean of the recorded samples in milliseconds.
func (h *FrameHistory) Average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, s := range h.recorded() {
		sum += s
	}
	return sum / float32(h.filled)
}

// Bounds returns the smallest and largest recorded samples in milliseconds.
func (h *FrameHistory) Bounds() (lo, hi float32) {
	for i, s := range h.recorded() {
		if i == 0 || s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return lo, hi
}

// Ordered returns the recorded samples oldest first.
func (h *FrameHistory) Ordered() []float32 {
	out := make([]float32, 0, h.filled)
	if h.filled < len(h.samples) {
		return append(out, h.samples[:h.filled]...)
	}
	out = append(out, h.samples[h.next:]...)
	return append(out, h.samples[:h.next]...)
}

func (h *FrameHistory) recorded() []float32 {
	if h.filled < len(h.samples) {
		return h.samples[:h.filled]
	}
	return h.samples
}

// StatsPanel draws entity, system and frame statistics plus caller-supplied lines.
type StatsPanel struct {
	Title   string
	Storage *ecs.Storage
	Frames  *FrameHistory
	// Systems returns the scheduler timings to display, one table per entry.
	Systems map[string]func() *ecs.SchedulerStats
	// Extra returns free-form lines shown at the top of the panel.
	Extra func() []string
}

// Item wraps the panel in an ImguiItem so it can be spawned into storage.
func (p *StatsPanel) Item() ImguiItem {
	return ImguiItem{Render: p.Render}
}

func (p *StatsPanel) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 80), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 420), imgui.CondOnce)
	if !imgui.BeginV(p.Title, nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if p.Extra != nil {
		for _, line := range p.Extra() {
			imgui.Text(line)
		}
		imgui.Separator()
	}

	if p.Frames != nil && p.Frames.Len() > 0 {
		avg := p.Frames.Average()
		lo, hi := p.Frames.Bounds()
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/max(avg, 0.001)))
		imgui.Text(fmt.Sprintf("Min/Max: %.2f / %.2f ms", lo, hi))
		samples := p.Frames.Ordered()
		imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))
		imgui.Separator()
	}

	if p.Storage != nil {
		stats := p.Storage.CollectStats()
		imgui.Text(fmt.Sprintf("Entities: %d  Archetypes: %d  Singletons: %d",
			stats.TotalEntityCount, stats.ArchetypeCount, stats.SingletonCount))

		if imgui.TreeNodeStr("Archetypes") {
			const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
			if imgui.BeginTableV("ArchStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
				imgui.TableSetupColumn("ID")
				imgui.TableSetupColumn("Components")
				imgui.TableSetupColumn("Entities")
				imgui.TableHeadersRow()
				for _, arch := range stats.ArchetypeBreakdown {
					imgui.TableNextRow()
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("%d", arch.ID))
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprint(arch.ComponentTypes))
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
				}
				imgui.EndTable()
			}
			imgui.TreePop()
		}
	}

	for _, name := range slices.Sorted(maps.Keys(p.Systems)) {
		if !imgui.TreeNodeStr(name) {
			continue
		}
		renderSystemTable(name, p.Systems[name]())
		imgui.TreePop()
	}

	imgui.End()
}

func renderSystemTable(id string, stats *ecs.SchedulerStats) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if !imgui.BeginTableV(id+"##systems", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}
	imgui.TableSetupColumn("System")
	imgui.TableSetupColumn("Last")
	imgui.TableSetupColumn("Avg")
	imgui.TableHeadersRow()
	for _, sys := range stats.Systems {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(sys.Name)
		imgui.TableNextColumn()
		imgui.Text(sys.LastDuration.String())
		imgui.TableNextColumn()
		imgui.Text(sys.AvgDuration.String())
	}
	imgui.EndTable()
}
