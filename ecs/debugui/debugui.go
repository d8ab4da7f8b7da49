// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// Render functions live on entities as ImguiItem components, and a single Overlay singleton
// switches the whole layer on and off.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/alien-defense/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Game input should be ignored while ImGui wants it.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay is a singleton controlling whether ImguiItems are rendered at all.
type Overlay struct {
	Visible bool
}

// Toggle flips overlay visibility and returns the new state.
func (o *Overlay) Toggle() bool {
	o.Visible = !o.Visible
	return o.Visible
}

// ImguiSystem defers every ImguiItem render function while the overlay is visible.
// It must run between the backend's BeginFrame and EndFrame.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
	Overlay    ecs.Singleton[Overlay]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	overlay := i.Overlay.Get()
	if overlay == nil || !overlay.Visible {
		if state != nil {
			*state = ImguiInputState{}
		}
		return
	}

	if state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Iter() {
		frame.Commands.Defer(item.Render)
	}
}

// RegisterComponents registers the component and singleton types used by this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
}
