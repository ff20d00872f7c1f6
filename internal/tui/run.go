package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"stock-insights/internal/dashboard"
)

// programRenderer forwards controller frames into the program's event loop.
// Frames rendered before the program is attached are dropped; the model
// reads the controller's current view on start.
type programRenderer struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRenderer) attach(p *tea.Program) {
	r.mu.Lock()
	r.p = p
	r.mu.Unlock()
}

func (r *programRenderer) Render(vm dashboard.ViewModel) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(frameMsg{vm: vm})
	}
}

// Run starts the interactive dashboard and blocks until the user quits or
// ctx is cancelled. newController must build a controller around the given
// renderer.
func Run(ctx context.Context, newController func(dashboard.Renderer) *dashboard.Controller, initial string, opts ...tea.ProgramOption) error {
	r := &programRenderer{}
	ctrl := newController(r)
	defer ctrl.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(ctx, ctrl, initial), opts...)
	r.attach(p)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
