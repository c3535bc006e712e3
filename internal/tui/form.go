package tui

import (
	"strings"

	"github.com/Joseda-hg/taskflow/internal/model"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

func (u *UI) startAdd(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.adding = true
	u.status = ""
	return nil
}

func (u *UI) submitAdd(gui *gocui.Gui, view *gocui.View) error {
	if !u.adding {
		return nil
	}
	text := ""
	if view != nil {
		text = view.Buffer()
	}
	u.commitAdd(text)
	return u.closeAdd(gui)
}

func (u *UI) cancelAdd(gui *gocui.Gui, _ *gocui.View) error {
	if !u.adding {
		return nil
	}
	return u.closeAdd(gui)
}

// commitAdd hands text to the manager. Blank input closes the popup without a change.
func (u *UI) commitAdd(text string) {
	task, ok := u.tasks.Add(strings.TrimSpace(text))
	if !ok {
		return
	}
	u.logger.Debug().Str("id", task.ID).Msg("task added")

	// New tasks are active, so the completed view would hide them.
	if u.view == model.ViewCompleted {
		u.view = model.ViewAll
	}
	u.selected = 0
	u.status = "added task " + task.ID
	u.loadTasks()
}

func (u *UI) closeAdd(gui *gocui.Gui) error {
	u.adding = false
	if gui != nil {
		_ = gui.DeleteView(viewAdd)
		_, _ = gui.SetCurrentView(viewTasks)
	}
	return nil
}

func (u *UI) showAdd(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(40, maxX/2)
	height := 2
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewAdd, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "New Task"
		view.Clear()
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetViewOnTop(viewAdd)
	_, _ = gui.SetCurrentView(viewAdd)
	return nil
}
