package tui

import (
	"fmt"
	"strings"

	"github.com/Joseda-hg/taskflow/internal/model"
	"github.com/Joseda-hg/taskflow/internal/tasklist"
	"github.com/dustin/go-humanize"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/rs/zerolog"
)

const (
	viewHeader = "header"
	viewStats  = "stats"
	viewTabs   = "tabs"
	viewTasks  = "tasks"
	viewDetail = "detail"
	viewFooter = "footer"
	viewAdd    = "add"
	viewHelp   = "help"
)

type UI struct {
	tasks  *tasklist.Manager
	gui    *gocui.Gui
	logger zerolog.Logger

	view     model.View
	visible  []model.Task
	selected int

	adding     bool
	helpActive bool
	status     string
}

func Run(tasks *tasklist.Manager, logger zerolog.Logger) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := &UI{
		tasks:  tasks,
		gui:    gui,
		logger: logger,
		view:   model.ViewAll,
	}
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.loadTasks()

	// Changes made by another presentation layer (the web server) redraw here.
	unsubscribe := tasks.Subscribe(func(tasklist.Event) {
		gui.Update(func(*gocui.Gui) error {
			ui.loadTasks()
			return nil
		})
	})
	defer unsubscribe()

	logger.Info().Int("tasks", tasks.Len()).Msg("tui started")
	if err := gui.MainLoop(); err != nil && !goerrors.Is(err, gocui.ErrQuit) {
		return err
	}
	logger.Info().Msg("tui stopped")

	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'a', gocui.ModNone, u.startAdd); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, u.toggleSelected); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.deleteSelected); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '?', gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, u.nextView); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '1', gocui.ModNone, u.showAll); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '2', gocui.ModNone, u.showActive); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '3', gocui.ModNone, u.showCompleted); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeySpace, gocui.ModNone, u.toggleSelected); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'j', gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'k', gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAdd, gocui.KeyEnter, gocui.ModNone, u.submitAdd); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAdd, gocui.KeyEsc, gocui.ModNone, u.cancelAdd); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, 'q', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewTasks, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
		return u.onListClick(gui, opts)
	}}); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.MouseWheelUp, gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.MouseWheelDown, gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault | gocui.AttrBold
	headerView.Clear()
	fmt.Fprint(headerView, "TaskFlow | Stay organized, stay productive")

	statsView, err := gui.SetView(viewStats, 0, 1, maxX-1, 3, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		statsView.Title = "Stats"
	}
	statsView.Clear()
	fmt.Fprint(statsView, formatStats(u.tasks.Stats(), max(maxX/4, 10)))

	tabsView, err := gui.SetView(viewTabs, 0, 4, maxX-1, 4, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	tabsView.Frame = false
	tabsView.Clear()
	fmt.Fprint(tabsView, formatTabs(u.view))

	footerY1 := max(maxY-1, 7)
	footerY0 := footerY1 - 2
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 5
	bodyBottom := max(footerY0-1, bodyTop+2)
	split := max(maxX*3/5, 20)

	tasksView, err := gui.SetView(viewTasks, 0, bodyTop, split-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		tasksView.Title = "Tasks"
		tasksView.TitleColor = gocui.ColorCyan
	}
	tasksView.Highlight = true
	tasksView.SelBgColor = gocui.ColorBlue
	tasksView.SelFgColor = gocui.ColorBlack
	tasksView.FrameColor = gocui.ColorCyan
	u.renderTaskList(tasksView)

	detailView, err := gui.SetView(viewDetail, split, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		detailView.Title = "Details"
		detailView.Wrap = true
	}
	u.renderDetail(detailView)

	if u.adding {
		if err := u.showAdd(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewAdd)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	if !u.inputActive() {
		_, _ = gui.SetCurrentView(viewTasks)
	}
	gui.Cursor = u.adding

	return nil
}

// loadTasks re-reads the current view from the manager.
func (u *UI) loadTasks() {
	u.visible = u.tasks.Filter(u.view)
	if u.selected >= len(u.visible) {
		u.selected = max(len(u.visible)-1, 0)
	}
}

func (u *UI) renderTaskList(view *gocui.View) {
	view.Clear()
	if len(u.visible) == 0 {
		fmt.Fprint(view, "  No tasks found")
		view.Highlight = false
		return
	}
	for _, task := range u.visible {
		fmt.Fprintf(view, " %s\n", formatTaskSummary(task))
	}
	view.SetCursor(0, min(u.selected, len(u.visible)-1))
}

func (u *UI) renderDetail(view *gocui.View) {
	view.Clear()
	task := u.selectedTask()
	if task == nil {
		fmt.Fprint(view, "No task selected")
		return
	}

	lines := []string{
		task.Text,
		"",
		fmt.Sprintf("Status: %s", statusLabel(*task)),
		fmt.Sprintf("Priority: %s", formatPriority(task.Priority)),
		fmt.Sprintf("Created: %s (%s)", task.CreatedAt.Format("2006-01-02"), humanize.Time(task.CreatedAt)),
		fmt.Sprintf("ID: %s", task.ID),
	}
	fmt.Fprint(view, strings.Join(lines, "\n"))
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	fmt.Fprintln(view, "a add | x/space toggle | d delete | 1-3/tab filter | j/k move | ? help | q quit")
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) selectedTask() *model.Task {
	if u.selected >= 0 && u.selected < len(u.visible) {
		return &u.visible[u.selected]
	}
	return nil
}

func (u *UI) onListClick(gui *gocui.Gui, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewTasks)
	if err != nil {
		return nil
	}

	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)
	if len(u.visible) > 0 {
		u.selected = min(row, len(u.visible)-1)
	}
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected < len(u.visible)-1 {
		u.selected++
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected > 0 {
		u.selected--
	}
	return nil
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	u.loadTasks()
	return nil
}

func (u *UI) setView(view model.View) error {
	if u.inputActive() {
		return nil
	}
	if u.view != view {
		u.view = view
		u.selected = 0
	}
	u.status = ""
	u.loadTasks()
	return nil
}

func (u *UI) nextView(_ *gocui.Gui, _ *gocui.View) error {
	return u.setView(u.view.Next())
}

func (u *UI) showAll(_ *gocui.Gui, _ *gocui.View) error {
	return u.setView(model.ViewAll)
}

func (u *UI) showActive(_ *gocui.Gui, _ *gocui.View) error {
	return u.setView(model.ViewActive)
}

func (u *UI) showCompleted(_ *gocui.Gui, _ *gocui.View) error {
	return u.setView(model.ViewCompleted)
}

func (u *UI) toggleSelected(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	u.tasks.Toggle(selected.ID)
	u.logger.Debug().Str("id", selected.ID).Msg("task toggled")
	u.status = ""
	u.loadTasks()
	return nil
}

func (u *UI) deleteSelected(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	id := selected.ID
	u.tasks.Delete(id)
	u.logger.Debug().Str("id", id).Msg("task deleted")
	u.status = fmt.Sprintf("deleted task %s", id)
	u.loadTasks()
	return nil
}

func (u *UI) toggleHelp(_ *gocui.Gui, _ *gocui.View) error {
	if u.adding {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	if gui != nil {
		_ = gui.DeleteView(viewHelp)
		_, _ = gui.SetCurrentView(viewTasks)
	}
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(50, maxX/2)
	height := 14
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = "Help"
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText())
	_, _ = gui.SetViewOnTop(viewHelp)
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) inputActive() bool {
	return u.adding || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	if u.adding {
		return nil
	}
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Tasks:",
		"  a add task (enter save, esc cancel)",
		"  x or space toggle completed",
		"  d delete task",
		"",
		"Filters:",
		"  1 All Tasks | 2 Active | 3 Completed",
		"  tab cycle filters",
		"",
		"Navigation:",
		"  j/k or arrows move selection, mouse click selects",
		"",
		"Other:",
		"  r reload | ? help | esc/q close help | q quit",
	}, "\n")
}
