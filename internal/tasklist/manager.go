// Package tasklist owns the ordered task collection and the operations that
// mutate and query it.
package tasklist

import (
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/Joseda-hg/taskflow/internal/model"
)

// Manager holds the task collection, newest first. Ids are unique at all
// times. Every slice it returns is a copy.
//
// Empty text and unknown ids are no-ops rather than errors.
type Manager struct {
	mu    sync.RWMutex
	tasks []model.Task
	ids   IDGenerator
	now   func() time.Time

	listeners    []subscription
	nextListener int
}

type subscription struct {
	id int
	fn Listener
}

type Option func(*Manager)

// WithTasks sets the initial collection. Later entries reusing an id are
// dropped.
func WithTasks(tasks []model.Task) Option {
	return func(m *Manager) {
		seen := make(map[string]struct{}, len(tasks))
		m.tasks = make([]model.Task, 0, len(tasks))
		for _, task := range tasks {
			if _, ok := seen[task.ID]; ok {
				continue
			}
			seen[task.ID] = struct{}{}
			m.tasks = append(m.tasks, task)
		}
	}
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.ids = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func New(opts ...Option) *Manager {
	m := &Manager{
		ids: NewSequence(0),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if obs, ok := m.ids.(observer); ok {
		for _, task := range m.tasks {
			obs.Observe(task.ID)
		}
	}
	return m
}

// Add prepends a new medium-priority task. It reports false and changes
// nothing when text is blank.
func (m *Manager) Add(text string) (model.Task, bool) {
	trimmed := strings.TrimFunc(text, isBlank)
	if trimmed == "" {
		return model.Task{}, false
	}

	m.mu.Lock()
	task := model.Task{
		ID:        m.ids.NextID(m.existsLocked),
		Text:      trimmed,
		Completed: false,
		CreatedAt: m.now(),
		Priority:  model.PriorityMedium,
	}
	m.tasks = slices.Insert(m.tasks, 0, task)
	listeners := m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, Event{Kind: EventAdded, Task: task})
	return task, true
}

// isBlank matches Unicode white space and the byte order mark.
func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Toggle flips Completed on the task with id.
func (m *Manager) Toggle(id string) {
	m.mu.Lock()
	index := m.indexLocked(id)
	if index < 0 {
		m.mu.Unlock()
		return
	}
	m.tasks[index].Completed = !m.tasks[index].Completed
	task := m.tasks[index]
	listeners := m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, Event{Kind: EventToggled, Task: task})
}

// Delete removes the task with id, keeping the order of the rest.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	index := m.indexLocked(id)
	if index < 0 {
		m.mu.Unlock()
		return
	}
	task := m.tasks[index]
	m.tasks = slices.Delete(m.tasks, index, index+1)
	listeners := m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, Event{Kind: EventDeleted, Task: task})
}

// Filter returns the tasks visible in view, in collection order.
func (m *Manager) Filter(view model.View) []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]model.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if view.Match(task) {
			result = append(result, task)
		}
	}
	return result
}

func (m *Manager) Tasks() []model.Task {
	return m.Filter(model.ViewAll)
}

func (m *Manager) Stats() model.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.ComputeStats(m.tasks)
}

func (m *Manager) Get(id string) (model.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	index := m.indexLocked(id)
	if index < 0 {
		return model.Task{}, false
	}
	return m.tasks[index], true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

// Subscribe registers fn for change events. Listeners run after the change
// is applied, outside the manager's lock, in subscription order.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	m.mu.Lock()
	m.nextListener++
	id := m.nextListener
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.listeners = slices.DeleteFunc(m.listeners, func(s subscription) bool {
				return s.id == id
			})
		})
	}
}

func (m *Manager) indexLocked(id string) int {
	return slices.IndexFunc(m.tasks, func(task model.Task) bool {
		return task.ID == id
	})
}

func (m *Manager) existsLocked(id string) bool {
	return m.indexLocked(id) >= 0
}

func (m *Manager) listenersLocked() []Listener {
	if len(m.listeners) == 0 {
		return nil
	}
	fns := make([]Listener, 0, len(m.listeners))
	for _, s := range m.listeners {
		fns = append(fns, s.fn)
	}
	return fns
}

func notify(listeners []Listener, event Event) {
	for _, fn := range listeners {
		fn(event)
	}
}
