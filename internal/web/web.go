package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/Joseda-hg/taskflow/internal/model"
	"github.com/Joseda-hg/taskflow/internal/tasklist"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.tmpl").Funcs(template.FuncMap{
	"date":     func(t time.Time) string { return t.Format("2006-01-02") },
	"relative": humanize.Time,
}).ParseFS(templateFS, "templates/index.tmpl"))

type Server struct {
	tasks  *tasklist.Manager
	logger zerolog.Logger
}

type tab struct {
	View    model.View
	Label   string
	Current bool
}

func NewServer(tasks *tasklist.Manager, logger zerolog.Logger) *Server {
	return &Server{tasks: tasks, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("POST /tasks", s.addHandler)
	mux.HandleFunc("POST /tasks/{id}/toggle", s.toggleHandler)
	mux.HandleFunc("POST /tasks/{id}/delete", s.deleteHandler)
	return mux
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	view := model.ParseView(r.URL.Query().Get("filter"))

	tabs := make([]tab, 0, 3)
	for _, v := range model.Views() {
		tabs = append(tabs, tab{View: v, Label: v.Label(), Current: v == view})
	}

	data := struct {
		View  model.View
		Tabs  []tab
		Tasks []model.Task
		Stats model.Stats
	}{
		View:  view,
		Tabs:  tabs,
		Tasks: s.tasks.Filter(view),
		Stats: s.tasks.Stats(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("render index")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) addHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if task, ok := s.tasks.Add(r.PostForm.Get("text")); ok {
		s.logger.Info().Str("id", task.ID).Msg("task added")
	}
	redirectToView(w, r)
}

func (s *Server) toggleHandler(w http.ResponseWriter, r *http.Request) {
	s.tasks.Toggle(r.PathValue("id"))
	redirectToView(w, r)
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	s.tasks.Delete(r.PathValue("id"))
	redirectToView(w, r)
}

func redirectToView(w http.ResponseWriter, r *http.Request) {
	view := model.ParseView(r.FormValue("filter"))
	target := "/"
	if view != model.ViewAll {
		target = "/?filter=" + url.QueryEscape(string(view))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
