package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/timetable-viewer/internal/backend"
	"github.com/timetable-viewer/internal/flash"
	"github.com/timetable-viewer/internal/statistics"
	"github.com/timetable-viewer/internal/timetable"
	"github.com/timetable-viewer/internal/timetables"
)

//go:embed *.html.template
var embedFS embed.FS

const layoutName = "_layout.html.template"

var pageNames = []string{"dashboard", "rankings", "generate", "timetables"}

var funcs = template.FuncMap{
	"dayNames": func() []string { return timetable.DayNames[:] },
	"blockStyle": func(b timetable.Block) template.CSS {
		return template.CSS(fmt.Sprintf("top:%spx;height:%spx", px(b.Top), px(b.Height)))
	},
	"toastStyle": func(t flash.Toast) template.CSS {
		return template.CSS(fmt.Sprintf("--toast-duration:%dms", t.Millis()))
	},
	"slotHeight": func(h float64) template.CSS {
		if h <= 0 {
			return ""
		}
		return template.CSS(fmt.Sprintf("--slot-height:%spx", px(h)))
	},
	"rankingClass": statistics.Class,
	"inc": func(i int) int {
		return i + 1
	},
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Page is embedded in the data of every full page.
type Page struct {
	Active string
	// SlotHeight is the timetable row height blocks were positioned with.
	SlotHeight float64
	Alerts    []flash.Toast
	Toasts    []flash.Toast
	CSRFField template.HTML
	CSRFToken string
}

type RankingRow struct {
	backend.Ranking
	Class statistics.RankingClass
}

type DashboardData struct {
	Page
	// Stats is nil when the backend could not be reached.
	Stats    *backend.Stats
	Summary  statistics.Summary
	Programs []statistics.Program
	Top      []RankingRow
}

type RankingsData struct {
	Page
	Summary  statistics.Summary
	Rankings []RankingRow
}

type GenerateData struct {
	Page
	Stats       *backend.Stats
	HasSchedule bool
	Console     string
}

type TimetablesData struct {
	Page
	Title string
	// Path is the page path the term tabs link to.
	Path string
	// Timetables is nil when the backend could not be reached.
	Timetables *timetables.Page
}

type Renderer interface {
	RenderDashboardPage(w io.Writer, data DashboardData) error
	RenderRankingsPage(w io.Writer, data RankingsData) error
	RenderGeneratePage(w io.Writer, data GenerateData) error
	RenderTimetablesPage(w io.Writer, data TimetablesData) error
	// RenderTimetable renders the contents of one timetable container.
	RenderTimetable(w io.Writer, t *timetable.Timetable) error
}

type set struct {
	partials *template.Template
	pages    map[string]*template.Template
}

func parse(fsys fs.FS) (*set, error) {
	partials, err := template.New("").Funcs(funcs).ParseFS(fsys, "_*.html.template")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}
	s := &set{
		partials: partials,
		pages:    make(map[string]*template.Template, len(pageNames)),
	}
	for _, name := range pageNames {
		clone, err := partials.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone partials: %w", err)
		}
		page, err := clone.ParseFS(fsys, name+".html.template")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		s.pages[name] = page
	}
	return s, nil
}

func (s *set) renderPage(w io.Writer, name string, data any) error {
	page, ok := s.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return page.ExecuteTemplate(w, layoutName, data)
}

func (s *set) renderTimetable(w io.Writer, t *timetable.Timetable) error {
	return s.partials.ExecuteTemplate(w, "timetable", t)
}

type embedTemplates struct {
	set *set
}

func NewEmbedTemplates() Renderer {
	s, err := parse(embedFS)
	if err != nil {
		panic(err)
	}
	return &embedTemplates{set: s}
}

func (t *embedTemplates) RenderDashboardPage(w io.Writer, data DashboardData) error {
	return t.set.renderPage(w, "dashboard", data)
}

func (t *embedTemplates) RenderRankingsPage(w io.Writer, data RankingsData) error {
	return t.set.renderPage(w, "rankings", data)
}

func (t *embedTemplates) RenderGeneratePage(w io.Writer, data GenerateData) error {
	return t.set.renderPage(w, "generate", data)
}

func (t *embedTemplates) RenderTimetablesPage(w io.Writer, data TimetablesData) error {
	return t.set.renderPage(w, "timetables", data)
}

func (t *embedTemplates) RenderTimetable(w io.Writer, tt *timetable.Timetable) error {
	return t.set.renderTimetable(w, tt)
}

// filesystemTemplates parses templates from disk on every render.
type filesystemTemplates struct {
	fsys fs.FS
}

func NewFilesystemTemplates(path string) Renderer {
	return &filesystemTemplates{fsys: os.DirFS(path)}
}

func (t *filesystemTemplates) load() (*set, error) {
	return parse(t.fsys)
}

func (t *filesystemTemplates) RenderDashboardPage(w io.Writer, data DashboardData) error {
	s, err := t.load()
	if err != nil {
		return err
	}
	return s.renderPage(w, "dashboard", data)
}

func (t *filesystemTemplates) RenderRankingsPage(w io.Writer, data RankingsData) error {
	s, err := t.load()
	if err != nil {
		return err
	}
	return s.renderPage(w, "rankings", data)
}

func (t *filesystemTemplates) RenderGeneratePage(w io.Writer, data GenerateData) error {
	s, err := t.load()
	if err != nil {
		return err
	}
	return s.renderPage(w, "generate", data)
}

func (t *filesystemTemplates) RenderTimetablesPage(w io.Writer, data TimetablesData) error {
	s, err := t.load()
	if err != nil {
		return err
	}
	return s.renderPage(w, "timetables", data)
}

func (t *filesystemTemplates) RenderTimetable(w io.Writer, tt *timetable.Timetable) error {
	s, err := t.load()
	if err != nil {
		return err
	}
	return s.renderTimetable(w, tt)
}
