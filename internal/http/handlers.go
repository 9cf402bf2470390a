package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"

	"github.com/timetable-viewer/internal/backend"
	"github.com/timetable-viewer/internal/calendars"
	"github.com/timetable-viewer/internal/flash"
	"github.com/timetable-viewer/internal/http/templates"
	"github.com/timetable-viewer/internal/keys"
	"github.com/timetable-viewer/internal/metrics"
	"github.com/timetable-viewer/internal/statistics"
	"github.com/timetable-viewer/internal/timetable"
	"github.com/timetable-viewer/internal/timetables"
)

type Options struct {
	Measurer timetable.Measurer
	// SlotHeight is handed to the pages so that rows are drawn as high as
	// Measurer assumes.
	SlotHeight   float64
	Weeks        int
	CSRFKey      *keys.Key
	SecureCookie bool
}

// maxRenderBody limits the course document accepted by POST /render.
const maxRenderBody = 1 << 20

// topBlocks is the number of best ranked blocks on the dashboard.
const topBlocks = 5

func Handler(
	logger *slog.Logger,
	renderer templates.Renderer,
	staticHandler http.Handler,
	timetablesService *timetables.Service,
	calendarsService *calendars.Service,
	opts Options,
) http.HandlerFunc {
	pages := pageBuilder{slotHeight: opts.SlotHeight, secureCookie: opts.SecureCookie}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handleDashboard(logger, renderer, pages, timetablesService))
	mux.HandleFunc("GET /rankings/{$}", handleRankings(logger, renderer, pages, timetablesService))
	mux.HandleFunc("GET /generate/{$}", handleGeneratePage(logger, renderer, pages, timetablesService))
	mux.HandleFunc("GET /programs/{program_id}/{$}", handleProgram(logger, renderer, pages, timetablesService, opts.Measurer))
	mux.HandleFunc("GET /blocks/{block_id}/{$}", handleBlock(logger, renderer, pages, timetablesService, opts.Measurer))
	mux.HandleFunc("GET /blocks/{block_id}/terms/{term_id}/timetable.ics", handleGetCalendar(logger, calendarsService, opts.Weeks))

	mux.HandleFunc("POST /render", handleRender(logger, renderer, opts.Measurer))
	mux.HandleFunc("POST /actions/generate", handleAction(logger, opts.SecureCookie, generateAction, timetablesService.Generate))
	mux.HandleFunc("POST /actions/rank", handleAction(logger, opts.SecureCookie, rankAction, timetablesService.Rank))

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /", staticHandler.ServeHTTP)

	return WithMiddlewares(
		WithAccessLogs(logger),
		WithCSRF(logger, opts.CSRFKey, opts.SecureCookie),
	)(mux.ServeHTTP)
}

type pageBuilder struct {
	slotHeight   float64
	secureCookie bool
}

// page pops the pending toasts and prepares the shared page data.
func (b pageBuilder) page(w http.ResponseWriter, r *http.Request, active string) templates.Page {
	alerts, toasts := flash.Split(flash.Pop(w, r, b.secureCookie))
	return templates.Page{
		Active:     active,
		SlotHeight: b.slotHeight,
		Alerts:     alerts,
		Toasts:     toasts,
		CSRFField:  csrf.TemplateField(r),
		CSRFToken:  csrf.Token(r),
	}
}

// backendFailed adds an error alert to page and marks the response as a
// bad gateway. The page is still rendered.
func backendFailed(w http.ResponseWriter, page *templates.Page, what string, err error) {
	page.Alerts = append(page.Alerts, flash.NewAlert(flash.KindError, fmt.Sprintf("Could not load %s: %s", what, err)))
	w.WriteHeader(http.StatusBadGateway)
}

func rankingRows(rankings []backend.Ranking) []templates.RankingRow {
	rows := make([]templates.RankingRow, 0, len(rankings))
	for _, ranking := range statistics.Sorted(rankings) {
		rows = append(rows, templates.RankingRow{
			Ranking: ranking,
			Class:   statistics.Class(ranking.Ranking),
		})
	}
	return rows
}

func handleDashboard(
	logger *slog.Logger,
	renderer templates.Renderer,
	pages pageBuilder,
	timetablesService *timetables.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := templates.DashboardData{Page: pages.page(w, r, "dashboard")}

		stats, err := timetablesService.Stats(r.Context())
		if err == nil {
			var rankings []backend.Ranking
			rankings, err = timetablesService.Rankings(r.Context())
			if err == nil {
				data.Stats = stats
				data.Summary = statistics.Summarize(rankings)
				data.Programs = statistics.Programs(rankings)
				data.Top = rankingRows(rankings)
				if len(data.Top) > topBlocks {
					data.Top = data.Top[:topBlocks]
				}
			}
		}
		if err != nil {
			logger.Error("load dashboard", "error", err)
			backendFailed(w, &data.Page, "dashboard", err)
		}

		if err := renderer.RenderDashboardPage(w, data); err != nil {
			logger.Error("render dashboard page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleRankings(
	logger *slog.Logger,
	renderer templates.Renderer,
	pages pageBuilder,
	timetablesService *timetables.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := templates.RankingsData{Page: pages.page(w, r, "rankings")}

		rankings, err := timetablesService.Rankings(r.Context())
		if err != nil {
			logger.Error("list rankings", "error", err)
			backendFailed(w, &data.Page, "rankings", err)
		} else {
			data.Summary = statistics.Summarize(rankings)
			data.Rankings = rankingRows(rankings)
		}

		if err := renderer.RenderRankingsPage(w, data); err != nil {
			logger.Error("render rankings page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleGeneratePage(
	logger *slog.Logger,
	renderer templates.Renderer,
	pages pageBuilder,
	timetablesService *timetables.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := templates.GenerateData{Page: pages.page(w, r, "generate")}
		for _, toast := range data.Toasts {
			if toast.Console != "" {
				data.Console = toast.Console
			}
		}

		stats, err := timetablesService.Stats(r.Context())
		if err != nil {
			logger.Error("get stats", "error", err)
			backendFailed(w, &data.Page, "statistics", err)
		} else {
			data.Stats = stats
			data.HasSchedule = stats.TotalScheduled > 0
		}

		if err := renderer.RenderGeneratePage(w, data); err != nil {
			logger.Error("render generate page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func handleProgram(
	logger *slog.Logger,
	renderer templates.Renderer,
	pages pageBuilder,
	timetablesService *timetables.Service,
	measurer timetable.Measurer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programID, ok := pathID(r, "program_id")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		data := templates.TimetablesData{
			Page:  pages.page(w, r, "program"),
			Title: "Program",
			Path:  r.URL.Path,
		}
		page, err := timetablesService.ProgramPage(r.Context(), programID, r.URL.Query().Get("term"), measurer)
		if errors.Is(err, backend.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		} else if err != nil {
			logger.Error("program page", "program_id", programID, "error", err)
			backendFailed(w, &data.Page, "program", err)
		} else {
			data.Title = page.Program.Name
			data.Timetables = page
		}

		if err := renderer.RenderTimetablesPage(w, data); err != nil {
			logger.Error("render program page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleBlock(
	logger *slog.Logger,
	renderer templates.Renderer,
	pages pageBuilder,
	timetablesService *timetables.Service,
	measurer timetable.Measurer,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blockID, ok := pathID(r, "block_id")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		data := templates.TimetablesData{
			Page:  pages.page(w, r, "block"),
			Title: "Block",
			Path:  r.URL.Path,
		}
		page, err := timetablesService.BlockPage(r.Context(), blockID, r.URL.Query().Get("term"), measurer)
		if errors.Is(err, backend.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		} else if err != nil {
			logger.Error("block page", "block_id", blockID, "error", err)
			backendFailed(w, &data.Page, "block", err)
		} else {
			block := page.Blocks[0].Block
			data.Title = block.Name
			if block.Program != "" {
				data.Title = fmt.Sprintf("%s · %s", block.Program, block.Name)
			}
			data.Timetables = page
		}

		if err := renderer.RenderTimetablesPage(w, data); err != nil {
			logger.Error("render block page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleGetCalendar(logger *slog.Logger, calendarsService *calendars.Service, defaultWeeks int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blockID, ok := pathID(r, "block_id")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		termID, ok := pathID(r, "term_id")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		week := time.Now()
		if v := r.URL.Query().Get("week"); v != "" {
			parsed, err := time.Parse(time.DateOnly, v)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			week = parsed
		}
		weeks := defaultWeeks
		if v := r.URL.Query().Get("weeks"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			weeks = parsed
		}

		// Buffer the calendar so that a failure can still change the status.
		var buf bytes.Buffer
		if err := calendarsService.WriteICal(r.Context(), &buf, blockID, termID, week, weeks); errors.Is(err, backend.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		} else if err != nil {
			logger.Error("write calendar", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		if _, err := buf.WriteTo(w); err != nil {
			logger.Error("send calendar", "error", err)
		}
	}
}

// handleRender renders a posted course document into the contents of a
// timetable container, with a palette of its own.
func handleRender(logger *slog.Logger, renderer templates.Renderer, measurer timetable.Measurer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRenderBody))
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		t := timetable.NewRenderer(logger, timetable.NewPalette(), measurer).RenderJSON(body)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := renderer.RenderTimetable(w, t); err != nil {
			logger.Error("render timetable", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

type action struct {
	name       string
	success    string
	failure    string
	console    string
	redirectTo string
}

var (
	generateAction = action{
		name:       "generate",
		success:    "Schedule generated successfully!",
		failure:    "Generation failed.",
		console:    "> Starting schedule generation...\n",
		redirectTo: "/generate/",
	}
	rankAction = action{
		name:       "rank",
		success:    "Ranking complete!",
		failure:    "Ranking failed.",
		redirectTo: "/generate/",
	}
)

type actionResponse struct {
	backend.ActionResult
	Toast   string `json:"toast"`
	Console string `json:"console,omitempty"`
}

func (a action) respond(result *backend.ActionResult, err error) (flash.Toast, actionResponse) {
	response := actionResponse{}
	switch {
	case err != nil:
		message := errorMessage(err)
		response.ActionResult = backend.ActionResult{Success: false, Error: message}
		response.Toast = "An error occurred: " + message
		if a.console != "" {
			response.Console = a.console + "\n> ERROR: " + message + "\n"
		}
	case result.Success:
		response.ActionResult = *result
		response.Toast = a.success
		if a.console != "" {
			output := result.Log
			if output == "" {
				output = "> Done.\n"
			}
			response.Console = a.console + output
		}
	default:
		response.ActionResult = *result
		response.Toast = result.Error
		if response.Toast == "" {
			response.Toast = a.failure
		}
		if a.console != "" && result.Log != "" {
			response.Console = a.console + result.Log
		}
	}

	kind := flash.KindSuccess
	if !response.Success {
		kind = flash.KindError
	}
	toast := flash.New(kind, response.Toast)
	toast.Console = response.Console
	return toast, response
}

// errorMessage reports backend status errors without the wrapping
// context, the way the browser saw them.
func errorMessage(err error) string {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	return err.Error()
}

// handleAction relays an action to the backend. Background requests get
// the result as JSON, form posts a toast and a redirect.
func handleAction(
	logger *slog.Logger,
	secureCookie bool,
	a action,
	run func(ctx context.Context) (*backend.ActionResult, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := run(r.Context())
		if err != nil {
			logger.Error("run action", "action", a.name, "error", err)
		}
		toast, response := a.respond(result, err)

		if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
			w.Header().Set("Content-Type", "application/json")
			if err != nil {
				w.WriteHeader(http.StatusBadGateway)
			}
			if err := json.NewEncoder(w).Encode(response); err != nil {
				logger.Error("encode action result", "error", err)
			}
			return
		}

		flash.Set(w, secureCookie, toast)
		http.Redirect(w, r, a.redirectTo, http.StatusSeeOther)
	}
}
