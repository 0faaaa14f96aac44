package serverapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"taskloop/internal/clock"
	"taskloop/internal/config"
	"taskloop/internal/events"
	"taskloop/internal/httpmw"
	"taskloop/internal/observability"
	"taskloop/internal/page"
	"taskloop/internal/query"
	"taskloop/internal/task"
	"taskloop/internal/taskapi"
	staticfiles "taskloop/static"
)

type Options struct {
	Config *config.Config
	// Repo defaults to a fresh MemoryRepo, seeded when Config.Store.Seed is set.
	Repo          task.Repo
	Clock         clock.Clock
	StaticDir     string
	UseDiskStatic bool
	Logger        *slog.Logger
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Clock = clock.Or(opts.Clock)

	repo := opts.Repo
	if repo == nil {
		mem := task.NewMemoryRepo(opts.Clock)
		if opts.Config.Store.Seed {
			if err := mem.Seed(context.Background(), task.DefaultSeed()); err != nil {
				return nil, err
			}
		}
		repo = mem
	}

	metrics := observability.New(repo.Len)
	hub := events.NewHub(opts.Logger, opts.Clock)

	r := mux.NewRouter()
	notFound := metrics.Middleware(http.HandlerFunc(httpmw.RouteNotFound))
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound
	r.Use(metrics.Middleware)

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticHandler)).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpmw.WriteJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "taskloop",
			"time":    opts.Clock.Now().UTC().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := repo.List(r.Context()); err != nil {
			httpmw.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task store unavailable",
			})
			return
		}
		httpmw.WriteJSON(w, http.StatusOK, map[string]any{
			"ok":            true,
			"service":       "taskloop",
			"time":          opts.Clock.Now().UTC().Format(time.RFC3339),
			"tasks":         repo.Len(),
			"event_clients": hub.Clients(),
		})
	}).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// registered ahead of /api/tasks/{id} so "events" is never read as an id
	r.Handle("/api/tasks/events", hub).Methods(http.MethodGet)

	taskHandler := taskapi.NewHandler(repo)
	taskHandler.SetPublisher(hub)
	taskHandler.SetObserver(metrics)
	taskHandler.SetLogger(opts.Logger)
	taskHandler.Register(r)

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		tasks, err := repo.List(r.Context())
		if err != nil {
			http.Error(w, "task store unavailable", http.StatusServiceUnavailable)
			return
		}
		q := query.ParseValues(r.URL.Query())
		templ.Handler(page.BoardPage(query.Apply(tasks, q), q)).ServeHTTP(w, r)
	}).Methods(http.MethodGet)

	return httpmw.Chain(
		r,
		httpmw.WithRequestID,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRecover(opts.Logger),
		httpmw.WithCORS,
	), nil
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKLOOP_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
