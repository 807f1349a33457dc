// Package genblog is a small AI-assisted blog built with Go, Echo, and templ.
// Each browser session gets an in-memory workspace seeded with sample posts;
// new posts are written by a hosted language model and prepended to the feed.
//
// Users provide templ components via the ViewFuncs struct; genblog handles
// sessions, the view-state machine, post generation and the HTTP surface.
package genblog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/genblog/analytics"
	"github.com/eringen/genblog/generator"
	"github.com/eringen/genblog/metrics"
)

// ViewFuncs holds the templ components genblog calls when rendering pages.
type ViewFuncs struct {
	Feed        func(posts []*BlogPost) templ.Component
	Post        func(post *BlogPost, related []*BlogPost) templ.Component
	Create      func(form CreateForm, tones []string, csrfToken string) templ.Component
	Analytics   func(series []analytics.Point, summary analytics.Summary) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App wires together workspaces, the generation client, handlers,
// middleware and user-provided templates.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Views      ViewFuncs
	Generator  *generator.Client
	Composer   *Composer
	Workspaces *Workspaces
	Analytics  *analytics.Handler
	Logger     *slog.Logger

	seed         *Seed
	limiter      *RateLimiter
	customRoutes []func(*App)
}

// New builds an App ready to Start.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		a.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if a.seed == nil {
		seed, err := LoadSeed()
		if err != nil {
			return nil, fmt.Errorf("genblog: %w", err)
		}
		a.seed = &seed
	}
	if a.Generator == nil {
		a.Generator = generator.New(
			generator.Config{APIKey: cfg.APIKey, Model: cfg.Model},
			generator.WithObserver(metrics.ObserveGeneration),
		)
	}
	if !a.Generator.Configured() {
		a.Logger.Warn("API_KEY is not set; post generation is disabled")
	}
	if a.Composer == nil {
		a.Composer = NewComposer()
	}

	a.Workspaces = NewWorkspaces(a.seed.Posts, cfg.WorkspaceTTL, cfg.MaxWorkspaces)
	a.Workspaces.onOpen = a.watchWorkspace
	a.limiter = NewRateLimiter(cfg.GenerateLimit, cfg.GenerateWindow)
	a.Analytics = analytics.NewHandler(a.seed.Analytics, func(c echo.Context) ([]analytics.Entry, error) {
		return Entries(WorkspaceFrom(c).Store.All()), nil
	})

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Start listens on Config.Addr until the server is shut down.
func (a *App) Start() error {
	a.Logger.Info("starting server", "addr", a.Config.Addr, "model", a.Generator.Model())
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully and releases background workers.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	a.Close()
	return err
}

// Close stops background goroutines. Call this when the app is shutting down.
func (a *App) Close() error {
	a.Workspaces.Close()
	a.limiter.Close()
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo
	ws := a.workspaceMiddleware

	e.GET("/", a.handleHome, ws)
	e.GET("/posts/:id/", a.handlePost, ws)
	e.GET("/create/", a.handleCreateForm, ws)
	e.POST("/create/", a.handleCreateSubmit, ws)
	e.POST("/create/cancel/", a.handleCreateCancel, ws)
	e.GET("/analytics/", a.handleAnalytics, ws)
	e.GET("/feed.xml", a.handleFeed, ws)

	api := e.Group("/api")
	api.GET("/state", a.handleState, ws)
	api.GET("/posts", a.handlePosts, ws)
	a.Analytics.RegisterRoutes(api, ws)

	e.GET("/metrics", metricsHandler())
}

// watchWorkspace logs every view transition of a new workspace.
func (a *App) watchWorkspace(ws *Workspace) {
	ws.Controller.Subscribe(func(st State) {
		attrs := []any{"workspace", ws.ID, "view", st.View.String()}
		if st.Selected != nil {
			attrs = append(attrs, "post", st.Selected.ID)
		}
		a.Logger.Debug("view changed", attrs...)
	})
}

// Entries converts posts into analytics entries.
func Entries(posts []*BlogPost) []analytics.Entry {
	out := make([]analytics.Entry, len(posts))
	for i, p := range posts {
		out[i] = analytics.Entry{Author: p.Author, Views: p.Views}
	}
	return out
}

// PathFor returns the route that renders st.
func PathFor(st State) string {
	switch st.View {
	case ViewReadPost:
		if st.Selected != nil {
			return "/posts/" + PathEscape(st.Selected.ID) + "/"
		}
	case ViewCreatePost:
		return "/create/"
	case ViewAnalytics:
		return "/analytics/"
	}
	return "/"
}
