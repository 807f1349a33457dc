package genblog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/genblog/analytics"
	"github.com/eringen/genblog/generator"
	"github.com/eringen/genblog/metrics"
)

// Messages shown on the create form.
const (
	MsgTopicRequired    = "Please enter a topic."
	MsgGenerationFailed = "Failed to generate content. Please try again or check your API Key."
	MsgRateLimited      = "Too many requests. Please wait a minute and try again."
	MsgNotConfigured    = "Post generation is not configured. Set API_KEY and restart the server."
)

func (a *App) handleHome(c echo.Context) error {
	ws := WorkspaceFrom(c)
	if err := ws.Controller.Navigate(ViewHome); err != nil {
		return err
	}
	return Render(c, a.Views.Feed(ws.Store.All()))
}

func (a *App) handlePost(c echo.Context) error {
	ws := WorkspaceFrom(c)
	post, err := ws.Controller.SelectPostByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.Post(post, RelatedPosts(post, ws.Store.All(), 3)))
}

func (a *App) handleCreateForm(c echo.Context) error {
	ws := WorkspaceFrom(c)
	if err := ws.Controller.Navigate(ViewCreatePost); err != nil {
		return err
	}
	form := CreateForm{Tone: string(generator.ToneInformative)}
	if !a.Generator.Configured() {
		form.Error = MsgNotConfigured
	}
	return a.renderCreate(c, http.StatusOK, form)
}

// handleCreateSubmit runs one generation. The request blocks until the
// backend answers; if the workspace changed view meanwhile the post is
// discarded and the browser is sent wherever the workspace now is.
func (a *App) handleCreateSubmit(c echo.Context) error {
	ws := WorkspaceFrom(c)
	form := CreateForm{
		Topic: c.FormValue("topic"),
		Tone:  c.FormValue("tone"),
	}
	if form.Tone == "" {
		form.Tone = string(generator.ToneInformative)
	}
	if strings.TrimSpace(form.Topic) == "" {
		form.Error = MsgTopicRequired
		return a.renderCreate(c, http.StatusUnprocessableEntity, form)
	}
	if !a.limiter.Allow(c.RealIP()) {
		form.Error = MsgRateLimited
		return a.renderCreate(c, http.StatusTooManyRequests, form)
	}

	// A submit from a stale tab re-enters the create view.
	if ws.Controller.State().View != ViewCreatePost {
		if err := ws.Controller.Navigate(ViewCreatePost); err != nil {
			return err
		}
	}
	ticket, err := ws.Controller.BeginGeneration()
	if errors.Is(err, ErrNotCreating) {
		// Another tab of the same session navigated away in between.
		return c.Redirect(http.StatusSeeOther, PathFor(ws.Controller.State()))
	}
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var res generator.Result
	select {
	case res = <-a.Generator.GenerateAsync(ctx, form.Topic, form.Tone):
	case <-ctx.Done():
	}
	if ctx.Err() != nil {
		// The client went away; the draft, if any, is dropped.
		a.Logger.Info("generation abandoned", "workspace", ws.ID, "err", ctx.Err())
		return nil
	}
	if res.Err != nil {
		a.Logger.Warn("generation failed",
			"workspace", ws.ID, "kind", generator.Kind(res.Err), "err", res.Err)
		form.Error = MsgGenerationFailed
		return a.renderCreate(c, http.StatusOK, form)
	}

	post := a.Composer.Compose(res.Draft)
	if err := ws.Controller.CompleteGeneration(ticket, post); err != nil {
		if errors.Is(err, ErrStaleGeneration) {
			metrics.GenerationsDiscarded.Inc()
			a.Logger.Info("generation discarded", "workspace", ws.ID, "title", post.Title)
			return c.Redirect(http.StatusSeeOther, PathFor(ws.Controller.State()))
		}
		return err
	}
	metrics.PostsCreated.Inc()
	a.Logger.Info("post created", "workspace", ws.ID, "id", post.ID, "title", post.Title)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleCreateCancel(c echo.Context) error {
	WorkspaceFrom(c).Controller.CancelCreate()
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleAnalytics(c echo.Context) error {
	ws := WorkspaceFrom(c)
	if err := ws.Controller.Navigate(ViewAnalytics); err != nil {
		return err
	}
	summary := analytics.Summarize(Entries(ws.Store.All()))
	return Render(c, a.Views.Analytics(a.Analytics.Series(), summary))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, WorkspaceFrom(c).Store.All())
}

// StateResponse is the JSON form of a workspace's controller state.
type StateResponse struct {
	View              string `json:"view"`
	SelectedID        string `json:"selected_id,omitempty"`
	PostCount         int    `json:"post_count"`
	GenerationEnabled bool   `json:"generation_enabled"`
}

func (a *App) handleState(c echo.Context) error {
	ws := WorkspaceFrom(c)
	st := ws.Controller.State()
	resp := StateResponse{
		View:              st.View.String(),
		PostCount:         ws.Store.Len(),
		GenerationEnabled: a.Generator.Configured(),
	}
	if st.Selected != nil {
		resp.SelectedID = st.Selected.ID
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handlePosts(c echo.Context) error {
	return c.JSON(http.StatusOK, WorkspaceFrom(c).Store.All())
}

func (a *App) renderCreate(c echo.Context, code int, form CreateForm) error {
	tones := make([]string, len(generator.Tones))
	for i, t := range generator.Tones {
		tones[i] = string(t)
	}
	return RenderStatus(c, code, a.Views.Create(form, tones, CsrfToken(c)))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "path", c.Request().URL.Path, "err", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
