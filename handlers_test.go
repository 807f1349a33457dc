package genblog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/genblog/analytics"
	"github.com/eringen/genblog/generator"
	"github.com/eringen/genblog/logger"
	"github.com/eringen/genblog/metrics"
)

const draftJSON = `{"title":"T","excerpt":"E","content":"C","category":"Space"}`

func text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

// testViews renders plain-text markers so tests can assert on what the
// handlers passed in.
func testViews() ViewFuncs {
	return ViewFuncs{
		Feed: func(posts []*BlogPost) templ.Component {
			return text("feed:" + strings.Join(ids(posts), ","))
		},
		Post: func(p *BlogPost, related []*BlogPost) templ.Component {
			return text("post:" + p.ID + " related:" + strings.Join(ids(related), ","))
		},
		Create: func(f CreateForm, tones []string, csrf string) templ.Component {
			return text(fmt.Sprintf("create|topic=%s|tone=%s|error=%s|tones=%d|csrf=%s|", f.Topic, f.Tone, f.Error, len(tones), csrf))
		},
		Analytics: func(series []analytics.Point, s analytics.Summary) templ.Component {
			return text(fmt.Sprintf("analytics:%d:%d:%d:%s", len(series), s.TotalPosts, s.TotalViews, s.TopAuthor))
		},
		NotFound:    func() templ.Component { return text("not found") },
		ServerError: func() templ.Component { return text("server error") },
	}
}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newTestApp(t *testing.T, backend generator.Backend, opts ...Option) (*App, *testClient) {
	t.Helper()
	seed := Seed{
		Posts: seedPosts(),
		Analytics: []analytics.Point{
			{Name: "Mon", Views: 400, Visitors: 240},
			{Name: "Tue", Views: 300, Visitors: 139},
		},
	}
	cfg := SiteConfig{URL: "https://example.com", SessionSecret: "test-secret", GenerateLimit: 100}
	gen := generator.New(generator.Config{APIKey: "key"}, generator.WithBackend(backend))
	opts = append([]Option{WithSeed(seed), WithGenerator(gen), WithLogger(logger.Discard())}, opts...)

	app, err := New(cfg, testViews(), opts...)
	require.NoError(t, err)
	srv := httptest.NewServer(app.Echo)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return app, newTestClient(t, srv)
}

func newTestClient(t *testing.T, srv *httptest.Server) *testClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{
		t:      t,
		server: srv,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *testClient) get(path string) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.server.URL+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

func (c *testClient) post(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

var csrfRe = regexp.MustCompile(`csrf=([^|]*)\|`)

// openCreate visits the create page and returns the CSRF token it rendered.
func (c *testClient) openCreate() string {
	c.t.Helper()
	resp, body := c.get("/create/")
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	m := csrfRe.FindStringSubmatch(body)
	require.Len(c.t, m, 2, "no csrf token in %q", body)
	require.NotEmpty(c.t, m[1])
	return m[1]
}

func (c *testClient) submit(csrf, topic, tone string) (*http.Response, string) {
	c.t.Helper()
	return c.post("/create/", url.Values{"_csrf": {csrf}, "topic": {topic}, "tone": {tone}})
}

func (c *testClient) posts() []BlogPost {
	c.t.Helper()
	resp, body := c.get("/api/posts")
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var posts []BlogPost
	require.NoError(c.t, json.Unmarshal([]byte(body), &posts))
	return posts
}

func (c *testClient) state() StateResponse {
	c.t.Helper()
	_, body := c.get("/api/state")
	var st StateResponse
	require.NoError(c.t, json.Unmarshal([]byte(body), &st))
	return st
}

type countingBackend struct {
	calls atomic.Int32
	body  string
	err   error
}

func (b *countingBackend) Generate(ctx context.Context, req generator.Request) (string, error) {
	b.calls.Add(1)
	return b.body, b.err
}

func TestHomeListsSeed(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	resp, body := c.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "feed:1,2,3", body)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "home", c.state().View)
}

func TestPostDetail(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	resp, body := c.get("/posts/2/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "post:2 related:", body)

	st := c.state()
	assert.Equal(t, "read_post", st.View)
	assert.Equal(t, "2", st.SelectedID)
}

func TestPostDetailNotFound(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	resp, body := c.get("/posts/missing/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", body)
	assert.Equal(t, "home", c.state().View)
}

func TestUnknownRoute(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	resp, body := c.get("/nowhere/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", body)
}

func TestCreateFormDefaults(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	_, body := c.get("/create/")
	assert.Contains(t, body, "tone=Informative|")
	assert.Contains(t, body, "error=|")
	assert.Contains(t, body, "tones=5|")
	assert.Equal(t, "create_post", c.state().View)
}

// TestGenerateFlow covers the happy path: a generated post lands at the top
// of the feed above the three seed posts.
func TestGenerateFlow(t *testing.T) {
	backend := &countingBackend{body: draftJSON}
	_, c := newTestApp(t, backend)

	csrf := c.openCreate()
	resp, _ := c.submit(csrf, "Space travel", "Humorous")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, int32(1), backend.calls.Load())

	posts := c.posts()
	require.Len(t, posts, 4)
	assert.Equal(t, "T", posts[0].Title)
	assert.Equal(t, "Space", posts[0].Category)
	assert.Equal(t, DefaultAuthor, posts[0].Author)
	assert.Equal(t, 0, posts[0].Views)
	assert.Equal(t, "3", posts[3].ID)
	assert.Equal(t, "home", c.state().View)
}

func TestGenerateEmptyTopic(t *testing.T) {
	backend := &countingBackend{body: draftJSON}
	_, c := newTestApp(t, backend)

	csrf := c.openCreate()
	resp, body := c.submit(csrf, "   ", "Casual")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "error="+MsgTopicRequired)
	assert.Contains(t, body, "tone=Casual|")
	assert.Equal(t, int32(0), backend.calls.Load())
	assert.Len(t, c.posts(), 3)
}

func TestGenerateFailureKeepsForm(t *testing.T) {
	for name, backend := range map[string]*countingBackend{
		"backend error": {err: fmt.Errorf("boom")},
		"bad schema":    {body: `{"title":"T"}`},
		"empty body":    {body: ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, c := newTestApp(t, backend)
			csrf := c.openCreate()
			resp, body := c.submit(csrf, "Green tea", "Professional")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, "topic=Green tea|tone=Professional|error="+MsgGenerationFailed)
			assert.Len(t, c.posts(), 3)
			assert.Equal(t, "create_post", c.state().View)
		})
	}
}

func TestGenerateNotConfigured(t *testing.T) {
	gen := generator.New(generator.Config{})
	_, c := newTestApp(t, nil, WithGenerator(gen))

	_, body := c.get("/create/")
	assert.Contains(t, body, "error="+MsgNotConfigured)
	assert.False(t, c.state().GenerationEnabled)

	csrf := c.openCreate()
	_, body = c.submit(csrf, "AI", "")
	assert.Contains(t, body, "error="+MsgGenerationFailed)
	assert.Contains(t, body, "tone=Informative|")
}

func TestGenerateRateLimited(t *testing.T) {
	backend := &countingBackend{body: `{"title":"T","excerpt":"E","content":"C","category":"X"}`}
	app, c := newTestApp(t, backend)
	app.limiter.Close()
	app.limiter = NewRateLimiter(1, time.Minute)

	csrf := c.openCreate()
	resp, _ := c.submit(csrf, "one", "Casual")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	csrf = c.openCreate()
	resp, body := c.submit(csrf, "two", "Casual")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "error="+MsgRateLimited)
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestCreateRequiresCSRF(t *testing.T) {
	backend := &countingBackend{body: draftJSON}
	_, c := newTestApp(t, backend)
	c.openCreate()

	resp, _ := c.post("/create/", url.Values{"topic": {"x"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, int32(0), backend.calls.Load())
}

func TestCancelCreateHTTP(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	csrf := c.openCreate()

	resp, _ := c.post("/create/cancel/", url.Values{"_csrf": {csrf}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, "home", c.state().View)
	assert.Len(t, c.posts(), 3)
}

// TestStaleGenerationDiscarded cancels while the backend is still working;
// the late result must not reach the store.
func TestStaleGenerationDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := generator.BackendFunc(func(ctx context.Context, req generator.Request) (string, error) {
		close(started)
		<-release
		return draftJSON, nil
	})
	_, c := newTestApp(t, backend)
	csrf := c.openCreate()
	before := testutil.ToFloat64(metrics.GenerationsDiscarded)

	type result struct {
		status   int
		location string
	}
	done := make(chan result, 1)
	go func() {
		resp, _ := c.submit(csrf, "slow topic", "Casual")
		done <- result{resp.StatusCode, resp.Header.Get("Location")}
	}()

	<-started
	resp, _ := c.post("/create/cancel/", url.Values{"_csrf": {csrf}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	close(release)

	res := <-done
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, "/", res.location)
	assert.Len(t, c.posts(), 3)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.GenerationsDiscarded))
}

func TestSessionsAreIsolated(t *testing.T) {
	_, a := newTestApp(t, &countingBackend{body: draftJSON})
	b := newTestClient(t, a.server)

	csrf := a.openCreate()
	resp, _ := a.submit(csrf, "only a", "Casual")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	assert.Len(t, a.posts(), 4)
	assert.Len(t, b.posts(), 3)
}

func TestAnalyticsPage(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	resp, body := c.get("/analytics/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "analytics:2:3:5530:Sarah Khan", body)
	assert.Equal(t, "analytics", c.state().View)
}

func TestAnalyticsAPI(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	_, body := c.get("/api/analytics")

	var stats analytics.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	assert.Equal(t, analytics.Summary{TotalPosts: 3, TotalViews: 5530, TopAuthor: "Sarah Khan"}, stats.Summary)
	assert.Equal(t, 700, stats.TotalViews)
	assert.Equal(t, "Mon", stats.Peak)
}

func TestFeedXML(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	resp, body := c.get("/feed.xml")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, body, "<link>https://example.com/posts/1/</link>")
	assert.Less(t, strings.Index(body, "/posts/1/"), strings.Index(body, "/posts/3/"))
}

func TestMetricsEndpoint(t *testing.T) {
	_, c := newTestApp(t, &countingBackend{body: draftJSON})
	c.get("/")
	resp, body := c.get("/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "genblog_http_requests_total")
}

func TestUnknownRouteCreatesNoWorkspace(t *testing.T) {
	app, c := newTestApp(t, &countingBackend{body: draftJSON})
	for i := 0; i < 20; i++ {
		resp, _ := c.get(fmt.Sprintf("/no-such-page-%d/", i))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp, _ = c.get("/api/nothing")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	assert.Equal(t, 0, app.Workspaces.Len())

	c.get("/")
	assert.Equal(t, 1, app.Workspaces.Len())
}

func TestCookielessClientsStayBounded(t *testing.T) {
	app, c := newTestApp(t, &countingBackend{body: draftJSON})
	app.Workspaces.Close()
	app.Workspaces = NewWorkspaces(seedPosts(), time.Hour, 5)

	for i := 0; i < 30; i++ {
		fresh := newTestClient(t, c.server)
		resp, _ := fresh.get("/feed.xml")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 5, app.Workspaces.Len())
}

// TestCreateSubmitClientGone drives the handler with a request whose context
// is already done, as when the browser disconnects mid-generation.
func TestCreateSubmitClientGone(t *testing.T) {
	backend := generator.BackendFunc(func(ctx context.Context, req generator.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	app, _ := newTestApp(t, backend)

	ws := app.Workspaces.Open("")
	require.NoError(t, ws.Controller.Navigate(ViewCreatePost))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	form := url.Values{"topic": {"Space"}, "tone": {"Casual"}}
	req := httptest.NewRequest(http.MethodPost, "/create/", strings.NewReader(form.Encode())).WithContext(ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ec := app.Echo.NewContext(req, rec)
	ec.Set(workspaceCtx, ws)

	require.NoError(t, app.handleCreateSubmit(ec))
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 3, ws.Store.Len())
	assert.Equal(t, ViewCreatePost, ws.Controller.State().View)
}
