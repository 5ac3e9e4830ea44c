package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mboer/treasurehunt/internal/clues"
	"github.com/mboer/treasurehunt/internal/dependencies/mocks"
	"github.com/mboer/treasurehunt/internal/factory"
	"github.com/mboer/treasurehunt/internal/testutil"
	"github.com/mboer/treasurehunt/internal/web"
)

const testAdminPassword = "hunt-secret"

const testChain = `
tag1:
  clue: "Clue one"
  next_tag: tag2
tag2:
  clue: "Clue two"
  next_tag: tag3
tag3:
  clue: "The treasure!"
  final: true
`

// webTestServer provides a test server for full-router web testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.App
	clock   *mocks.MockClock
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	chain, err := clues.Parse(strings.NewReader(testChain))
	require.NoError(t, err)

	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	app, err := factory.New(factory.Config{
		Chain:         chain,
		StorageType:   factory.StorageTypeMemory,
		AdminPassword: testAdminPassword,
		Logger:        logger,
		Clock:         clk,
	})
	require.NoError(t, err)

	router, err := web.NewRouter(web.RouterConfig{
		Logger:             logger,
		Store:              app.Store,
		Sessions:           app.Sessions,
		Registry:           app.Registry,
		HuntController:     app.HuntController,
		LeaderboardService: app.LeaderboardService,
		AdminService:       app.AdminService,
		BaseURL:            "http://hunt.test",
	})
	require.NoError(t, err)

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		clock:   clk,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// getFollowing makes a GET request and follows one redirect if present
func (ts *webTestServer) getFollowing(path string) *httptest.ResponseRecorder {
	rr := ts.get(path)
	if loc := rr.Header().Get("Location"); rr.Code == http.StatusSeeOther && loc != "" {
		return ts.get(loc)
	}
	return rr
}

// parseHTML parses the response body as HTML
func parseHTML(t *testing.T, rr *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	return doc
}

// register registers a player and leaves the session cookie in the jar
func (ts *webTestServer) register(name string) {
	ts.t.Helper()
	rr := ts.post("/", url.Values{"player_name": {name}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "expected redirect after registration")
	require.Equal(ts.t, "/start", rr.Header().Get("Location"))
	require.True(ts.t, ts.cookies.hasSession(), "expected session cookie to be set")
}

// finishHunt walks the registered player through the full chain
func (ts *webTestServer) finishHunt(total time.Duration) {
	ts.t.Helper()
	ts.get("/hunt/clue/tag1")
	ts.get("/hunt/clue/tag2")
	ts.clock.Advance(total)
	rr := ts.get("/hunt/clue/tag3")
	require.Equal(ts.t, http.StatusOK, rr.Code, "expected the final scan to render")
	ts.clock.Advance(-total)
}

// loginAdmin authenticates the current browser as admin
func (ts *webTestServer) loginAdmin() {
	ts.t.Helper()
	rr := ts.post("/admin/dashboard", url.Values{"password": {testAdminPassword}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "expected redirect after admin login")
	require.True(ts.t, ts.cookies.hasSession())
}

// newBrowser returns a second client sharing the server but with its own
// cookie jar
func (ts *webTestServer) newBrowser() *webTestServer {
	cp := *ts
	cp.cookies = newCookieJar()
	return &cp
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from the response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}
