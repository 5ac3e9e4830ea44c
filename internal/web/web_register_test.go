package web_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationPageRenders(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr)
	assert.Equal(t, 1, doc.Find(`input[name="player_name"]`).Length())
}

func TestRegistrationHappyPath(t *testing.T) {
	ts := newWebTestServer(t)

	ts.register("Alice")

	rr := ts.get("/start")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr)
	assert.Contains(t, doc.Text(), "Alice")
	assert.Contains(t, doc.Text(), "Clue one")
}

func TestRegistrationEmptyName(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/", url.Values{"player_name": {"   "}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	doc := parseHTML(t, ts.get("/"))
	assert.Contains(t, doc.Find(".flash").Text(), "cannot be empty")
}

func TestRegistrationProfaneName(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/", url.Values{"player_name": {"klootzak"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(t, ts.get("/"))
	assert.Contains(t, doc.Find(".flash").Text(), "inappropriate language")
}

func TestRegistrationDuplicateName(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	other := ts.newBrowser()
	rr := other.post("/", url.Values{"player_name": {"Alice"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	doc := parseHTML(t, other.get("/"))
	assert.Contains(t, doc.Find(".flash").Text(), "already on a voyage")
}

func TestReturningUnfinishedPlayerIsSentToTheirClue(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")
	ts.get("/hunt/clue/tag1")

	rr := ts.get("/")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/resume", rr.Header().Get("Location"))

	doc := parseHTML(t, ts.get("/resume"))
	assert.Contains(t, doc.Text(), "Clue two")
}

func TestReturningFinishedPlayerIsSentToLeaderboard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")
	ts.finishHunt(5 * time.Minute)

	rr := ts.get("/")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/leaderboard", rr.Header().Get("Location"))

	doc := parseHTML(t, ts.get("/leaderboard"))
	assert.Contains(t, doc.Find(".flash").Text(), "already completed the hunt")
}

func TestProtectedPagesRequireRegistration(t *testing.T) {
	ts := newWebTestServer(t)

	for _, path := range []string{"/start", "/resume", "/hunt/clue/tag1"} {
		rr := ts.get(path)
		require.Equal(t, http.StatusSeeOther, rr.Code, "path %s", path)
		assert.Equal(t, "/", rr.Header().Get("Location"), "path %s", path)
	}

	doc := parseHTML(t, ts.get("/"))
	assert.Contains(t, doc.Find(".flash").Text(), "register")
}

func TestStaleSessionIsCleared(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	// Admin removes the player behind the browser's back
	admin := ts.newBrowser()
	admin.loginAdmin()
	doc := parseHTML(t, admin.get("/admin/dashboard"))
	form := doc.Find(`form[action^="/admin/remove_player/"]`)
	require.Equal(t, 1, form.Length())
	action, _ := form.Attr("action")
	rr := admin.post(action, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	// The stale browser is bounced to registration and loses its cookie
	rr = ts.get("/start")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())
}

func TestUnknownRouteRedirectsToRegistration(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/no/such/page")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	doc := parseHTML(t, ts.get("/"))
	assert.NotEmpty(t, doc.Find(".flash").Text())
}

func TestHealthEndpoint(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/health")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
