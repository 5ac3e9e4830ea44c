package web_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminDashboardShowsLoginWithoutSession(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/admin/dashboard")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(t, rr)
	assert.Equal(t, 1, doc.Find(`input[name="password"]`).Length())
	assert.NotContains(t, doc.Text(), "Danger zone")
}

func TestAdminLoginWrongPassword(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/admin/dashboard", url.Values{"password": {"wrong"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(t, ts.get("/admin/dashboard"))
	assert.Contains(t, doc.Find(".flash").Text(), "Incorrect admin password")
	assert.Equal(t, 1, doc.Find(`input[name="password"]`).Length())
}

func TestAdminLoginAndDashboard(t *testing.T) {
	ts := newWebTestServer(t)

	player := ts.newBrowser()
	player.register("Alice")
	player.finishHunt(3 * time.Minute)

	ts.loginAdmin()

	doc := parseHTML(t, ts.get("/admin/dashboard"))
	assert.Contains(t, doc.Text(), "Alice")
	assert.Contains(t, doc.Text(), "finished")
	assert.Contains(t, doc.Text(), "3m 0s")
	assert.Contains(t, doc.Text(), "Danger zone")
}

func TestAdminActionsRequireAuth(t *testing.T) {
	ts := newWebTestServer(t)

	paths := []string{
		"/admin/reset",
		"/admin/remove_player/some-id",
		"/admin/change_name/some-id",
	}
	for _, path := range paths {
		rr := ts.post(path, url.Values{"player_name": {"X"}})
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "path %s", path)
		assert.Empty(t, rr.Header().Get("Location"), "no redirect for %s", path)
	}

	rr := ts.get("/admin/qr/tag1")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPlayerSessionIsNotAdmin(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	rr := ts.post("/admin/reset", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminRenamePlayer(t *testing.T) {
	ts := newWebTestServer(t)

	player := ts.newBrowser()
	player.register("Alice")

	ts.loginAdmin()

	doc := parseHTML(t, ts.get("/admin/dashboard"))
	form := doc.Find(`form[action^="/admin/change_name/"]`)
	require.Equal(t, 1, form.Length())
	action, _ := form.Attr("action")

	rr := ts.post(action, url.Values{"player_name": {"Alicia"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc = parseHTML(t, ts.get("/admin/dashboard"))
	assert.Contains(t, doc.Find(".flash").Text(), "renamed to 'Alicia'")
	assert.Contains(t, doc.Text(), "Alicia")

	// The player's session still resolves to the renamed player
	playerDoc := parseHTML(t, player.get("/resume"))
	assert.Contains(t, playerDoc.Text(), "Alicia")
}

func TestAdminRenameCollision(t *testing.T) {
	ts := newWebTestServer(t)

	a := ts.newBrowser()
	a.register("Alice")
	b := ts.newBrowser()
	b.register("Bob")

	ts.loginAdmin()

	doc := parseHTML(t, ts.get("/admin/dashboard"))
	form := doc.Find(`form[action^="/admin/change_name/"]`).First()
	action, _ := form.Attr("action")

	rr := ts.post(action, url.Values{"player_name": {"Bob"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc = parseHTML(t, ts.get("/admin/dashboard"))
	assert.Contains(t, doc.Find(".flash").Text(), "already on a voyage")
	assert.Contains(t, doc.Text(), "Alice")
}

func TestAdminRemovePlayer(t *testing.T) {
	ts := newWebTestServer(t)

	player := ts.newBrowser()
	player.register("Alice")

	ts.loginAdmin()

	doc := parseHTML(t, ts.get("/admin/dashboard"))
	form := doc.Find(`form[action^="/admin/remove_player/"]`)
	require.Equal(t, 1, form.Length())
	action, _ := form.Attr("action")

	rr := ts.post(action, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc = parseHTML(t, ts.get("/admin/dashboard"))
	assert.Contains(t, doc.Text(), "No players registered")

	// The freed name can be registered again
	c := ts.newBrowser()
	c.register("Alice")
}

func TestAdminReset(t *testing.T) {
	ts := newWebTestServer(t)

	for _, name := range []string{"Alice", "Bob"} {
		browser := ts.newBrowser()
		browser.register(name)
		browser.finishHunt(2 * time.Minute)
	}

	ts.loginAdmin()

	rr := ts.post("/admin/reset", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(t, ts.get("/admin/dashboard"))
	assert.Contains(t, doc.Find(".flash").Text(), "has been reset")
	assert.Contains(t, doc.Text(), "No players registered")

	doc = parseHTML(t, ts.get("/leaderboard"))
	assert.Contains(t, doc.Text(), "Nobody has finished")
}

func TestAdminQRCode(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAdmin()

	rr := ts.get("/admin/qr/tag1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.NotZero(t, rr.Body.Len())

	rr = ts.get("/admin/qr/bogus")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminDashboardListsTags(t *testing.T) {
	ts := newWebTestServer(t)
	ts.loginAdmin()

	doc := parseHTML(t, ts.get("/admin/dashboard"))
	links := doc.Find(`a[href^="/admin/qr/"]`)
	assert.Equal(t, 3, links.Length())
}
