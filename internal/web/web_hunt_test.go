package web_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPageShowsFirstClue(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	doc := parseHTML(t, ts.get("/start"))
	assert.Contains(t, doc.Text(), "Clue one")
	assert.Contains(t, doc.Text(), "Alice")
}

func TestStartIsIdempotent(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	ts.get("/start")
	ts.clock.Advance(10 * time.Minute)
	ts.get("/start")
	ts.clock.Advance(5 * time.Minute)
	ts.finishHunt(0)

	// The timer ran from the first /start visit: 15 minutes total
	doc := parseHTML(t, ts.get("/leaderboard"))
	assert.Contains(t, doc.Text(), "15m 0s")
}

func TestScanAdvancesThroughChain(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	doc := parseHTML(t, ts.get("/hunt/clue/tag1"))
	assert.Contains(t, doc.Text(), "Clue one")

	doc = parseHTML(t, ts.get("/hunt/clue/tag2"))
	assert.Contains(t, doc.Text(), "Clue two")
}

func TestScanFinalTagShowsDurationAndRank(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	ts.get("/hunt/clue/tag1")
	ts.get("/hunt/clue/tag2")
	ts.clock.Advance(119900 * time.Millisecond)

	doc := parseHTML(t, ts.get("/hunt/clue/tag3"))
	assert.Contains(t, doc.Text(), "Congratulations")
	assert.Contains(t, doc.Text(), "1 minutes and 59 seconds")
	assert.Contains(t, doc.Text(), "#1")
}

func TestScanUnknownTag(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	rr := ts.get("/hunt/clue/bogus")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(t, rr)
	assert.Contains(t, doc.Text(), "This tag is not active in the current hunt.")
}

func TestScanOutOfOrderBeforeStart(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")

	doc := parseHTML(t, ts.get("/hunt/clue/tag2"))
	assert.Contains(t, doc.Text(), "you must scan the first tag (tag1)")
}

func TestScanWrongTagReorients(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")
	ts.get("/hunt/clue/tag1")

	// Expected tag is tag2; scanning tag3 shows the expected clue
	doc := parseHTML(t, ts.get("/hunt/clue/tag3"))
	assert.Contains(t, doc.Text(), "Incorrect tag scanned")
	assert.Contains(t, doc.Text(), "Clue two")
}

func TestRescanFirstTagIsNotARestart(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")
	ts.get("/hunt/clue/tag1")

	ts.clock.Advance(3 * time.Minute)
	doc := parseHTML(t, ts.get("/hunt/clue/tag1"))
	assert.Contains(t, doc.Text(), "Incorrect tag scanned")

	// Finish and verify the timer was never reset
	ts.get("/hunt/clue/tag2")
	ts.clock.Advance(2 * time.Minute)
	doc = parseHTML(t, ts.get("/hunt/clue/tag3"))
	assert.Contains(t, doc.Text(), "5 minutes and 0 seconds")
}

func TestScansAfterFinishRedirectToLeaderboard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.register("Alice")
	ts.finishHunt(4 * time.Minute)

	for _, path := range []string{"/hunt/clue/tag1", "/hunt/clue/tag3", "/start", "/resume"} {
		rr := ts.get(path)
		require.Equal(t, http.StatusSeeOther, rr.Code, "path %s", path)
		assert.Equal(t, "/leaderboard", rr.Header().Get("Location"), "path %s", path)
	}
}

func TestLeaderboardOrderingAndFormatting(t *testing.T) {
	ts := newWebTestServer(t)

	players := []struct {
		name     string
		duration time.Duration
	}{
		{"Slow", 10 * time.Minute},
		{"Fast", 2 * time.Minute},
		{"Middle", 5 * time.Minute},
	}
	for _, p := range players {
		browser := ts.newBrowser()
		browser.register(p.name)
		browser.finishHunt(p.duration)
	}

	doc := parseHTML(t, ts.get("/leaderboard"))
	rows := doc.Find("table tr")
	// Header plus three entries
	require.Equal(t, 4, rows.Length())

	first := rows.Eq(1).Text()
	assert.Contains(t, first, "Fast")
	assert.Contains(t, first, "2m 0s")
	assert.Contains(t, rows.Eq(2).Text(), "Middle")
	assert.Contains(t, rows.Eq(3).Text(), "Slow")
}

func TestLeaderboardShowsTopTenOnly(t *testing.T) {
	ts := newWebTestServer(t)

	for i := 0; i < 12; i++ {
		browser := ts.newBrowser()
		browser.register(string(rune('A' + i)))
		browser.finishHunt(time.Duration(i+1) * time.Minute)
	}

	doc := parseHTML(t, ts.get("/leaderboard"))
	// Header plus ten entries
	assert.Equal(t, 11, doc.Find("table tr").Length())
	assert.NotContains(t, doc.Text(), "12m")
}

func TestLeaderboardEmpty(t *testing.T) {
	ts := newWebTestServer(t)

	doc := parseHTML(t, ts.get("/leaderboard"))
	assert.Contains(t, doc.Text(), "Nobody has finished")
}
