package listctrl_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d10sys/d10admin/internal/listctrl"
)

type row struct {
	ID   string
	Name string
}

func rows(ids ...string) []row {
	out := make([]row, len(ids))
	for i, id := range ids {
		out[i] = row{ID: id, Name: "row " + id}
	}

	return out
}

func newSearch() *listctrl.Controller[row] {
	return listctrl.New(listctrl.Config[row]{
		ID:   func(r row) string { return r.ID },
		Mode: listctrl.ShowNothing,
	})
}

func TestDebounce_BurstCommitsOnce(t *testing.T) {
	c := newSearch()

	// "a", "ab", "abc" typed within the quiet window: only the last
	// token is still valid when its tick fires.
	t1 := c.SetInput("a")
	t2 := c.SetInput("ab")
	t3 := c.SetInput("abc")

	_, ok := c.CommitInput(t1)
	assert.False(t, ok)
	_, ok = c.CommitInput(t2)
	assert.False(t, ok)

	req, ok := c.CommitInput(t3)
	require.True(t, ok)
	assert.Equal(t, listctrl.KindSearch, req.Kind)
	assert.Equal(t, "abc", req.Query)
	assert.True(t, c.IsSearching())
}

func TestDebounce_SeparatedKeystrokesCommitTwice(t *testing.T) {
	c := newSearch()

	t1 := c.SetInput("a")
	req1, ok := c.CommitInput(t1)
	require.True(t, ok)
	assert.Equal(t, "a", req1.Query)

	t2 := c.SetInput("ab")
	req2, ok := c.CommitInput(t2)
	require.True(t, ok)
	assert.Equal(t, "ab", req2.Query)
	assert.Greater(t, req2.Gen, req1.Gen)
}

func TestCommit_UnchangedQueryIsNoOp(t *testing.T) {
	c := newSearch()

	req, ok := c.CommitInput(c.SetInput("abc"))
	require.True(t, ok)
	require.True(t, c.Apply(req.Gen, rows("1"), 0))

	// Trailing whitespace trims to the same committed query.
	_, ok = c.CommitInput(c.SetInput("abc "))
	assert.False(t, ok)
	assert.Len(t, c.Items(), 1)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	c := newSearch()

	reqA, ok := c.CommitInput(c.SetInput("a"))
	require.True(t, ok)

	reqAB, ok := c.CommitInput(c.SetInput("ab"))
	require.True(t, ok)

	// "ab" resolves first.
	require.True(t, c.Apply(reqAB.Gen, rows("ab-1", "ab-2"), 0))

	// "a" resolves later; it must not overwrite fresher results.
	assert.False(t, c.Apply(reqA.Gen, rows("a-1"), 0))

	require.Len(t, c.Items(), 2)
	assert.Equal(t, "ab-1", c.Items()[0].ID)
	assert.Equal(t, "ab-1", c.SelectedID())
	assert.False(t, c.IsSearching())
}

func TestStaleFailureIsIgnored(t *testing.T) {
	c := newSearch()

	reqA, ok := c.CommitInput(c.SetInput("a"))
	require.True(t, ok)

	reqAB, ok := c.CommitInput(c.SetInput("ab"))
	require.True(t, ok)

	assert.False(t, c.Fail(reqA.Gen))
	assert.True(t, c.IsSearching())

	assert.True(t, c.Fail(reqAB.Gen))
	assert.False(t, c.IsSearching())
}

func TestEmptyQuery_ShowNothingClearsListAndCancelsInFlight(t *testing.T) {
	c := newSearch()

	req, ok := c.CommitInput(c.SetInput("abc"))
	require.True(t, ok)
	require.True(t, c.Apply(req.Gen, rows("1", "2"), 0))

	inflight, ok := c.CommitInput(c.SetInput("abcd"))
	require.True(t, ok)

	// Query cleared before the in-flight response lands.
	_, ok = c.CommitInput(c.SetInput("  "))
	assert.False(t, ok)
	assert.Empty(t, c.Items())
	assert.Empty(t, c.SelectedID())
	assert.False(t, c.IsSearching())

	// The in-flight response is now stale.
	assert.False(t, c.Apply(inflight.Gen, rows("late"), 0))
	assert.Empty(t, c.Items())
}

func TestEmptyQuery_FetchRecent(t *testing.T) {
	c := listctrl.New(listctrl.Config[row]{
		ID:   func(r row) string { return r.ID },
		Mode: listctrl.FetchRecent,
	})

	req, ok := c.Refresh()
	require.True(t, ok)
	assert.Equal(t, listctrl.KindRecent, req.Kind)

	require.True(t, c.Apply(req.Gen, rows("r1", "r2"), 0))
	assert.Equal(t, "r1", c.SelectedID())

	// Typing a query switches to search; clearing falls back to recent.
	sreq, ok := c.CommitInput(c.SetInput("x"))
	require.True(t, ok)
	assert.Equal(t, listctrl.KindSearch, sreq.Kind)

	rreq, ok := c.CommitInput(c.SetInput(""))
	require.True(t, ok)
	assert.Equal(t, listctrl.KindRecent, rreq.Kind)
}

func TestSelection_KeyboardClamping(t *testing.T) {
	c := newSearch()

	// Empty result set: arrows are no-ops.
	c.MoveDown()
	c.MoveUp()
	assert.Empty(t, c.SelectedID())

	req, ok := c.CommitInput(c.SetInput("q"))
	require.True(t, ok)
	require.True(t, c.Apply(req.Gen, rows("1", "2", "3"), 0))

	// Apply selects the first row.
	assert.Equal(t, "1", c.SelectedID())

	c.MoveDown()
	assert.Equal(t, "2", c.SelectedID())
	c.MoveDown()
	c.MoveDown() // clamped at the last row
	assert.Equal(t, "3", c.SelectedID())

	c.MoveUp()
	c.MoveUp()
	c.MoveUp() // clamped at the first row
	assert.Equal(t, "1", c.SelectedID())
}

func TestSelection_NoSelectionArrowDefaults(t *testing.T) {
	c := newSearch()

	req, ok := c.CommitInput(c.SetInput("q"))
	require.True(t, ok)
	require.True(t, c.Apply(req.Gen, rows("1", "2", "3"), 0))

	c.ClearSelection()
	c.MoveDown()
	assert.Equal(t, "1", c.SelectedID())

	c.ClearSelection()
	c.MoveUp()
	assert.Equal(t, "3", c.SelectedID())
}

func TestSelection_ClickThenRefreshedSetWithoutRow(t *testing.T) {
	c := newSearch()

	req, ok := c.CommitInput(c.SetInput("q"))
	require.True(t, ok)
	require.True(t, c.Apply(req.Gen, rows("1", "2", "3"), 0))

	require.True(t, c.Select("3"))
	assert.Equal(t, "3", c.SelectedID())
	assert.Equal(t, 2, c.SelectedIndex())

	// A refreshed result set that no longer contains "3" resets the
	// selection to the new first row.
	req2, ok := c.Refresh()
	require.True(t, ok)
	require.True(t, c.Apply(req2.Gen, rows("4", "5"), 0))
	assert.Equal(t, "4", c.SelectedID())
}

func TestSelect_UnknownIDIgnored(t *testing.T) {
	c := newSearch()

	req, ok := c.CommitInput(c.SetInput("q"))
	require.True(t, ok)
	require.True(t, c.Apply(req.Gen, rows("1"), 0))

	assert.False(t, c.Select("nope"))
	assert.Equal(t, "1", c.SelectedID())
}

func newPaginated() *listctrl.Controller[row] {
	return listctrl.New(listctrl.Config[row]{
		ID:       func(r row) string { return r.ID },
		Mode:     listctrl.ListAll,
		PageSize: 15,
	})
}

func TestPagination_Bounds(t *testing.T) {
	c := newPaginated()

	req, ok := c.Refresh()
	require.True(t, ok)
	assert.Equal(t, listctrl.KindList, req.Kind)
	assert.Equal(t, 0, req.Page)
	assert.Equal(t, 15, req.Size)

	require.True(t, c.Apply(req.Gen, rows("1"), 3))
	assert.Equal(t, 3, c.TotalPages())
	assert.False(t, c.CanPrevPage())
	assert.True(t, c.CanNextPage())

	// Prev at page 0 is a no-op.
	_, ok = c.PrevPage()
	assert.False(t, ok)

	next, ok := c.NextPage()
	require.True(t, ok)
	assert.Equal(t, 1, next.Page)
	require.True(t, c.Apply(next.Gen, rows("2"), 3))

	next, ok = c.NextPage()
	require.True(t, ok)
	assert.Equal(t, 2, next.Page)
	require.True(t, c.Apply(next.Gen, rows("3"), 3))

	// Next at the last page is a no-op.
	_, ok = c.NextPage()
	assert.False(t, ok)
	assert.True(t, c.CanPrevPage())
}

func TestPagination_QueryChangeResetsPage(t *testing.T) {
	c := newPaginated()

	req, ok := c.Refresh()
	require.True(t, ok)
	require.True(t, c.Apply(req.Gen, rows("1"), 5))

	next, ok := c.NextPage()
	require.True(t, ok)
	require.True(t, c.Apply(next.Gen, rows("2"), 5))
	require.Equal(t, 1, c.Page())

	search, ok := c.CommitInput(c.SetInput("azulejo"))
	require.True(t, ok)
	assert.Equal(t, 0, search.Page)
	assert.Equal(t, "azulejo", search.Query)
	assert.Equal(t, 0, c.Page())
}

func TestPagination_EmptyQueryStillLists(t *testing.T) {
	c := newPaginated()

	// Products list even with no query, unlike the clients screen.
	req, ok := c.Refresh()
	require.True(t, ok)
	assert.Equal(t, "", req.Query)
	assert.Equal(t, listctrl.KindList, req.Kind)
}

func TestGenerationsAreMonotonic(t *testing.T) {
	c := newSearch()

	var last int
	for i := 0; i < 5; i++ {
		req, ok := c.CommitInput(c.SetInput(fmt.Sprintf("q%d", i)))
		require.True(t, ok)
		assert.Greater(t, req.Gen, last)
		last = req.Gen
	}
}
