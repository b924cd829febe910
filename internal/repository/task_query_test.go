package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, q TaskQuery) (string, []any) {
	t.Helper()
	sql, args, err := q.build()
	require.NoError(t, err)
	return sql, args
}

func TestBuildAlwaysScopesToOwner(t *testing.T) {
	sql, args := mustBuild(t, TaskQuery{UserID: 7})
	assert.Contains(t, sql, "t.user_id = $1")
	assert.Equal(t, []any{7}, args[:1])
}

func TestBuildDefaults(t *testing.T) {
	sql, _ := mustBuild(t, TaskQuery{UserID: 7})
	assert.Contains(t, sql, "ORDER BY t.due_date ASC, t.created_at DESC")
	assert.Contains(t, sql, "LIMIT 100")
	assert.Contains(t, sql, "OFFSET 0")
	assert.Contains(t, sql, "LEFT JOIN projects p ON p.id = t.project_id")
}

func TestBuildStatusFilter(t *testing.T) {
	sql, args := mustBuild(t, TaskQuery{UserID: 7, Status: "done"})
	assert.Contains(t, sql, "t.is_done")
	assert.Contains(t, args, true)

	sql, args = mustBuild(t, TaskQuery{UserID: 7, Status: "pending"})
	assert.Contains(t, sql, "t.is_done")
	assert.Contains(t, args, false)

	// Any other value leaves the filter out.
	sql, _ = mustBuild(t, TaskQuery{UserID: 7, Status: "archived"})
	assert.NotContains(t, sql, "t.is_done")
}

func TestBuildPriorityFilter(t *testing.T) {
	_, args := mustBuild(t, TaskQuery{UserID: 7, Priority: "2"})
	assert.Contains(t, args, 2)

	// An unparsable priority is omitted, not treated as zero.
	withBad, badArgs := mustBuild(t, TaskQuery{UserID: 7, Priority: "notanumber"})
	without, withoutArgs := mustBuild(t, TaskQuery{UserID: 7})
	assert.Equal(t, without, withBad)
	assert.Equal(t, withoutArgs, badArgs)
}

func TestBuildStatusAndPriorityCombine(t *testing.T) {
	sql, args := mustBuild(t, TaskQuery{UserID: 7, Status: "done", Priority: "2"})
	assert.Contains(t, sql, "t.is_done")
	assert.Contains(t, sql, "t.priority")
	assert.Contains(t, args, true)
	assert.Contains(t, args, 2)
}

func TestBuildProjectFilter(t *testing.T) {
	_, args := mustBuild(t, TaskQuery{UserID: 7, Project: "3"})
	assert.Contains(t, args, 3)

	// A non-numeric id cannot match any project.
	sql, _ := mustBuild(t, TaskQuery{UserID: 7, Project: "abc"})
	assert.Contains(t, sql, "FALSE")
}

func TestBuildCategoryFilter(t *testing.T) {
	sql, args := mustBuild(t, TaskQuery{UserID: 7, Category: "work"})
	assert.Contains(t, sql, "t.category")
	assert.Contains(t, args, "work")
}

func TestBuildSearchFilter(t *testing.T) {
	sql, args := mustBuild(t, TaskQuery{UserID: 7, Search: "report"})
	assert.Contains(t, sql, "t.title ILIKE")
	assert.Contains(t, sql, "t.note ILIKE")
	assert.Contains(t, sql, " OR ")
	assert.Contains(t, args, "%report%")
}

func TestBuildSearchEscapesMetacharacters(t *testing.T) {
	_, args := mustBuild(t, TaskQuery{UserID: 7, Search: `50%_done\`})
	assert.Contains(t, args, `%50\%\_done\\%`)
}

func TestBuildDateRange(t *testing.T) {
	sql, _ := mustBuild(t, TaskQuery{UserID: 7, From: "2025-01-01", To: "2025-12-31"})
	assert.Contains(t, sql, "t.due_date >=")
	assert.Contains(t, sql, "t.due_date <=")

	// Either bound may be given independently.
	sql, _ = mustBuild(t, TaskQuery{UserID: 7, From: "2025-01-01"})
	assert.Contains(t, sql, "t.due_date >=")
	assert.NotContains(t, sql, "t.due_date <=")

	// Unparsable dates are dropped.
	sql, _ = mustBuild(t, TaskQuery{UserID: 7, From: "soon"})
	assert.NotContains(t, sql, "t.due_date >=")
}

func TestBuildSort(t *testing.T) {
	sql, _ := mustBuild(t, TaskQuery{UserID: 7, Sort: "priority"})
	assert.Contains(t, sql, "ORDER BY t.priority DESC, t.due_date ASC")

	sql, _ = mustBuild(t, TaskQuery{UserID: 7, Sort: "createdAt"})
	assert.Contains(t, sql, "ORDER BY t.created_at DESC")

	sql, _ = mustBuild(t, TaskQuery{UserID: 7, Sort: "bogus"})
	assert.Contains(t, sql, "ORDER BY t.due_date ASC, t.created_at DESC")
}

func TestBuildPaginationClamps(t *testing.T) {
	sql, _ := mustBuild(t, TaskQuery{UserID: 7, Limit: "0"})
	assert.Contains(t, sql, "LIMIT 1")
	assert.NotContains(t, sql, "LIMIT 10")

	sql, _ = mustBuild(t, TaskQuery{UserID: 7, Limit: "5000"})
	assert.Contains(t, sql, "LIMIT 1000")

	sql, _ = mustBuild(t, TaskQuery{UserID: 7, Page: "-3"})
	assert.Contains(t, sql, "OFFSET 0")

	sql, _ = mustBuild(t, TaskQuery{UserID: 7, Page: "3", Limit: "20"})
	assert.Contains(t, sql, "LIMIT 20")
	assert.Contains(t, sql, "OFFSET 40")
}

func TestBuildPlaceholdersAreDollar(t *testing.T) {
	sql, _ := mustBuild(t, TaskQuery{UserID: 7, Status: "done", Category: "work"})
	assert.False(t, strings.Contains(sql, "?"), "expected dollar placeholders, got: %s", sql)
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, parsePage(""))
	assert.Equal(t, 1, parsePage("abc"))
	assert.Equal(t, 1, parsePage("-3"))
	assert.Equal(t, 1, parsePage("0"))
	assert.Equal(t, 5, parsePage("5"))
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 100, parseLimit(""))
	assert.Equal(t, 100, parseLimit("abc"))
	assert.Equal(t, 1, parseLimit("0"))
	assert.Equal(t, 1, parseLimit("-10"))
	assert.Equal(t, 1000, parseLimit("5000"))
	assert.Equal(t, 250, parseLimit("250"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `plain`, escapeLike(`plain`))
	assert.Equal(t, `\%`, escapeLike(`%`))
	assert.Equal(t, `\_`, escapeLike(`_`))
	assert.Equal(t, `\\`, escapeLike(`\`))
}
