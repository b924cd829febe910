package repository

import (
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

const (
	defaultLimit = 100

	// MaxLimit caps the page size of any task search.
	MaxLimit = 1000
)

// TaskQuery carries the raw query parameters of a task search. All fields
// except UserID arrive as unparsed strings; parsing rules live in build so
// they stay in one place.
type TaskQuery struct {
	UserID   int
	Search   string
	Status   string
	Project  string
	Category string
	Priority string
	From     string
	To       string
	Sort     string
	Page     string
	Limit    string
}

// taskSelectColumns joins the referenced project's name and colors so results
// come back populated in one round trip.
var taskSelectColumns = []string{
	"t.id", "t.user_id", "t.title", "t.note", "t.due_date", "t.is_done",
	"t.completed_at", "t.progress", "t.priority", "t.project_id", "t.category",
	"t.created_at", "t.updated_at",
	"p.id", "COALESCE(p.name, '')", "COALESCE(p.colors, '{}')",
}

// build assembles the filter, sort and pagination into one SQL statement.
//
// Rows with NULL due_date follow Postgres native null ordering (NULLS LAST on
// ASC, NULLS FIRST on DESC); they are deliberately not special-cased.
func (q TaskQuery) build() (string, []any, error) {
	b := squirrel.Select(taskSelectColumns...).
		From("tasks t").
		LeftJoin("projects p ON p.id = t.project_id").
		Where(squirrel.Eq{"t.user_id": q.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	switch q.Status {
	case "done":
		b = b.Where(squirrel.Eq{"t.is_done": true})
	case "pending":
		b = b.Where(squirrel.Eq{"t.is_done": false})
	}

	if q.Project != "" {
		// An id that is not a number cannot match any project.
		if id, err := strconv.Atoi(q.Project); err == nil {
			b = b.Where(squirrel.Eq{"t.project_id": id})
		} else {
			b = b.Where("FALSE")
		}
	}

	if q.Category != "" {
		b = b.Where(squirrel.Eq{"t.category": q.Category})
	}

	// An unparsable priority omits the filter entirely rather than
	// filtering on zero.
	if q.Priority != "" {
		if p, err := strconv.Atoi(q.Priority); err == nil {
			b = b.Where(squirrel.Eq{"t.priority": p})
		}
	}

	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"t.title": pattern},
			squirrel.ILike{"t.note": pattern},
		})
	}

	if from, ok := parseDate(q.From); ok {
		b = b.Where(squirrel.GtOrEq{"t.due_date": from})
	}
	if to, ok := parseDate(q.To); ok {
		b = b.Where(squirrel.LtOrEq{"t.due_date": to})
	}

	switch q.Sort {
	case "priority":
		b = b.OrderBy("t.priority DESC", "t.due_date ASC")
	case "createdAt":
		b = b.OrderBy("t.created_at DESC")
	default:
		b = b.OrderBy("t.due_date ASC", "t.created_at DESC")
	}

	page := parsePage(q.Page)
	limit := parseLimit(q.Limit)
	b = b.Offset(uint64((page - 1) * limit)).Limit(uint64(limit))

	return b.ToSql()
}

// escapeLike neutralizes LIKE metacharacters so user input is matched as a
// literal substring, never as a pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsePage(s string) int {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func parseLimit(s string) int {
	l, err := strconv.Atoi(s)
	if err != nil {
		return defaultLimit
	}
	if l < 1 {
		return 1
	}
	if l > MaxLimit {
		return MaxLimit
	}
	return l
}
