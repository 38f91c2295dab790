package sqlstore

import (
	"fmt"
	"strings"

	"github.com/phrazzld/todo-api/internal/store"
)

const taskColumns = `id, user_id, title, description, due_date, status, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so term matches as a literal substring.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// BuildTaskListQuery turns a listing filter into a parameterised SELECT for
// dialect d. The filter is normalized first; only allow-listed sort columns
// and directions are ever written into the statement text.
func BuildTaskListQuery(d Dialect, filter store.TaskFilter) (string, []any, error) {
	f, err := filter.Normalize()
	if err != nil {
		return "", nil, err
	}
	if !f.SortBy.Valid() {
		return "", nil, fmt.Errorf("%w: %q", store.ErrInvalidSortField, string(f.SortBy))
	}
	if !f.SortOrder.Valid() {
		return "", nil, fmt.Errorf("%w: %q", store.ErrInvalidSortOrder, string(f.SortOrder))
	}

	var b strings.Builder
	args := make([]any, 0, 6)

	b.WriteString(`SELECT ` + taskColumns + ` FROM todos WHERE user_id = ?`)
	args = append(args, f.AccountID)

	if f.Status != nil {
		b.WriteString(` AND status = ?`)
		args = append(args, string(*f.Status))
	}

	if f.Search != "" {
		like := d.LikeOperator()
		b.WriteString(` AND (title ` + like + ` ? OR description ` + like + ` ?)`)
		pattern := "%" + EscapeLike(f.Search) + "%"
		args = append(args, pattern, pattern)
	}

	b.WriteString(` ORDER BY ` + string(f.SortBy) + ` ` + string(f.SortOrder))
	if f.SortBy != store.SortByID {
		b.WriteString(`, id ` + string(f.SortOrder))
	}

	b.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset())

	return d.Rebind(b.String()), args, nil
}
