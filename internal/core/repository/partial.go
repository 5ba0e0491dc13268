package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

// PartialUpdate is the SET clause of an UPDATE built from a sparse field list.
// SetCols[i] binds Values[i] at placeholder $i+1.
type PartialUpdate struct {
	SetCols []string
	Values  []any
}

// SetClause joins the column assignments for use after SET.
func (p PartialUpdate) SetClause() string {
	return strings.Join(p.SetCols, ", ")
}

// NextPlaceholder is the placeholder the caller binds the row key to in WHERE.
func (p PartialUpdate) NextPlaceholder() string {
	return "$" + strconv.Itoa(len(p.Values)+1)
}

// Args returns the bound values followed by the row key.
func (p PartialUpdate) Args(key any) []any {
	args := make([]any, 0, len(p.Values)+1)
	args = append(args, p.Values...)
	return append(args, key)
}

// SQLForPartialUpdate translates fields into column assignments, renaming API
// names through renames (e.g. "firstName" -> "first_name"); names absent from
// renames are used verbatim. The result never contains a WHERE clause.
//
//	SQLForPartialUpdate([]domain.Field{{"firstName", "Aliya"}, {"age", 32}},
//	    map[string]string{"firstName": "first_name"})
//	// => SetCols: [`"first_name"=$1`, `"age"=$2`], Values: ["Aliya", 32]
func SQLForPartialUpdate(fields []domain.Field, renames map[string]string) (PartialUpdate, error) {
	if len(fields) == 0 {
		return PartialUpdate{}, fmt.Errorf("no data: %w", domain.ErrBadRequest)
	}

	p := PartialUpdate{
		SetCols: make([]string, len(fields)),
		Values:  make([]any, len(fields)),
	}
	for i, f := range fields {
		col := f.Name
		if renamed, ok := renames[f.Name]; ok {
			col = renamed
		}
		p.SetCols[i] = fmt.Sprintf(`"%s"=$%d`, col, i+1)
		p.Values[i] = f.Value
	}
	return p, nil
}
