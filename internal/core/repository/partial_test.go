package repository

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

func TestSQLForPartialUpdate(t *testing.T) {
	tests := []struct {
		name       string
		fields     []domain.Field
		renames    map[string]string
		wantCols   []string
		wantValues []any
	}{
		{
			name:       "rename and verbatim",
			fields:     []domain.Field{{Name: "firstName", Value: "Aliya"}, {Name: "age", Value: 32}},
			renames:    map[string]string{"firstName": "first_name", "age": "age"},
			wantCols:   []string{`"first_name"=$1`, `"age"=$2`},
			wantValues: []any{"Aliya", 32},
		},
		{
			name:       "no renames",
			fields:     []domain.Field{{Name: "name", Value: "Deschutes"}},
			renames:    nil,
			wantCols:   []string{`"name"=$1`},
			wantValues: []any{"Deschutes"},
		},
		{
			name:       "order preserved",
			fields:     []domain.Field{{Name: "b", Value: 2}, {Name: "a", Value: 1}, {Name: "c", Value: 3}},
			renames:    map[string]string{"a": "alpha"},
			wantCols:   []string{`"b"=$1`, `"alpha"=$2`, `"c"=$3`},
			wantValues: []any{2, 1, 3},
		},
		{
			name:       "nil value is bound, not skipped",
			fields:     []domain.Field{{Name: "fish", Value: nil}},
			wantCols:   []string{`"fish"=$1`},
			wantValues: []any{nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := SQLForPartialUpdate(tt.fields, tt.renames)
			if err != nil {
				t.Fatalf("SQLForPartialUpdate() error = %v", err)
			}
			if !reflect.DeepEqual(p.SetCols, tt.wantCols) {
				t.Errorf("SetCols = %v, want %v", p.SetCols, tt.wantCols)
			}
			if !reflect.DeepEqual(p.Values, tt.wantValues) {
				t.Errorf("Values = %v, want %v", p.Values, tt.wantValues)
			}
			if len(p.SetCols) != len(p.Values) {
				t.Errorf("len(SetCols) = %d, len(Values) = %d", len(p.SetCols), len(p.Values))
			}
			if strings.Contains(strings.ToUpper(p.SetClause()), "WHERE") {
				t.Errorf("SetClause() = %q contains WHERE", p.SetClause())
			}
		})
	}
}

func TestSQLForPartialUpdateEmpty(t *testing.T) {
	for _, fields := range [][]domain.Field{nil, {}} {
		_, err := SQLForPartialUpdate(fields, map[string]string{"firstName": "first_name"})
		if !errors.Is(err, domain.ErrBadRequest) {
			t.Errorf("SQLForPartialUpdate(%v) error = %v, want ErrBadRequest", fields, err)
		}
		if err != nil && !strings.Contains(err.Error(), "no data") {
			t.Errorf("error %q should mention no data", err)
		}
	}
}

func TestPartialUpdateHelpers(t *testing.T) {
	p, err := SQLForPartialUpdate([]domain.Field{{Name: "a", Value: 1}, {Name: "b", Value: 2}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := p.SetClause(), `"a"=$1, "b"=$2`; got != want {
		t.Errorf("SetClause() = %q, want %q", got, want)
	}
	if got := p.NextPlaceholder(); got != "$3" {
		t.Errorf("NextPlaceholder() = %q, want $3", got)
	}
	if got := p.Args("key"); !reflect.DeepEqual(got, []any{1, 2, "key"}) {
		t.Errorf("Args() = %v", got)
	}
	// Args must not alias Values.
	_ = p.Args("other")
	if len(p.Values) != 2 {
		t.Errorf("Values mutated: %v", p.Values)
	}
}

func TestUpdateFieldsOrder(t *testing.T) {
	first, email := "Aliya", "a@b.co"
	admin := true
	upd := domain.UserUpdate{Email: &email, FirstName: &first, IsAdmin: &admin}

	p, err := SQLForPartialUpdate(upd.Fields(), userRenames)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{`"first_name"=$1`, `"email"=$2`, `"is_admin"=$3`}
	if !reflect.DeepEqual(p.SetCols, want) {
		t.Errorf("SetCols = %v, want %v", p.SetCols, want)
	}
}
