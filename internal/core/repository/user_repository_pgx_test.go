package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/duynhne/fishfile-service/internal/core/domain"
)

var userCols = []string{"username", "first_name", "last_name", "email", "is_admin"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

func TestUserRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "$2a$hash", "Alice", "Anders", "alice@example.com", false).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow("alice", "Alice", "Anders", "alice@example.com", false))

	u, err := repo.Create(context.Background(), domain.NewUser{
		Username: "alice", Password: "$2a$hash", FirstName: "Alice", LastName: "Anders", Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.Username != "alice" || u.IsAdmin {
		t.Errorf("Create() = %+v", u)
	}
	expectMet(t, mock)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "h", "A", "B", "a@b.co", false).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})

	_, err := repo.Create(context.Background(), domain.NewUser{
		Username: "alice", Password: "h", FirstName: "A", LastName: "B", Email: "a@b.co",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict", err)
	}
	if !strings.Contains(err.Error(), "duplicate username: alice") {
		t.Errorf("error message = %q", err)
	}
	expectMet(t, mock)
}

func TestUserRepositoryGet(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	mock.ExpectQuery("SELECT username, .* FROM users WHERE username = \\$1").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow("alice", "Alice", "Anders", "alice@example.com", false))
	mock.ExpectQuery("FROM locations AS l WHERE l.username = \\$1").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(4)))
	mock.ExpectQuery("FROM records AS r WHERE r.username = \\$1").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	u, err := repo.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(u.Locations) != 2 || u.Locations[0] != 1 || u.Locations[1] != 4 {
		t.Errorf("Locations = %v, want [1 4]", u.Locations)
	}
	if u.Records == nil || len(u.Records) != 0 {
		t.Errorf("Records = %#v, want empty non-nil", u.Records)
	}
	expectMet(t, mock)
}

func TestUserRepositoryGetMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectBeginTx(snapshotTx)
	mock.ExpectQuery("FROM users WHERE username").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(userCols))

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "no user: ghost") {
		t.Errorf("error message = %q", err)
	}
	expectMet(t, mock)
}

func TestUserRepositoryGetCredentials(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT password, username").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(append([]string{"password"}, userCols...)).
			AddRow("$2a$10$stored", "alice", "Alice", "Anders", "alice@example.com", true))

	u, hash, err := repo.GetCredentials(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetCredentials() error = %v", err)
	}
	if hash != "$2a$10$stored" {
		t.Errorf("hash = %q", hash)
	}
	if !u.IsAdmin || u.Email != "alice@example.com" {
		t.Errorf("user = %+v", u)
	}
	expectMet(t, mock)
}

func TestUserRepositoryUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE users SET "first_name"=$1, "password"=$2 WHERE username = $3 RETURNING username, first_name, last_name, email, is_admin`)).
		WithArgs("Ally", "$2a$new", "alice").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow("alice", "Ally", "Anders", "alice@example.com", false))

	u, err := repo.Update(context.Background(), "alice", domain.UserUpdate{
		FirstName: ptr("Ally"),
		Password:  ptr("$2a$new"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if u.FirstName != "Ally" {
		t.Errorf("FirstName = %q", u.FirstName)
	}
	expectMet(t, mock)
}

func TestUserRepositoryUpdateErrors(t *testing.T) {
	t.Run("empty update", func(t *testing.T) {
		mock := newMock(t)
		_, err := NewUserRepository(mock).Update(context.Background(), "alice", domain.UserUpdate{})
		if !errors.Is(err, domain.ErrBadRequest) {
			t.Fatalf("Update() error = %v, want ErrBadRequest", err)
		}
		expectMet(t, mock)
	})

	t.Run("missing user", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("UPDATE users SET").
			WithArgs("x@y.co", "ghost").
			WillReturnRows(pgxmock.NewRows(userCols))

		_, err := NewUserRepository(mock).Update(context.Background(), "ghost", domain.UserUpdate{Email: ptr("x@y.co")})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Update() error = %v, want ErrNotFound", err)
		}
		expectMet(t, mock)
	})
}

func TestUserRepositoryRemove(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"deleted", 1, nil},
		{"missing", 0, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec("DELETE FROM users WHERE username = \\$1").
				WithArgs("alice").
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := NewUserRepository(mock).Remove(context.Background(), "alice")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Remove() error = %v, want %v", err, tt.wantErr)
			}
			expectMet(t, mock)
		})
	}
}
