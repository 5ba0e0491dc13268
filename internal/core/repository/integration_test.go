package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/fishfile-service/config"
	database "github.com/duynhne/fishfile-service/internal/core"
	"github.com/duynhne/fishfile-service/internal/core/domain"
)

// openTestPool connects to TEST_DATABASE_URL, applies the schema and empties
// every table. The test is skipped when the variable is unset.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, config.DatabaseConfig{URL: url, ConnectTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE users, locations, records RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func TestIntegrationOwnershipLifecycle(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	locations := NewLocationRepository(pool)
	records := NewRecordRepository(pool)

	_, err := users.Create(ctx, domain.NewUser{
		Username: "alice", Password: "$2a$04$hash", FirstName: "Alice", LastName: "Anders", Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	_, err = users.Create(ctx, domain.NewUser{
		Username: "alice", Password: "x", FirstName: "A", LastName: "B", Email: "a@b.co",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second alice: error = %v, want ErrConflict", err)
	}

	river := domain.NewLocation{Username: "alice", Name: "Deschutes", DecLat: ptr(44.7), DecLong: ptr(-121.2)}
	loc, err := locations.Create(ctx, river)
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	if _, err := locations.Create(ctx, river); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate location: error = %v, want ErrConflict", err)
	}
	if _, err := locations.Create(ctx, domain.NewLocation{Username: "ghost", Name: "x", DecLat: ptr(1.0), DecLong: ptr(1.0)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("location for missing user: error = %v, want ErrNotFound", err)
	}

	rec, err := records.Create(ctx, domain.NewRecord{Username: "alice", LocationID: loc.ID, Date: "2024-05-01", Rating: ptr(4)})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	if rec.Date != "2024-05-01" {
		t.Errorf("record date = %q", rec.Date)
	}
	if _, err := records.Create(ctx, domain.NewRecord{Username: "alice", LocationID: loc.ID, Date: "2024-05-01"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("same-day record: error = %v, want ErrConflict", err)
	}
	if _, err := records.Create(ctx, domain.NewRecord{Username: "alice", LocationID: loc.ID + 100, Date: "2024-05-02"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("record for missing location: error = %v, want ErrNotFound", err)
	}

	u, err := users.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get alice: %v", err)
	}
	if len(u.Locations) != 1 || u.Locations[0] != loc.ID || len(u.Records) != 1 || u.Records[0] != rec.ID {
		t.Errorf("alice = %+v", u)
	}

	updated, err := users.Update(ctx, "alice", domain.UserUpdate{FirstName: ptr("Ally")})
	if err != nil {
		t.Fatalf("update alice: %v", err)
	}
	if updated.FirstName != "Ally" {
		t.Errorf("FirstName = %q", updated.FirstName)
	}
	if _, hash, _ := users.GetCredentials(ctx, "alice"); hash != "$2a$04$hash" {
		t.Errorf("password changed by unrelated update: %q", hash)
	}

	if err := users.Remove(ctx, "alice"); err != nil {
		t.Fatalf("remove alice: %v", err)
	}
	if _, err := locations.Get(ctx, loc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("location after owner removal: error = %v, want ErrNotFound", err)
	}
	if _, err := records.Get(ctx, rec.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("record after owner removal: error = %v, want ErrNotFound", err)
	}
}
