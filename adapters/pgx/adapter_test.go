package pgx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lborres/jokes"
)

const (
	userID = "5f1b6a2e-8c1d-4f7a-9a57-3c2d1b0e9f10"
	jokeID = "0b7c9d8e-1a2b-4c3d-8e9f-a0b1c2d3e4f5"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

// fakeDB records queries and replays canned results.
type fakeDB struct {
	row      fakeRow
	tag      pgconn.CommandTag
	execErr  error
	queryErr error
	pingErr  error

	calls int
	args  []any
}

func (f *fakeDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	f.calls++
	f.args = args
	return f.tag, f.execErr
}

func (f *fakeDB) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	f.calls++
	f.args = args
	return nil, f.queryErr
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.calls++
	f.args = args
	return f.row
}

func (f *fakeDB) Ping(context.Context) error {
	return f.pingErr
}

var errConnReset = errors.New("connection reset by peer")

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errConnReset, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		row     fakeRow
		wantErr error
	}{
		{name: "inserted", row: fakeRow{values: []any{created, created}}},
		{name: "duplicate username", row: fakeRow{err: &pgconn.PgError{Code: "23505"}}, wantErr: jokes.ErrUserExists},
		{name: "connection failure", row: fakeRow{err: errConnReset}, wantErr: errConnReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{row: tt.row}
			user := &jokes.User{ID: userID, Username: "kody", PasswordHash: "digest"}

			err := NewWithDB(db).CreateUser(context.Background(), user)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateUser() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !user.CreatedAt.Equal(created) {
				t.Errorf("CreatedAt = %v, want %v", user.CreatedAt, created)
			}
			if len(db.args) != 3 || db.args[1] != "kody" || db.args[2] != "digest" {
				t.Errorf("insert args = %v", db.args)
			}
		})
	}
}

func TestCreateJoke(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		row     fakeRow
		wantErr error
	}{
		{name: "inserted", row: fakeRow{values: []any{created, created}}},
		{name: "jokester deleted", row: fakeRow{err: &pgconn.PgError{Code: "23503"}}, wantErr: jokes.ErrUserNotFound},
		{name: "connection failure", row: fakeRow{err: errConnReset}, wantErr: errConnReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{row: tt.row}
			joke := &jokes.Joke{ID: jokeID, JokesterID: userID, Name: "Chicken", Content: "Why did the chicken cross the road?"}

			err := NewWithDB(db).CreateJoke(context.Background(), joke)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateJoke() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !joke.CreatedAt.Equal(created) {
				t.Errorf("CreatedAt = %v, want %v", joke.CreatedAt, created)
			}
		})
	}
}

func TestGetUserByID(t *testing.T) {
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{values: []any{userID, "kody", now, now}}}

		user, err := NewWithDB(db).GetUserByID(context.Background(), userID)

		if err != nil {
			t.Fatalf("GetUserByID() error = %v", err)
		}
		if user.ID != userID || user.Username != "kody" || user.PasswordHash != "" {
			t.Errorf("GetUserByID() = %+v", user)
		}
	})

	t.Run("no rows", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}

		_, err := NewWithDB(db).GetUserByID(context.Background(), userID)

		if !errors.Is(err, jokes.ErrUserNotFound) {
			t.Errorf("GetUserByID() error = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("malformed id skips the query", func(t *testing.T) {
		db := &fakeDB{}

		_, err := NewWithDB(db).GetUserByID(context.Background(), "not-a-uuid")

		if !errors.Is(err, jokes.ErrUserNotFound) {
			t.Errorf("GetUserByID() error = %v, want ErrUserNotFound", err)
		}
		if db.calls != 0 {
			t.Errorf("made %d queries, want 0", db.calls)
		}
	})

	t.Run("store failure is not a miss", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{err: errConnReset}}

		_, err := NewWithDB(db).GetUserByID(context.Background(), userID)

		if !errors.Is(err, errConnReset) || errors.Is(err, jokes.ErrUserNotFound) {
			t.Errorf("GetUserByID() error = %v, want wrapped connection error", err)
		}
	})
}

func TestGetUserByUsername(t *testing.T) {
	now := time.Now()
	db := &fakeDB{row: fakeRow{values: []any{userID, "kody", "digest", now, now}}}

	user, err := NewWithDB(db).GetUserByUsername(context.Background(), "kody")

	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if user.PasswordHash != "digest" {
		t.Errorf("PasswordHash = %q, want digest", user.PasswordHash)
	}

	db.row = fakeRow{err: pgx.ErrNoRows}
	if _, err := NewWithDB(db).GetUserByUsername(context.Background(), "ghost"); !errors.Is(err, jokes.ErrUserNotFound) {
		t.Errorf("GetUserByUsername(ghost) error = %v, want ErrUserNotFound", err)
	}
}

func TestGetJokeByID(t *testing.T) {
	now := time.Now()

	db := &fakeDB{row: fakeRow{values: []any{jokeID, userID, "Chicken", "Why did the chicken cross the road?", now, now}}}
	joke, err := NewWithDB(db).GetJokeByID(context.Background(), jokeID)
	if err != nil {
		t.Fatalf("GetJokeByID() error = %v", err)
	}
	if joke.JokesterID != userID || joke.Name != "Chicken" {
		t.Errorf("GetJokeByID() = %+v", joke)
	}

	db = &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	if _, err := NewWithDB(db).GetJokeByID(context.Background(), jokeID); !errors.Is(err, jokes.ErrJokeNotFound) {
		t.Errorf("missing joke error = %v, want ErrJokeNotFound", err)
	}

	if _, err := NewWithDB(&fakeDB{}).GetJokeByID(context.Background(), "42"); !errors.Is(err, jokes.ErrJokeNotFound) {
		t.Errorf("malformed id error = %v, want ErrJokeNotFound", err)
	}
}

func TestIDsAreCanonicalized(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"canonical", jokeID},
		{"urn prefix", "urn:uuid:" + jokeID},
		{"braces", "{" + jokeID + "}"},
		{"upper case", strings.ToUpper(jokeID)},
		{"no hyphens", strings.ReplaceAll(jokeID, "-", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Now()
			db := &fakeDB{
				row: fakeRow{values: []any{jokeID, userID, "Chicken", "Why did the chicken cross the road?", now, now}},
				tag: pgconn.NewCommandTag("DELETE 1"),
			}
			adapter := NewWithDB(db)

			if _, err := adapter.GetJokeByID(context.Background(), tt.id); err != nil {
				t.Fatalf("GetJokeByID(%q) error = %v", tt.id, err)
			}
			if len(db.args) != 1 || db.args[0] != jokeID {
				t.Errorf("GetJokeByID query args = %v, want [%s]", db.args, jokeID)
			}

			if err := adapter.DeleteJoke(context.Background(), tt.id); err != nil {
				t.Fatalf("DeleteJoke(%q) error = %v", tt.id, err)
			}
			if len(db.args) != 1 || db.args[0] != jokeID {
				t.Errorf("DeleteJoke query args = %v, want [%s]", db.args, jokeID)
			}
		})
	}
}

func TestCountJokes(t *testing.T) {
	db := &fakeDB{row: fakeRow{values: []any{3}}}

	count, err := NewWithDB(db).CountJokes(context.Background())

	if err != nil || count != 3 {
		t.Errorf("CountJokes() = %d, %v; want 3, nil", count, err)
	}
}

func TestListJokes_QueryError(t *testing.T) {
	db := &fakeDB{queryErr: errConnReset}

	_, err := NewWithDB(db).ListJokes(context.Background(), 5, 10)

	if !errors.Is(err, errConnReset) {
		t.Errorf("ListJokes() error = %v, want wrapped connection error", err)
	}
	if len(db.args) != 2 || db.args[0] != 5 || db.args[1] != 10 {
		t.Errorf("query args = %v, want [5 10]", db.args)
	}
}

func TestDeleteJoke(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		tag     pgconn.CommandTag
		execErr error
		wantErr error
	}{
		{name: "deleted", id: jokeID, tag: pgconn.NewCommandTag("DELETE 1")},
		{name: "already gone", id: jokeID, tag: pgconn.NewCommandTag("DELETE 0"), wantErr: jokes.ErrJokeNotFound},
		{name: "malformed id", id: "nope", wantErr: jokes.ErrJokeNotFound},
		{name: "store failure", id: jokeID, execErr: errConnReset, wantErr: errConnReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{tag: tt.tag, execErr: tt.execErr}

			err := NewWithDB(db).DeleteJoke(context.Background(), tt.id)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DeleteJoke() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPing(t *testing.T) {
	if err := NewWithDB(&fakeDB{}).Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := NewWithDB(&fakeDB{pingErr: errConnReset}).Ping(context.Background()); !errors.Is(err, errConnReset) {
		t.Errorf("Ping() error = %v, want connection error", err)
	}
}
