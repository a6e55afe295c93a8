package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lborres/jokes"
)

const jokeColumns = `id, jokester_id, name, content, created_at, updated_at`

func scanJoke(row pgx.Row) (*jokes.Joke, error) {
	j := &jokes.Joke{}
	err := row.Scan(&j.ID, &j.JokesterID, &j.Name, &j.Content, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func (a *Adapter) CreateJoke(ctx context.Context, joke *jokes.Joke) error {
	query := `INSERT INTO public.jokes (id, jokester_id, name, content) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`

	err := a.db.QueryRow(ctx, query, joke.ID, joke.JokesterID, joke.Name, joke.Content).Scan(&joke.CreatedAt, &joke.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return jokes.ErrUserNotFound
		}
		return fmt.Errorf("insert joke: %w", err)
	}
	return nil
}

func (a *Adapter) GetJokeByID(ctx context.Context, id string) (*jokes.Joke, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, jokes.ErrJokeNotFound
	}

	joke, err := scanJoke(a.db.QueryRow(ctx, `SELECT `+jokeColumns+` FROM public.jokes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jokes.ErrJokeNotFound
		}
		return nil, fmt.Errorf("select joke: %w", err)
	}
	return joke, nil
}

func (a *Adapter) CountJokes(ctx context.Context) (int, error) {
	var count int
	if err := a.db.QueryRow(ctx, `SELECT count(*) FROM public.jokes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count jokes: %w", err)
	}
	return count, nil
}

// ListJokes pages through jokes newest first.
func (a *Adapter) ListJokes(ctx context.Context, limit, offset int) ([]*jokes.Joke, error) {
	q := `SELECT ` + jokeColumns + ` FROM public.jokes ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := a.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jokes: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*jokes.Joke, error) {
		return scanJoke(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan jokes: %w", err)
	}
	return list, nil
}

func (a *Adapter) DeleteJoke(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return jokes.ErrJokeNotFound
	}

	tag, err := a.db.Exec(ctx, `DELETE FROM public.jokes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete joke: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return jokes.ErrJokeNotFound
	}
	return nil
}
