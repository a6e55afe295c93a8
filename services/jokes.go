package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/lborres/jokes/core"
)

type JokeService struct {
	jokes  core.JokeStorage
	logger *slog.Logger
	// intn picks the random offset; swapped in tests.
	intn func(n int) int
}

func NewJokeService(jokes core.JokeStorage, logger *slog.Logger) *JokeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JokeService{jokes: jokes, logger: logger, intn: rand.IntN}
}

func (s *JokeService) Create(ctx context.Context, jokesterID, name, content string) (*core.Joke, error) {
	now := time.Now().UTC()
	joke := &core.Joke{
		ID:         uuid.NewString(),
		Name:       name,
		Content:    content,
		JokesterID: jokesterID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.jokes.CreateJoke(ctx, joke); err != nil {
		return nil, fmt.Errorf("failed to create joke: %w", err)
	}
	return joke, nil
}

func (s *JokeService) Get(ctx context.Context, id string) (*core.Joke, error) {
	joke, err := s.jokes.GetJokeByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrJokeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get joke: %w", err)
	}
	return joke, nil
}

// Delete removes jokeID on behalf of userID. It reports ErrJokeNotFound
// before ErrForbidden, and never deletes a joke userID does not own.
func (s *JokeService) Delete(ctx context.Context, userID, jokeID string) error {
	joke, err := s.Get(ctx, jokeID)
	if err != nil {
		return err
	}

	if joke.JokesterID != userID {
		s.logger.Warn("delete of foreign joke refused",
			slog.String("user_id", userID),
			slog.String("joke_id", jokeID))
		return core.ErrForbidden
	}

	if err := s.jokes.DeleteJoke(ctx, jokeID); err != nil {
		if errors.Is(err, core.ErrJokeNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete joke: %w", err)
	}
	return nil
}

// Random returns a uniformly chosen joke, or ErrJokeNotFound when there are none.
func (s *JokeService) Random(ctx context.Context) (*core.Joke, error) {
	count, err := s.jokes.CountJokes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count jokes: %w", err)
	}
	if count == 0 {
		return nil, core.ErrJokeNotFound
	}

	jokes, err := s.jokes.ListJokes(ctx, 1, s.intn(count))
	if err != nil {
		return nil, fmt.Errorf("failed to list jokes: %w", err)
	}
	// a delete may land between the count and the fetch
	if len(jokes) == 0 {
		return nil, core.ErrJokeNotFound
	}
	return jokes[0], nil
}

// Latest lists the n most recently created jokes.
func (s *JokeService) Latest(ctx context.Context, n int) ([]core.JokeListItem, error) {
	jokes, err := s.jokes.ListJokes(ctx, n, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list jokes: %w", err)
	}

	items := make([]core.JokeListItem, 0, len(jokes))
	for _, j := range jokes {
		items = append(items, core.JokeListItem{ID: j.ID, Name: j.Name})
	}
	return items, nil
}
