package core

import "context"

// UserStorage is the credential store
type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

type JokeStorage interface {
	CreateJoke(ctx context.Context, j *Joke) error
	// Query methods
	GetJokeByID(ctx context.Context, id string) (*Joke, error)
	CountJokes(ctx context.Context) (int, error)
	ListJokes(ctx context.Context, limit, offset int) ([]*Joke, error)
	// Delete
	DeleteJoke(ctx context.Context, id string) error
}

type Storage interface {
	UserStorage
	JokeStorage
	Ping(ctx context.Context) error
}
