package tmdb

import (
	"errors"
	"fmt"
)

// ErrMovieNotFound is matched by every *MovieNotFoundError.
var ErrMovieNotFound = errors.New("movie not found")

// MovieNotFoundError is returned when a movie lookup answers 404.
type MovieNotFoundError struct {
	ID  int
	Err error
}

func (e *MovieNotFoundError) Error() string {
	return fmt.Sprintf("Movie not found with id %d.", e.ID)
}

// Is makes errors.Is(err, ErrMovieNotFound) true.
func (e *MovieNotFoundError) Is(target error) bool {
	return target == ErrMovieNotFound
}

func (e *MovieNotFoundError) Unwrap() error {
	return e.Err
}
