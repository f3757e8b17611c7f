package editor

import (
	"fmt"

	"github.com/aretw0/nls/pkg/domain"
)

// NotFoundError names the token that could not be resolved against the Scenario.
type NotFoundError struct {
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unit %q: %s", e.Token, domain.ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return domain.ErrNotFound
}
