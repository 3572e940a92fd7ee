package services

import (
	"fmt"

	"github.com/abrezinsky/luckydraw/internal/errors"
)

// Service errors
var (
	ErrEmptyName             = &ServiceError{Message: "name must not be empty"}
	ErrInvalidWeight         = &ServiceError{Message: "weight must be between 1 and 1000000"}
	ErrInvalidDrawCount      = &ServiceError{Message: "draw count must be at least 1"}
	ErrInvalidSpinSpeed      = &ServiceError{Message: "spin speed must be fast, normal or slow"}
	ErrNoParticipants        = &ServiceError{Message: "no eligible participants"}
	ErrNotEnoughParticipants = &ServiceError{Message: "the ladder needs at least 2 eligible participants"}
	ErrNoLadder              = &ServiceError{Message: "no ladder has been built for this program"}
	ErrInvalidTrack          = &ServiceError{Message: "track is out of range for the current ladder"}
	ErrNoActiveGame          = &ServiceError{Message: "no game is running for this program"}
	ErrGameInProgress        = &ServiceError{Message: "a game is already running for this program"}
	ErrNoBaseURL             = &ServiceError{Message: "base URL is not configured"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// ImportError reports a program document that could not be imported
type ImportError struct {
	Reason string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("invalid program document: %s", e.Reason)
}

func programNotFound(id int) error {
	return errors.NotFoundf("program %d not found", id)
}

func participantNotFound(id string) error {
	return errors.NotFoundf("participant %s not found", id)
}

func exclusionNotFound(name string) error {
	return errors.NotFoundf("exclusion %q not found", name)
}
