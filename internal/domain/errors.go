package domain

import (
	"errors"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sentinel errors: compare with errors.Is()
//
// The registries never return these: a missing id there is a silent no-op.
// They are raised by the service layer so the HTTP boundary can answer 404/400.
// ──────────────────────────────────────────────────────────────────────────────

// Race errors
var (
	// ErrRaceNotFound is returned when no race has the given id.
	ErrRaceNotFound = errors.New("race not found")

	// ErrRaceExists is returned when an explicit race id is already taken.
	ErrRaceExists = errors.New("race id already in use")

	// ErrRaceEnded is returned when a new bet targets a race that has
	// already been run.
	ErrRaceEnded = errors.New("race has ended")

	// ErrNoCurrentRace is returned when an operation defaults to the current
	// race and the registry is empty.
	ErrNoCurrentRace = errors.New("no current race")

	// ErrInvalidResults is returned when a result names a horse that is not
	// running in the race, or no winner is given.
	ErrInvalidResults = errors.New("results must name a winner running in the race")
)

// Horse errors
var (
	// ErrHorseNotFound is returned when no horse has the given id.
	ErrHorseNotFound = errors.New("horse not found")

	// ErrHorseNotInRace is returned when a bet names a horse running in a
	// different race.
	ErrHorseNotInRace = errors.New("horse is not running in this race")
)

// Bet errors
var (
	// ErrBetNotFound is returned when no bet has the given id.
	ErrBetNotFound = errors.New("bet not found")

	// ErrBetSettled is returned when an edit targets a settled bet.
	ErrBetSettled = errors.New("bet is already settled")

	// ErrInvalidCategory is returned when the category is not win or place.
	ErrInvalidCategory = errors.New("invalid bet category: must be win or place")

	// ErrInvalidPaymentType is returned when the type is not Cash or Credit.
	ErrInvalidPaymentType = errors.New("invalid payment type: must be Cash or Credit")
)

// Session errors
var (
	// ErrNoSession is returned when no session has been started.
	ErrNoSession = errors.New("no active session")
)

// ──────────────────────────────────────────────────────────────────────────────
// Helper predicates
// ──────────────────────────────────────────────────────────────────────────────

var notFoundErrors = []error{
	ErrRaceNotFound,
	ErrHorseNotFound,
	ErrBetNotFound,
	ErrNoCurrentRace,
	ErrNoSession,
}

// IsNotFound returns true when err (or any error in its chain) is one of the
// domain "not found" errors.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation returns true for errors caused by bad caller input.
func IsValidation(err error) bool {
	validationErrors := []error{
		ErrInvalidCategory,
		ErrInvalidPaymentType,
		ErrInvalidResults,
		ErrHorseNotInRace,
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict returns true for errors that represent a state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrBetSettled) ||
		errors.Is(err, ErrRaceExists) ||
		errors.Is(err, ErrRaceEnded)
}
