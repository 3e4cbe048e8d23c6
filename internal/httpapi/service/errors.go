package service

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors shared across services. The three message literals for
// score range, duplicate review and duplicate email are part of the API
// contract and must keep their meaning per condition.
var (
	ErrScoreOutOfRange = errors.New("score must be an integer from 1 to 10")
	ErrDuplicateReview = errors.New("you have already reviewed this title")
	ErrEmailInUse      = errors.New("user with this email already exists")
	ErrUsernameInUse   = errors.New("username already in use")
	ErrSlugInUse       = errors.New("slug already in use")
	ErrInvalidCode     = errors.New("invalid or expired confirmation code")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
)

// FieldErrors accumulates per-field validation failures so one request
// reports every violation at once instead of failing on the first.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field string, err error) {
	e[field] = append(e[field], err.Error())
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Error renders the map deterministically, field by field.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return strings.Join(parts, ", ")
}
