// Package validator holds the standalone field validators shared by the
// service layer. All functions are pure: the year check takes the current
// time as an argument so tests can pin the clock.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ReservedUsername may never be registered: it is routed to the
// "current user" endpoints.
const ReservedUsername = "me"

var (
	ErrReservedUsername = errors.New("username \"me\" is reserved")
	ErrUsernameCharset  = errors.New("username may only contain letters, digits and @/./+/-/_")
	ErrSlugFormat       = errors.New("slug may only contain letters, digits, hyphens and underscores")
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Username rejects the reserved token "me" (case-sensitive) and any value
// containing characters outside the permitted username charset.
func Username(value string) error {
	if value == ReservedUsername {
		return ErrReservedUsername
	}
	if !usernamePattern.MatchString(value) {
		return ErrUsernameCharset
	}
	return nil
}

// Year rejects values strictly greater than the current calendar year.
func Year(value int, now time.Time) error {
	if current := now.Year(); value > current {
		return fmt.Errorf("year %d is in the future (current year is %d)", value, current)
	}
	return nil
}

// Slug validates the URL-safe identifier used by genres and categories.
func Slug(value string) error {
	if !slugPattern.MatchString(value) {
		return ErrSlugFormat
	}
	return nil
}
