package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrMissingFields        = errors.New("project name and theme are required")
	ErrAlreadyInTeam        = errors.New("user is already in a team")
	ErrInvitationNotFound   = errors.New("no pending invitation found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrNoTeam               = errors.New("user must create or join a team first")
	ErrThemeFull            = errors.New("project limit reached for this theme")
)

// TeammatesUnavailableError reports every invited user that already
// belongs to a team, not just the first one found.
type TeammatesUnavailableError struct {
	UserIDs []string
}

func (e *TeammatesUnavailableError) Error() string {
	return fmt.Sprintf("users already in teams: %s", strings.Join(e.UserIDs, ", "))
}

// AsTeammatesUnavailable unwraps err into a TeammatesUnavailableError, or nil.
func AsTeammatesUnavailable(err error) *TeammatesUnavailableError {
	var t *TeammatesUnavailableError
	if errors.As(err, &t) {
		return t
	}
	return nil
}
