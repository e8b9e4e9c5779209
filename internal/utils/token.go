package utils

import (
	"github.com/google/uuid"
)

// GenerateInvitationToken returns an opaque single-use token for an
// invitation row.
func GenerateInvitationToken() string {
	return uuid.NewString()
}
