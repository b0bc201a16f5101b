package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReferenceCode returns a short human-readable booking reference,
// e.g. "BK-9F2C41A7". Uniqueness is enforced by the store; callers
// retry on collision.
func NewReferenceCode() string {
	id := uuid.New().String()
	return "BK-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
