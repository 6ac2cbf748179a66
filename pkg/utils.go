package pkg

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUIDv7 returns a time-ordered UUID. Falls back to v4 only if
// the system entropy source fails.
func GenerateUUIDv7() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}

// IsNilOrEmpty reports whether the string pointer is nil or holds only
// whitespace.
func IsNilOrEmpty(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// SafeIntToUint64 converts an int to uint64, clamping negatives to zero.
func SafeIntToUint64(v int) uint64 {
	if v < 0 {
		return 0
	}

	return uint64(v)
}
