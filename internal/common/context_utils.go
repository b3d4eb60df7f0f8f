package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
	MaxPageOffset    = 1000000
)

// ValidateUUID validates UUID format with comprehensive checks
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s is required", fieldName))
	}

	if len(idStr) != 36 {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s must be exactly 36 characters (including hyphens)", fieldName))
	}

	for _, pos := range []int{8, 13, 18, 23} {
		if idStr[pos] != '-' {
			return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s has invalid UUID format: hyphens must be at positions 9, 14, 19, and 24", fieldName))
		}
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, fmt.Sprintf("%s contains invalid characters", fieldName))
	}

	return id, nil
}

// ValidatePaginationParams clamps limit to [1, MaxPageLimit] and rejects absurd offsets
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if offset < 0 {
		offset = 0
	}
	if offset > MaxPageOffset {
		return 0, 0, NewValidationError("offset", fmt.Sprintf("offset cannot exceed %d", MaxPageOffset))
	}

	return limit, offset, nil
}
