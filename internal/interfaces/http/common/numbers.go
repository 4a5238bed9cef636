package common

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// ParseNonNegativeInt parses an optional query value, using fallback when absent.
func ParseNonNegativeInt(query url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidQueryParameters, key)
	}
	return parsed, nil
}

// ParseFloat parses a required finite float query value.
func ParseFloat(query url.Values, key string) (float64, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidQueryParameters, key)
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidQueryParameters, key)
	}
	return parsed, nil
}

// ParseID parses a positive int64 path identifier.
func ParseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidQueryParameters, name)
	}
	return id, nil
}
