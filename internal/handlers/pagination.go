package handlers

import (
	"errors"
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxPage          = 1_000_000
)

type pageParams struct {
	Page   int
	Limit  int
	Offset int
}

// parsePageParams reads 1-indexed page/limit query values. A missing,
// non-numeric, zero or negative page means page 1, not an empty result; the
// same values for limit mean the default limit. Oversized values are clamped
// to maxPage and maxPageLimit.
func parsePageParams(rawPage string, rawLimit string) pageParams {
	page := parsePositiveInt(strings.TrimSpace(rawPage), 1, maxPage)
	limit := parsePositiveInt(strings.TrimSpace(rawLimit), defaultPageLimit, maxPageLimit)

	return pageParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// parsePositiveInt clamps positive values to ceiling, including ones too
// large for int, and returns fallback for everything else.
func parsePositiveInt(raw string, fallback int, ceiling int) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return ceiling
		}
		return fallback
	}
	if value <= 0 {
		return fallback
	}
	if value > ceiling {
		return ceiling
	}
	return value
}
