package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shashiranjanraj/pcbuilder/app/repositories"
)

var (
	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound = repositories.ErrNotFound

	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrProductInUse       = errors.New("product is part of one or more builds")
	ErrCategoryInUse      = errors.New("category still has products")
)

// TierConflictError rejects an addition that would put Tier 1 and Tier 3
// components in the same build.
type TierConflictError struct {
	Existing int // tier already present in the build
	Incoming int // tier of the product being added
	// Mixed is set when the build already holds both tiers.
	Mixed bool
}

func (e *TierConflictError) Error() string {
	if e.Mixed {
		return "this build already mixes Tier 1 and Tier 3 components; remove one of them first"
	}
	return fmt.Sprintf("a Tier %d component cannot be added to a build that contains Tier %d components",
		e.Incoming, e.Existing)
}

// Pairing is a low-cardinality label such as "1-3" (existing-incoming).
func (e *TierConflictError) Pairing() string {
	if e.Mixed {
		return "mixed"
	}
	return fmt.Sprintf("%d-%d", e.Existing, e.Incoming)
}

// IsTierConflict unwraps err into a *TierConflictError.
func IsTierConflict(err error) (*TierConflictError, bool) {
	var tc *TierConflictError
	ok := errors.As(err, &tc)
	return tc, ok
}

// ValidationError is field → message, rendered as a 422.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
