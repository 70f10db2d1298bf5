package models

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/easepay/easepay/internal/pkg/apperrors"
)

// ScopeCategory is the organizational slice an admin reviews transactions for.
// The set is closed: anything outside it is a configuration bug, not input.
type ScopeCategory string

const (
	ScopeCollege      ScopeCategory = "college"
	ScopeDepartment   ScopeCategory = "department"
	ScopeHostel       ScopeCategory = "hostel"
	ScopeStudentUnion ScopeCategory = "studentUnion"
)

// IsValid reports whether the category is one of the enumerated values.
func (c ScopeCategory) IsValid() bool {
	switch c {
	case ScopeCollege, ScopeDepartment, ScopeHostel, ScopeStudentUnion:
		return true
	}
	return false
}

// RequiresValue reports whether the category carries a value (college or
// department name). Hostel and student-union scopes select by due type alone.
func (c ScopeCategory) RequiresValue() bool {
	return c == ScopeCollege || c == ScopeDepartment
}

// Scope is a tagged pair of category and, for college/department scopes, the
// unit name. Stored flattened on the users table.
type Scope struct {
	Category ScopeCategory `json:"category" db:"scope_category"`
	Value    string        `json:"value,omitempty" db:"scope_value"`
}

// BuildScopeFilter maps an admin's scope to a transaction-query predicate.
// This is the single place scope semantics live; every admin-facing listing
// must route through it. An unrecognized category fails the request rather
// than widening or silently narrowing the result set.
func BuildScopeFilter(scope Scope) (squirrel.Sqlizer, error) {
	switch scope.Category {
	case ScopeCollege:
		return squirrel.Eq{"college": scope.Value}, nil
	case ScopeDepartment:
		return squirrel.Eq{"department": scope.Value}, nil
	case ScopeHostel:
		return squirrel.Eq{"due_type": string(DueHostel)}, nil
	case ScopeStudentUnion:
		return squirrel.Eq{"due_type": string(DueStudentUnion)}, nil
	default:
		return nil, fmt.Errorf("scope category %q: %w", scope.Category, apperrors.ErrUnsupportedScope)
	}
}
