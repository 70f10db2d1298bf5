package models

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easepay/easepay/internal/pkg/apperrors"
)

func TestBuildScopeFilter(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		want  squirrel.Sqlizer
	}{
		{
			name:  "college scope filters by college name",
			scope: Scope{Category: ScopeCollege, Value: "Engineering"},
			want:  squirrel.Eq{"college": "Engineering"},
		},
		{
			name:  "department scope filters by department name",
			scope: Scope{Category: ScopeDepartment, Value: "CS"},
			want:  squirrel.Eq{"department": "CS"},
		},
		{
			name:  "hostel scope filters by due type",
			scope: Scope{Category: ScopeHostel},
			want:  squirrel.Eq{"due_type": "hostel"},
		},
		{
			name:  "student union scope filters by due type",
			scope: Scope{Category: ScopeStudentUnion},
			want:  squirrel.Eq{"due_type": "studentUnion"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildScopeFilter(tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildScopeFilterUnknownCategory(t *testing.T) {
	_, err := BuildScopeFilter(Scope{Category: "faculty", Value: "Science"})
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedScope)

	_, err = BuildScopeFilter(Scope{})
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedScope)
}

func TestScopeCategoryRequiresValue(t *testing.T) {
	assert.True(t, ScopeCollege.RequiresValue())
	assert.True(t, ScopeDepartment.RequiresValue())
	assert.False(t, ScopeHostel.RequiresValue())
	assert.False(t, ScopeStudentUnion.RequiresValue())
}

func TestScopeCategoryIsValid(t *testing.T) {
	for _, c := range []ScopeCategory{ScopeCollege, ScopeDepartment, ScopeHostel, ScopeStudentUnion} {
		assert.True(t, c.IsValid(), string(c))
	}
	assert.False(t, ScopeCategory("faculty").IsValid())
	assert.False(t, ScopeCategory("").IsValid())
}
