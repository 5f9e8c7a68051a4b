package progression_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawgress/pawgress/internal/domain"
	"github.com/pawgress/pawgress/internal/progression"
)

func req(tt uuid.UUID, count, rank int) *domain.LevelRequirement {
	return &domain.LevelRequirement{
		ID:             uuid.New(),
		LevelID:        uuid.New(),
		TrainingTypeID: tt,
		RequiredCount:  count,
		RankOrder:      rank,
	}
}

func TestEvaluate_EmptyRequirementsTriviallySatisfied(t *testing.T) {
	t.Parallel()

	res := progression.Evaluate(nil, map[uuid.UUID]int{uuid.New(): 3})

	assert.True(t, res.Satisfied)
	assert.Empty(t, res.Deficits)
}

func TestEvaluate_SatisfiedIffEveryCountMet(t *testing.T) {
	t.Parallel()

	groupClass := uuid.New()
	exam := uuid.New()
	reqs := []*domain.LevelRequirement{
		req(groupClass, 6, 1),
		req(exam, 1, 2),
	}

	t.Run("all met", func(t *testing.T) {
		t.Parallel()

		res := progression.Evaluate(reqs, map[uuid.UUID]int{groupClass: 6, exam: 1})

		assert.True(t, res.Satisfied)
		for _, d := range res.Deficits {
			assert.Zero(t, d.Missing)
		}
	})

	t.Run("surplus still satisfied", func(t *testing.T) {
		t.Parallel()

		res := progression.Evaluate(reqs, map[uuid.UUID]int{groupClass: 10, exam: 2})

		assert.True(t, res.Satisfied)
	})

	t.Run("one short", func(t *testing.T) {
		t.Parallel()

		res := progression.Evaluate(reqs, map[uuid.UUID]int{groupClass: 5, exam: 1})

		assert.False(t, res.Satisfied)
		require.Len(t, res.Deficits, 2)
		assert.Equal(t, 1, res.Deficits[0].Missing)
		assert.Equal(t, 0, res.Deficits[1].Missing)
	})

	t.Run("no achievements at all", func(t *testing.T) {
		t.Parallel()

		res := progression.Evaluate(reqs, map[uuid.UUID]int{})

		assert.False(t, res.Satisfied)
		require.Len(t, res.Deficits, 2)
		assert.Equal(t, 6, res.Deficits[0].Missing)
		assert.Equal(t, 1, res.Deficits[1].Missing)
	})
}

// Deficits must sum to zero exactly when satisfied.
func TestEvaluate_DeficitSumZeroIffSatisfied(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	reqs := []*domain.LevelRequirement{req(a, 3, 1), req(b, 2, 2)}

	cases := []struct {
		name   string
		counts map[uuid.UUID]int
	}{
		{"none", map[uuid.UUID]int{}},
		{"partial", map[uuid.UUID]int{a: 2, b: 2}},
		{"exact", map[uuid.UUID]int{a: 3, b: 2}},
		{"surplus", map[uuid.UUID]int{a: 9, b: 9}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res := progression.Evaluate(reqs, tc.counts)

			sum := 0
			for _, d := range res.Deficits {
				sum += d.Missing
			}
			assert.Equal(t, res.Satisfied, sum == 0)
		})
	}
}

// Deficits keep the requirement order handed in, so clients can render a
// stable checklist.
func TestEvaluate_DeficitOrderFollowsRequirementOrder(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	reqs := make([]*domain.LevelRequirement, len(ids))
	for i, id := range ids {
		reqs[i] = req(id, i+1, i+1)
	}

	res := progression.Evaluate(reqs, map[uuid.UUID]int{})

	require.Len(t, res.Deficits, len(ids))
	for i, d := range res.Deficits {
		assert.Equal(t, ids[i], d.TrainingTypeID)
	}
}

// Level "Basic" requires 3x GroupClass. With 2 recorded the subject is one
// short; after a third it qualifies.
func TestEvaluate_OneShortThenQualifies(t *testing.T) {
	t.Parallel()

	groupClass := uuid.New()
	reqs := []*domain.LevelRequirement{req(groupClass, 3, 1)}

	res := progression.Evaluate(reqs, map[uuid.UUID]int{groupClass: 2})

	assert.False(t, res.Satisfied)
	require.Len(t, res.Deficits, 1)
	assert.Equal(t, 1, res.Deficits[0].Missing)

	res = progression.Evaluate(reqs, map[uuid.UUID]int{groupClass: 3})

	assert.True(t, res.Satisfied)
	assert.Zero(t, res.Deficits[0].Missing)
}

func TestEvaluate_CountsForUnrelatedTypesIgnored(t *testing.T) {
	t.Parallel()

	wanted := uuid.New()
	unrelated := uuid.New()
	reqs := []*domain.LevelRequirement{req(wanted, 2, 1)}

	res := progression.Evaluate(reqs, map[uuid.UUID]int{unrelated: 50})

	assert.False(t, res.Satisfied)
	assert.Equal(t, 2, res.Deficits[0].Missing)
}
