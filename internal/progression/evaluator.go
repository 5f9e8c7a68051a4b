package progression

import (
	"github.com/google/uuid"

	"github.com/pawgress/pawgress/internal/domain"
)

// Deficit is the shortfall for one required training type. Missing is zero
// when the requirement is met; Required and Actual are kept so clients can
// render progress bars without re-deriving them.
type Deficit struct {
	TrainingTypeID uuid.UUID
	Required       int
	Actual         int
	Missing        int
}

// Result is the outcome of evaluating a subject's achievement counts against
// one level's requirements. Deficits follow the requirement order given to
// Evaluate, one entry per requirement, so rendering is deterministic.
type Result struct {
	Satisfied bool
	Deficits  []Deficit
}

// Evaluate decides whether achievement counts satisfy a requirement set.
// It is a pure function: requirements and counts arrive fully loaded, there
// is no tenant or storage dependence. An empty requirement set is trivially
// satisfied.
func Evaluate(reqs []*domain.LevelRequirement, counts map[uuid.UUID]int) Result {
	res := Result{
		Satisfied: true,
		Deficits:  make([]Deficit, 0, len(reqs)),
	}

	for _, req := range reqs {
		actual := counts[req.TrainingTypeID]

		missing := req.RequiredCount - actual
		if missing < 0 {
			missing = 0
		}
		if missing > 0 {
			res.Satisfied = false
		}

		res.Deficits = append(res.Deficits, Deficit{
			TrainingTypeID: req.TrainingTypeID,
			Required:       req.RequiredCount,
			Actual:         actual,
			Missing:        missing,
		})
	}

	return res
}
