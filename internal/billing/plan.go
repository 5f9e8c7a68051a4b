package billing

import (
	"errors"
	"slices"
	"time"

	"github.com/pawgress/pawgress/internal/domain"
)

var ErrTrialExpired = errors.New("billing: trial expired")

var ErrUnknownPlan = errors.New("billing: unknown plan")

// Plan describes what a subscription tier allows.
type Plan struct {
	Name        string
	MaxSubjects int // 0 = unlimited
	Features    []string
}

// The built-in tiers. Schools self-register into a 14-day enterprise trial
// and drop to starter when it lapses unpaid.
var plans = map[string]Plan{
	"starter":    {Name: "starter", MaxSubjects: 25, Features: []string{"catalog"}},
	"pro":        {Name: "pro", MaxSubjects: 200, Features: []string{"catalog", "api_keys"}},
	"enterprise": {Name: "enterprise", MaxSubjects: 0, Features: []string{"catalog", "api_keys", "custom_branding"}},
}

// TrialDuration is granted to self-registered schools.
const TrialDuration = 14 * 24 * time.Hour

// PlanByName looks up a tier definition.
func PlanByName(name string) (Plan, error) {
	p, ok := plans[name]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return p, nil
}

// Validator checks a tenant's subscription state.
type Validator struct {
	now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// Check returns nil when the tenant may use the service: it must be active
// and, if still on trial, the trial must not have lapsed.
func (v *Validator) Check(t *domain.Tenant) error {
	if !t.Active {
		return domain.ErrTenantInactive
	}

	if t.TrialEndsAt != nil && v.now().After(*t.TrialEndsAt) {
		return ErrTrialExpired
	}

	return nil
}

// HasFeature reports whether the tenant's plan enables a feature. Unknown
// plans enable nothing.
func (v *Validator) HasFeature(t *domain.Tenant, feature string) bool {
	p, err := PlanByName(t.Plan)
	if err != nil {
		return false
	}

	return slices.Contains(p.Features, feature)
}
