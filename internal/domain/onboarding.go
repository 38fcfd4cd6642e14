package domain

import "time"

// OnboardingDefaultKey is the only key the tracker uses.
const OnboardingDefaultKey = "default"

type OnboardingStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// MarketingOnboarding progress of the marketing-site setup checklist.
// The steps list length is fixed when the document is first created.
type MarketingOnboarding struct {
	ID          string           `json:"id"`
	Key         string           `json:"key"`
	Steps       []OnboardingStep `json:"steps"`
	CurrentStep int              `json:"currentStep"`
	Completed   bool             `json:"completed"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// DefaultOnboardingSteps the three steps created on first read.
func DefaultOnboardingSteps() []OnboardingStep {
	return []OnboardingStep{
		{Name: "Company Profile", Completed: false},
		{Name: "Marketing Pages", Completed: false},
		{Name: "Launch Campaign", Completed: false},
	}
}

// NewDefaultOnboarding returns the document inserted when none exists.
func NewDefaultOnboarding() MarketingOnboarding {
	return MarketingOnboarding{
		Key:         OnboardingDefaultKey,
		Steps:       DefaultOnboardingSteps(),
		CurrentStep: 0,
		Completed:   false,
	}
}

// OnboardingUpdate is a resolved update. StepIndex must already be bounds-checked.
type OnboardingUpdate struct {
	StepIndex     *int
	StepCompleted bool
	CurrentStep   *int
}

func (u OnboardingUpdate) Empty() bool {
	return u.StepIndex == nil && u.CurrentStep == nil
}

// Apply writes u onto o, ignoring out-of-range step indexes.
func (u OnboardingUpdate) Apply(o *MarketingOnboarding) {
	if u.StepIndex != nil && *u.StepIndex >= 0 && *u.StepIndex < len(o.Steps) {
		o.Steps[*u.StepIndex].Completed = u.StepCompleted
	}
	if u.CurrentStep != nil {
		o.CurrentStep = *u.CurrentStep
	}
}
