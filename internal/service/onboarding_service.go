package service

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"go.uber.org/zap"
)

// OnboardingService the marketing setup checklist.
type OnboardingService struct {
	repo   repository.OnboardingRepository
	logger *zap.Logger
}

func NewOnboardingService(repo repository.OnboardingRepository, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{repo: repo, logger: logger}
}

func (s *OnboardingService) GetOnboarding(ctx context.Context) (*domain.MarketingOnboarding, error) {
	return s.repo.GetOrCreateOnboarding(ctx)
}

// UpdateOnboardingRequest raw body fields; each may be absent.
type UpdateOnboardingRequest struct {
	StepIndex   json.RawMessage `json:"stepIndex"`
	Completed   json.RawMessage `json:"completed"`
	CurrentStep json.RawMessage `json:"currentStep"`
}

// UpdateOnboarding marks steps[stepIndex] completed unless "completed" is the
// literal false, and overwrites currentStep when given. A stepIndex that is not
// an integer within the steps list is ignored.
func (s *OnboardingService) UpdateOnboarding(ctx context.Context, req UpdateOnboardingRequest) (*domain.MarketingOnboarding, error) {
	current, err := s.repo.GetOrCreateOnboarding(ctx)
	if err != nil {
		return nil, err
	}

	var u domain.OnboardingUpdate
	if idx, ok := stepIndex(req.StepIndex); ok && idx >= 0 && idx < len(current.Steps) {
		u.StepIndex = &idx
		u.StepCompleted = !isLiteralFalse(req.Completed)
	}
	if present(req.CurrentStep) {
		step, err := parseCurrentStep(req.CurrentStep)
		if err != nil {
			return nil, err
		}
		u.CurrentStep = &step
	}
	if u.Empty() {
		return current, nil
	}
	return s.repo.UpdateOnboarding(ctx, u)
}

// CompleteOnboarding sets the top-level completed flag regardless of step state.
func (s *OnboardingService) CompleteOnboarding(ctx context.Context) (*domain.MarketingOnboarding, error) {
	return s.repo.CompleteOnboarding(ctx)
}

func present(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) > 0
}

func isLiteralFalse(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("false"))
}

// stepIndex accepts an integer or an integer string, as array indexing would.
func stepIndex(raw json.RawMessage) (int, bool) {
	if !present(raw) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
	}
	return 0, false
}

func parseCurrentStep(raw json.RawMessage) (int, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil && n == math.Trunc(n) {
		return int(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, nil
		}
	}
	return 0, domain.ValidationError("MarketingOnboarding", "currentStep",
		"Cast to Number failed for value "+string(raw))
}
