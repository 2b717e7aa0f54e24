package scoring

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownValue is returned in strict mode when a scored answer is outside its table.
var ErrUnknownValue = errors.New("unknown answer value")

// Engine computes assessments. The zero value scores leniently: any unrecognised
// answer weighs 0. With Strict set, unrecognised answers are rejected instead.
type Engine struct {
	Strict bool
}

// Assess runs the engine in the configured mode.
func (e Engine) Assess(resp QuestionnaireResponse) (Assessment, error) {
	if e.Strict {
		return ComputeStrict(resp)
	}
	return Compute(resp), nil
}

// Compute maps a response to its assessment. It never fails.
func Compute(resp QuestionnaireResponse) Assessment {
	score := 0
	for _, f := range riskFactors {
		score += f.weights[f.value(resp)]
	}
	for _, p := range protectiveFactors {
		if p.matches[p.value(resp)] {
			score -= p.deduction
		}
	}
	score = clamp(score)

	level := Classify(score, resp.RiskAssessment.SuicidalThoughts)
	return Assessment{
		Score:           score,
		RiskLevel:       level,
		Recommendations: RecommendationsFor(level),
	}
}

// ComputeStrict behaves like Compute but fails with ErrUnknownValue when any
// scored field holds a value outside its documented domain.
func ComputeStrict(resp QuestionnaireResponse) (Assessment, error) {
	if err := checkDomains(resp); err != nil {
		return Assessment{}, err
	}
	return Compute(resp), nil
}

func checkDomains(resp QuestionnaireResponse) error {
	for _, f := range riskFactors {
		v := f.value(resp)
		if _, ok := f.weights[v]; !ok {
			return fmt.Errorf("%w: %s=%q", ErrUnknownValue, f.name, v)
		}
	}
	for _, p := range protectiveFactors {
		v := p.value(resp)
		if !slices.Contains(protectiveDomains[p.name], v) {
			return fmt.Errorf("%w: %s=%q", ErrUnknownValue, p.name, v)
		}
	}
	return nil
}

type rule struct {
	level   RiskLevel
	matches func(score int, suicidalThoughts string) bool
}

// classification is evaluated top-down; the first matching rule wins.
var classification = []rule{
	{RiskCrisis, func(s int, st string) bool { return s >= 80 || st == "Always" }},
	{RiskHigh, func(s int, st string) bool { return s >= 60 || st == "Often" }},
	{RiskAtRisk, func(s int, st string) bool { return s >= 40 || st == "Sometimes" }},
	{RiskModerate, func(s int, _ string) bool { return s >= 20 }},
}

// Classify returns the risk level for a clamped score and the suicidal-thoughts answer.
func Classify(score int, suicidalThoughts string) RiskLevel {
	for _, r := range classification {
		if r.matches(score, suicidalThoughts) {
			return r.level
		}
	}
	return RiskLow
}
