package checkins

import (
	"context"
	"sync"
	"time"

	"harbor-backend/internal/alerts"
)

func lowRiskAnswers() Questionnaire {
	var q Questionnaire
	q.Demographics.Age = "20"
	q.Demographics.Gender = "female"
	q.Demographics.AcademicStatus = "Undergraduate"
	q.LifeCircumstances.StressLevel = "Low"
	q.LifeCircumstances.AcademicPerformance = "Good"
	q.LifeCircumstances.HealthCondition = "Normal"
	q.LifeCircumstances.RelationshipStatus = "In a relationship"
	q.LifeCircumstances.FamilyProblems = "None"
	q.MentalHealth.DepressionLevel = "never"
	q.MentalHealth.AnxietyLevel = "Never"
	q.MentalHealth.SocialSupport = "Family"
	q.RiskAssessment.SelfHarmBehaviors = "no"
	q.RiskAssessment.SuicidalThoughts = "never"
	q.RiskAssessment.MentalHealthHelp = "yes"
	q.AIRelated.AIComfortLevel = "3"
	q.AIRelated.AIConcerns = []string{"Privacy", "Data Misuse"}
	q.AIRelated.AITrustLevel = "4"
	return q
}

func crisisAnswers() Questionnaire {
	q := lowRiskAnswers()
	q.MentalHealth.DepressionLevel = "Always"
	q.MentalHealth.AnxietyLevel = "Always"
	q.RiskAssessment.SuicidalThoughts = "Always"
	q.RiskAssessment.SelfHarmBehaviors = "yes"
	q.LifeCircumstances.StressLevel = "High"
	return q
}

// moderateAnswers scores 25: depression Sometimes with no protective factors.
func moderateAnswers() Questionnaire {
	q := lowRiskAnswers()
	q.MentalHealth.DepressionLevel = "Sometimes"
	q.MentalHealth.SocialSupport = "None"
	q.RiskAssessment.MentalHealthHelp = "No"
	q.LifeCircumstances.AcademicPerformance = "Average"
	return q
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []alerts.Message
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg alerts.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
