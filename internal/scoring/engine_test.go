package scoring_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harbor-backend/internal/scoring"
)

func response(depression, anxiety, suicidal, selfHarm, stress, support, help, academic string) scoring.QuestionnaireResponse {
	return scoring.QuestionnaireResponse{
		Demographics: scoring.Demographics{Age: "20", Gender: "female", AcademicStatus: "Undergraduate"},
		LifeCircumstances: scoring.LifeCircumstances{
			StressLevel:         stress,
			AcademicPerformance: academic,
			HealthCondition:     "Normal",
			RelationshipStatus:  "single",
			FamilyProblems:      "None",
		},
		MentalHealth: scoring.MentalHealth{
			DepressionLevel: depression,
			AnxietyLevel:    anxiety,
			SocialSupport:   support,
		},
		RiskAssessment: scoring.RiskAssessment{
			SelfHarmBehaviors: selfHarm,
			SuicidalThoughts:  suicidal,
			MentalHealthHelp:  help,
		},
		AIRelated: scoring.AIRelated{AIComfortLevel: "3", AIConcerns: []string{"Privacy"}, AITrustLevel: "3"},
	}
}

func baseline() scoring.QuestionnaireResponse {
	return response("never", "Never", "never", "no", "Low", "None", "No", "Average")
}

func TestCompute_WorstCaseClampsToCrisis(t *testing.T) {
	got := scoring.Compute(response("Always", "Always", "Always", "yes", "High", "None", "No", "Average"))

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, scoring.RiskCrisis, got.RiskLevel)
}

func TestCompute_AllProtectiveClampsToZero(t *testing.T) {
	got := scoring.Compute(response("never", "Never", "never", "no", "Low", "Family", "yes", "Excellent"))

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, scoring.RiskLow, got.RiskLevel)
	assert.Equal(t, scoring.RecommendationsFor(scoring.RiskLow), got.Recommendations)
}

func TestCompute_ScoreThresholdFiresBeforeSometimesOverride(t *testing.T) {
	// 25 + 20 + 60 + 0 + 15 = 120, clamped to 100.
	got := scoring.Compute(response("Sometimes", "Sometimes", "Sometimes", "no", "Moderate", "None", "No", "Average"))

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, scoring.RiskCrisis, got.RiskLevel)
}

func TestCompute_FactorWeights(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*scoring.QuestionnaireResponse)
		score  int
	}{
		{"baseline", func(*scoring.QuestionnaireResponse) {}, 0},
		{"depression often", func(r *scoring.QuestionnaireResponse) { r.MentalHealth.DepressionLevel = "often" }, 50},
		{"anxiety Often", func(r *scoring.QuestionnaireResponse) { r.MentalHealth.AnxietyLevel = "Often" }, 40},
		{"self harm", func(r *scoring.QuestionnaireResponse) { r.RiskAssessment.SelfHarmBehaviors = "yes" }, 40},
		{"stress high", func(r *scoring.QuestionnaireResponse) { r.LifeCircumstances.StressLevel = "High" }, 30},
		{"suicidal often", func(r *scoring.QuestionnaireResponse) { r.RiskAssessment.SuicidalThoughts = "Often" }, 80},
		{"stress high with friends", func(r *scoring.QuestionnaireResponse) {
			r.LifeCircumstances.StressLevel = "High"
			r.MentalHealth.SocialSupport = "Friends"
		}, 20},
		{"stress high with help and good grades", func(r *scoring.QuestionnaireResponse) {
			r.LifeCircumstances.StressLevel = "High"
			r.RiskAssessment.MentalHealthHelp = "yes"
			r.LifeCircumstances.AcademicPerformance = "Good"
		}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseline()
			tt.mutate(&r)
			assert.Equal(t, tt.score, scoring.Compute(r).Score)
		})
	}
}

func TestCompute_UnknownValuesWeighZero(t *testing.T) {
	r := baseline()
	r.MentalHealth.DepressionLevel = "Never" // wrong casing for this table
	r.LifeCircumstances.StressLevel = "Extreme"

	got := scoring.Compute(r)

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, scoring.RiskLow, got.RiskLevel)
}

func TestCompute_SuicidalAlwaysIsAlwaysCrisis(t *testing.T) {
	r := response("never", "Never", "Always", "no", "Low", "Family", "yes", "Excellent")

	got := scoring.Compute(r)

	assert.Equal(t, 70, got.Score)
	assert.Equal(t, scoring.RiskCrisis, got.RiskLevel)
}

func TestCompute_SuicidalOftenBelowEightyIsHighRisk(t *testing.T) {
	r := response("never", "Never", "Often", "no", "Low", "Family", "yes", "Excellent")

	got := scoring.Compute(r)

	assert.Equal(t, 50, got.Score)
	assert.Equal(t, scoring.RiskHigh, got.RiskLevel)
}

func TestCompute_SocialSupportNeverIncreasesScore(t *testing.T) {
	for _, depression := range []string{"never", "Sometimes", "often", "Always"} {
		for _, stress := range []string{"Low", "Moderate", "High"} {
			without := response(depression, "Sometimes", "never", "no", stress, "None", "No", "Average")
			with := without
			with.MentalHealth.SocialSupport = "Family"

			assert.LessOrEqual(t, scoring.Compute(with).Score, scoring.Compute(without).Score,
				"depression=%s stress=%s", depression, stress)
		}
	}
}

func TestCompute_ScoreAlwaysInRange(t *testing.T) {
	for _, d := range []string{"never", "Sometimes", "often", "Always"} {
		for _, a := range []string{"Never", "Sometimes", "Often", "Always"} {
			for _, s := range []string{"never", "Sometimes", "Often", "Always"} {
				for _, h := range []string{"yes", "no"} {
					for _, support := range []string{"Family", "None"} {
						got := scoring.Compute(response(d, a, s, h, "Moderate", support, "yes", "Good"))
						require.GreaterOrEqual(t, got.Score, 0)
						require.LessOrEqual(t, got.Score, 100)
						require.True(t, got.RiskLevel.Valid())
					}
				}
			}
		}
	}
}

func TestCompute_IgnoresUnscoredFields(t *testing.T) {
	a := response("often", "Sometimes", "never", "no", "Moderate", "Other", "No", "Poor")
	b := a
	b.Demographics = scoring.Demographics{Age: "27", Gender: "other", AcademicStatus: "PostGraduate"}
	b.LifeCircumstances.HealthCondition = "Abnormal"
	b.LifeCircumstances.RelationshipStatus = "Breakup"
	b.LifeCircumstances.FamilyProblems = "Financial"
	b.AIRelated = scoring.AIRelated{AIComfortLevel: "1", AIConcerns: []string{"Not sure", "Data Misuse"}, AITrustLevel: "5"}

	assert.Equal(t, scoring.Compute(a), scoring.Compute(b))
}

func TestCompute_Deterministic(t *testing.T) {
	r := response("often", "Often", "Sometimes", "yes", "High", "Friends", "No", "Good")
	first := scoring.Compute(r)

	var wg sync.WaitGroup
	results := make([]scoring.Assessment, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = scoring.Compute(r)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, first, got)
	}
}

func TestCompute_RecommendationsAreCopies(t *testing.T) {
	first := scoring.Compute(baseline())
	first.Recommendations[0].Message = "mutated"

	second := scoring.Compute(baseline())
	assert.Equal(t, "Continue your positive mental health practices.", second.Recommendations[0].Message)
}

func TestClassify_Order(t *testing.T) {
	tests := []struct {
		score    int
		suicidal string
		want     scoring.RiskLevel
	}{
		{80, "never", scoring.RiskCrisis},
		{0, "Always", scoring.RiskCrisis},
		{79, "never", scoring.RiskHigh},
		{60, "never", scoring.RiskHigh},
		{0, "Often", scoring.RiskHigh},
		{59, "never", scoring.RiskAtRisk},
		{40, "never", scoring.RiskAtRisk},
		{0, "Sometimes", scoring.RiskAtRisk},
		{39, "never", scoring.RiskModerate},
		{20, "never", scoring.RiskModerate},
		{19, "never", scoring.RiskLow},
		{0, "never", scoring.RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoring.Classify(tt.score, tt.suicidal), "score=%d suicidal=%s", tt.score, tt.suicidal)
	}
}

func TestRecommendationsFor_FixedSets(t *testing.T) {
	crisis := scoring.RecommendationsFor(scoring.RiskCrisis)
	require.Len(t, crisis, 2)
	assert.Equal(t, scoring.TypeImmediateHelp, crisis[0].Type)
	assert.Equal(t, scoring.PriorityUrgent, crisis[0].Priority)
	assert.Equal(t, scoring.TypeProfessionalSupport, crisis[1].Type)

	high := scoring.RecommendationsFor(scoring.RiskHigh)
	require.Len(t, high, 2)
	assert.Equal(t, scoring.PriorityHigh, high[1].Priority)

	atRisk := scoring.RecommendationsFor(scoring.RiskAtRisk)
	require.Len(t, atRisk, 2)
	assert.Equal(t, scoring.TypeResources, atRisk[1].Type)
	assert.Equal(t, scoring.PriorityMedium, atRisk[1].Priority)

	moderate := scoring.RecommendationsFor(scoring.RiskModerate)
	require.Len(t, moderate, 2)
	assert.Equal(t, scoring.TypeSelfCare, moderate[0].Type)

	low := scoring.RecommendationsFor(scoring.RiskLow)
	require.Len(t, low, 1)
	assert.Equal(t, scoring.PriorityLow, low[0].Priority)
}

func TestRecommendations_SameWithinBand(t *testing.T) {
	// Scores 20 and 35 are both Moderate Risk.
	low := scoring.Compute(response("never", "Sometimes", "never", "no", "Low", "None", "No", "Average"))
	high := scoring.Compute(response("never", "Sometimes", "never", "no", "Moderate", "None", "No", "Average"))

	require.Equal(t, scoring.RiskModerate, low.RiskLevel)
	require.Equal(t, scoring.RiskModerate, high.RiskLevel)
	assert.NotEqual(t, low.Score, high.Score)
	assert.Equal(t, low.Recommendations, high.Recommendations)
}

func TestComputeStrict(t *testing.T) {
	_, err := scoring.ComputeStrict(baseline())
	require.NoError(t, err)

	r := baseline()
	r.RiskAssessment.SuicidalThoughts = "sometimes"
	_, err = scoring.ComputeStrict(r)
	require.ErrorIs(t, err, scoring.ErrUnknownValue)
	assert.Contains(t, err.Error(), "riskAssessment.suicidalThoughts")

	r = baseline()
	r.MentalHealth.SocialSupport = ""
	_, err = scoring.ComputeStrict(r)
	require.ErrorIs(t, err, scoring.ErrUnknownValue)
}

func TestEngine_Modes(t *testing.T) {
	r := baseline()
	r.LifeCircumstances.StressLevel = "Severe"

	lenient, err := scoring.Engine{}.Assess(r)
	require.NoError(t, err)
	assert.Equal(t, 0, lenient.Score)

	_, err = scoring.Engine{Strict: true}.Assess(r)
	assert.ErrorIs(t, err, scoring.ErrUnknownValue)
}

func TestRiskLevel_Ordering(t *testing.T) {
	assert.Less(t, scoring.RiskLow.Severity(), scoring.RiskModerate.Severity())
	assert.Less(t, scoring.RiskModerate.Severity(), scoring.RiskAtRisk.Severity())
	assert.Less(t, scoring.RiskAtRisk.Severity(), scoring.RiskHigh.Severity())
	assert.Less(t, scoring.RiskHigh.Severity(), scoring.RiskCrisis.Severity())
	assert.Equal(t, -1, scoring.RiskLevel("Unknown").Severity())

	assert.True(t, scoring.RiskCrisis.RequiresAlert())
	assert.True(t, scoring.RiskHigh.RequiresAlert())
	assert.False(t, scoring.RiskAtRisk.RequiresAlert())
}
