package scoring

// factor is one additive risk factor: a lookup table keyed by the answer value.
type factor struct {
	name    string
	weights map[string]int
	value   func(QuestionnaireResponse) string
}

// protective is a deduction applied when the answer is in the match set.
type protective struct {
	name      string
	deduction int
	matches   map[string]bool
	value     func(QuestionnaireResponse) string
}

var riskFactors = []factor{
	{
		name:    "mentalHealth.depressionLevel",
		weights: map[string]int{"never": 0, "Sometimes": 25, "often": 50, "Always": 75},
		value:   func(r QuestionnaireResponse) string { return r.MentalHealth.DepressionLevel },
	},
	{
		name:    "mentalHealth.anxietyLevel",
		weights: map[string]int{"Never": 0, "Sometimes": 20, "Often": 40, "Always": 60},
		value:   func(r QuestionnaireResponse) string { return r.MentalHealth.AnxietyLevel },
	},
	{
		name:    "riskAssessment.suicidalThoughts",
		weights: map[string]int{"never": 0, "Sometimes": 60, "Often": 80, "Always": 100},
		value:   func(r QuestionnaireResponse) string { return r.RiskAssessment.SuicidalThoughts },
	},
	{
		name:    "riskAssessment.selfHarmBehaviors",
		weights: map[string]int{"no": 0, "yes": 40},
		value:   func(r QuestionnaireResponse) string { return r.RiskAssessment.SelfHarmBehaviors },
	},
	{
		name:    "lifeCircumstances.stressLevel",
		weights: map[string]int{"Low": 0, "Moderate": 15, "High": 30},
		value:   func(r QuestionnaireResponse) string { return r.LifeCircumstances.StressLevel },
	},
}

var protectiveFactors = []protective{
	{
		name:      "mentalHealth.socialSupport",
		deduction: 10,
		matches:   map[string]bool{"Family": true, "Friends": true},
		value:     func(r QuestionnaireResponse) string { return r.MentalHealth.SocialSupport },
	},
	{
		name:      "riskAssessment.mentalHealthHelp",
		deduction: 15,
		matches:   map[string]bool{"yes": true},
		value:     func(r QuestionnaireResponse) string { return r.RiskAssessment.MentalHealthHelp },
	},
	{
		name:      "lifeCircumstances.academicPerformance",
		deduction: 5,
		matches:   map[string]bool{"Excellent": true, "Good": true},
		value:     func(r QuestionnaireResponse) string { return r.LifeCircumstances.AcademicPerformance },
	},
}

// protectiveDomains are the full answer domains of the protective inputs. Only
// strict mode reads them; the deduction itself only needs the match set.
var protectiveDomains = map[string][]string{
	"mentalHealth.socialSupport":            {"Family", "Friends", "loneliness", "None", "Other"},
	"riskAssessment.mentalHealthHelp":       {"yes", "No"},
	"lifeCircumstances.academicPerformance": {"Excellent", "Good", "Average", "Poor"},
}

const (
	minScore = 0
	maxScore = 100
)

func clamp(score int) int {
	return max(minScore, min(maxScore, score))
}
