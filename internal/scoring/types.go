package scoring

// QuestionnaireResponse is the validated answer set submitted by a user.
type QuestionnaireResponse struct {
	Demographics      Demographics      `json:"demographics" bson:"demographics"`
	LifeCircumstances LifeCircumstances `json:"lifeCircumstances" bson:"lifeCircumstances"`
	MentalHealth      MentalHealth      `json:"mentalHealth" bson:"mentalHealth"`
	RiskAssessment    RiskAssessment    `json:"riskAssessment" bson:"riskAssessment"`
	AIRelated         AIRelated         `json:"aiRelated" bson:"aiRelated"`
}

type Demographics struct {
	Age            string `json:"age" bson:"age"`
	Gender         string `json:"gender" bson:"gender"`
	AcademicStatus string `json:"academicStatus" bson:"academicStatus"`
}

type LifeCircumstances struct {
	StressLevel         string `json:"stressLevel" bson:"stressLevel"`
	AcademicPerformance string `json:"academicPerformance" bson:"academicPerformance"`
	HealthCondition     string `json:"healthCondition" bson:"healthCondition"`
	RelationshipStatus  string `json:"relationshipStatus" bson:"relationshipStatus"`
	FamilyProblems      string `json:"familyProblems" bson:"familyProblems"`
}

type MentalHealth struct {
	DepressionLevel string `json:"depressionLevel" bson:"depressionLevel"`
	AnxietyLevel    string `json:"anxietyLevel" bson:"anxietyLevel"`
	SocialSupport   string `json:"socialSupport" bson:"socialSupport"`
}

type RiskAssessment struct {
	SelfHarmBehaviors string `json:"selfHarmBehaviors" bson:"selfHarmBehaviors"`
	SuicidalThoughts  string `json:"suicidalThoughts" bson:"suicidalThoughts"`
	MentalHealthHelp  string `json:"mentalHealthHelp" bson:"mentalHealthHelp"`
}

// AIRelated answers are stored with the submission but never scored.
type AIRelated struct {
	AIComfortLevel string   `json:"aiComfortLevel" bson:"aiComfortLevel"`
	AIConcerns     []string `json:"aiConcerns" bson:"aiConcerns"`
	AITrustLevel   string   `json:"aiTrustLevel" bson:"aiTrustLevel"`
}

// RiskLevel is the ordinal classification of an assessment.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low Risk"
	RiskModerate RiskLevel = "Moderate Risk"
	RiskAtRisk   RiskLevel = "At Risk (Thoughts)"
	RiskHigh     RiskLevel = "High Risk"
	RiskCrisis   RiskLevel = "Crisis"
)

// RiskLevels lists every level from least to most severe.
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskAtRisk, RiskHigh, RiskCrisis}

// Severity returns the position of the level in RiskLevels, or -1 if unknown.
func (l RiskLevel) Severity() int {
	for i, level := range RiskLevels {
		if level == l {
			return i
		}
	}
	return -1
}

// Valid reports whether l is one of the known risk levels.
func (l RiskLevel) Valid() bool {
	return l.Severity() >= 0
}

// RequiresAlert reports whether the level warrants immediate follow-up.
func (l RiskLevel) RequiresAlert() bool {
	return l == RiskHigh || l == RiskCrisis
}

func (l RiskLevel) String() string {
	return string(l)
}

type RecommendationType string

const (
	TypeImmediateHelp       RecommendationType = "immediate_help"
	TypeProfessionalSupport RecommendationType = "professional_support"
	TypeSelfCare            RecommendationType = "self_care"
	TypeResources           RecommendationType = "resources"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is a fixed suggestion keyed by risk level.
type Recommendation struct {
	Type     RecommendationType `json:"type" bson:"type"`
	Message  string             `json:"message" bson:"message"`
	Priority Priority           `json:"priority" bson:"priority"`
}

// Assessment is always derived from a QuestionnaireResponse, never supplied by a user.
type Assessment struct {
	Score           int              `json:"score" bson:"score"`
	RiskLevel       RiskLevel        `json:"riskLevel" bson:"riskLevel"`
	Recommendations []Recommendation `json:"recommendations" bson:"recommendations"`
}
