package checkins

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"harbor-backend/internal/scoring"
)

// Questionnaire is the submitted answer set as received on the wire.
type Questionnaire struct {
	Demographics struct {
		Age            string `json:"age" validate:"age"`
		Gender         string `json:"gender" validate:"gender"`
		AcademicStatus string `json:"academicStatus" validate:"academic_status"`
	} `json:"demographics"`
	LifeCircumstances struct {
		StressLevel         string `json:"stressLevel" validate:"stress_level"`
		AcademicPerformance string `json:"academicPerformance" validate:"academic_performance"`
		HealthCondition     string `json:"healthCondition" validate:"health_condition"`
		RelationshipStatus  string `json:"relationshipStatus" validate:"relationship_status"`
		FamilyProblems      string `json:"familyProblems" validate:"family_problems"`
	} `json:"lifeCircumstances"`
	MentalHealth struct {
		DepressionLevel string `json:"depressionLevel" validate:"depression_level"`
		AnxietyLevel    string `json:"anxietyLevel" validate:"anxiety_level"`
		SocialSupport   string `json:"socialSupport" validate:"social_support"`
	} `json:"mentalHealth"`
	RiskAssessment struct {
		SelfHarmBehaviors string `json:"selfHarmBehaviors" validate:"self_harm"`
		SuicidalThoughts  string `json:"suicidalThoughts" validate:"suicidal_thoughts"`
		MentalHealthHelp  string `json:"mentalHealthHelp" validate:"mental_health_help"`
	} `json:"riskAssessment"`
	AIRelated struct {
		AIComfortLevel string   `json:"aiComfortLevel" validate:"likert"`
		AIConcerns     []string `json:"aiConcerns" validate:"required,dive,ai_concern"`
		AITrustLevel   string   `json:"aiTrustLevel" validate:"likert"`
	} `json:"aiRelated"`
}

// enumDomains lists the accepted answers per validation tag. Values are case-sensitive.
var enumDomains = map[string][]string{
	"age":                  {"16", "17", "18", "19", "20", "21", "22", "23", "24", "25", "26", "27"},
	"gender":               {"male", "female", "other"},
	"academic_status":      {"Undergraduate", "PostGraduate", "other"},
	"stress_level":         {"Low", "Moderate", "High"},
	"academic_performance": {"Excellent", "Good", "Average", "Poor"},
	"health_condition":     {"Normal", "Fair", "Abnormal"},
	"relationship_status":  {"single", "In a relationship", "Breakup", "Complicated", "Other"},
	"family_problems":      {"None", "Parental conflict", "Financial", "Other"},
	"depression_level":     {"never", "Sometimes", "often", "Always"},
	"anxiety_level":        {"Never", "Sometimes", "Often", "Always"},
	"social_support":       {"Family", "Friends", "loneliness", "None", "Other"},
	"self_harm":            {"yes", "no"},
	"suicidal_thoughts":    {"never", "Sometimes", "Often", "Always"},
	"mental_health_help":   {"yes", "No"},
	"likert":               {"1", "2", "3", "4", "5"},
	"ai_concern":           {"Privacy", "Data Misuse", "No concerns", "Not sure"},
}

var fieldMessages = map[string]string{
	"demographics.age":                      "Please provide a valid age",
	"demographics.gender":                   "Please provide a valid gender",
	"demographics.academicStatus":           "Please provide a valid academic status",
	"lifeCircumstances.stressLevel":         "Please provide a valid stress level",
	"lifeCircumstances.academicPerformance": "Please provide a valid academic performance rating",
	"lifeCircumstances.healthCondition":     "Please provide a valid health condition",
	"lifeCircumstances.relationshipStatus":  "Please provide a valid relationship status",
	"lifeCircumstances.familyProblems":      "Please provide a valid family problems status",
	"mentalHealth.depressionLevel":          "Please provide a valid depression level",
	"mentalHealth.anxietyLevel":             "Please provide a valid anxiety level",
	"mentalHealth.socialSupport":            "Please provide a valid social support option",
	"riskAssessment.selfHarmBehaviors":      "Please provide a valid self-harm behavior response",
	"riskAssessment.suicidalThoughts":       "Please provide a valid suicidal thoughts response",
	"riskAssessment.mentalHealthHelp":       "Please provide a valid mental health help response",
	"aiRelated.aiComfortLevel":              "Please provide a valid AI comfort level",
	"aiRelated.aiConcerns":                  "Please provide valid AI concerns",
	"aiRelated.aiTrustLevel":                "Please provide a valid AI trust level",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, values := range enumDomains {
		allowed := make(map[string]struct{}, len(values))
		for _, val := range values {
			allowed[val] = struct{}{}
		}
		// RegisterValidation only fails on an empty tag or nil func.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			_, ok := allowed[fl.Field().String()]
			return ok
		})
	}
	return v
}

// Validate checks every answer against its domain and reports all failures at once.
func (q Questionnaire) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		if seen[field] {
			continue
		}
		seen[field] = true
		msg, ok := fieldMessages[field]
		if !ok {
			msg = "Invalid value"
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: msg, Value: fe.Value()})
	}
	return out
}

// fieldPath turns "Questionnaire.aiRelated.aiConcerns[1]" into "aiRelated.aiConcerns".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	if i := strings.Index(namespace, "["); i >= 0 {
		namespace = namespace[:i]
	}
	return namespace
}

// Response converts the answers into the scoring input.
func (q Questionnaire) Response() scoring.QuestionnaireResponse {
	concerns := make([]string, len(q.AIRelated.AIConcerns))
	copy(concerns, q.AIRelated.AIConcerns)
	return scoring.QuestionnaireResponse{
		Demographics: scoring.Demographics{
			Age:            q.Demographics.Age,
			Gender:         q.Demographics.Gender,
			AcademicStatus: q.Demographics.AcademicStatus,
		},
		LifeCircumstances: scoring.LifeCircumstances{
			StressLevel:         q.LifeCircumstances.StressLevel,
			AcademicPerformance: q.LifeCircumstances.AcademicPerformance,
			HealthCondition:     q.LifeCircumstances.HealthCondition,
			RelationshipStatus:  q.LifeCircumstances.RelationshipStatus,
			FamilyProblems:      q.LifeCircumstances.FamilyProblems,
		},
		MentalHealth: scoring.MentalHealth{
			DepressionLevel: q.MentalHealth.DepressionLevel,
			AnxietyLevel:    q.MentalHealth.AnxietyLevel,
			SocialSupport:   q.MentalHealth.SocialSupport,
		},
		RiskAssessment: scoring.RiskAssessment{
			SelfHarmBehaviors: q.RiskAssessment.SelfHarmBehaviors,
			SuicidalThoughts:  q.RiskAssessment.SuicidalThoughts,
			MentalHealthHelp:  q.RiskAssessment.MentalHealthHelp,
		},
		AIRelated: scoring.AIRelated{
			AIComfortLevel: q.AIRelated.AIComfortLevel,
			AIConcerns:     concerns,
			AITrustLevel:   q.AIRelated.AITrustLevel,
		},
	}
}
