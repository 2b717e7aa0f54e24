package checkins

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionnaireValidateAcceptsValidAnswers(t *testing.T) {
	assert.NoError(t, lowRiskAnswers().Validate())
	assert.NoError(t, crisisAnswers().Validate())
}

func TestQuestionnaireValidateAcceptsValuesWithSpaces(t *testing.T) {
	q := lowRiskAnswers()
	q.LifeCircumstances.RelationshipStatus = "In a relationship"
	q.LifeCircumstances.FamilyProblems = "Parental conflict"
	q.AIRelated.AIConcerns = []string{"No concerns", "Not sure"}
	assert.NoError(t, q.Validate())
}

func TestQuestionnaireValidateReportsEveryBadField(t *testing.T) {
	q := lowRiskAnswers()
	q.Demographics.Age = "15"
	q.MentalHealth.DepressionLevel = "Often" // only lower-case "often" is accepted
	q.AIRelated.AIConcerns = []string{"Privacy", "Aliens", "Robots"}

	err := q.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	byField := map[string]FieldError{}
	for _, f := range verr.Fields {
		byField[f.Field] = f
	}
	require.Len(t, byField, 3)
	assert.Equal(t, "Please provide a valid age", byField["demographics.age"].Message)
	assert.Equal(t, "15", byField["demographics.age"].Value)
	assert.Equal(t, "Please provide a valid depression level", byField["mentalHealth.depressionLevel"].Message)
	assert.Equal(t, "Please provide valid AI concerns", byField["aiRelated.aiConcerns"].Message)
}

func TestQuestionnaireValidateRequiresConcernsArray(t *testing.T) {
	q := lowRiskAnswers()
	q.AIRelated.AIConcerns = nil
	assert.Error(t, q.Validate())

	q.AIRelated.AIConcerns = []string{}
	assert.NoError(t, q.Validate())
}

func TestQuestionnaireValidateMissingSection(t *testing.T) {
	var q Questionnaire
	payload := `{"demographics":{"age":"20","gender":"male","academicStatus":"other"}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &q))

	var verr *ValidationError
	require.True(t, errors.As(q.Validate(), &verr))
	assert.GreaterOrEqual(t, len(verr.Fields), 14)
}

func TestQuestionnaireResponseCopiesAnswers(t *testing.T) {
	q := lowRiskAnswers()
	resp := q.Response()

	assert.Equal(t, "20", resp.Demographics.Age)
	assert.Equal(t, "Family", resp.MentalHealth.SocialSupport)
	assert.Equal(t, "yes", resp.RiskAssessment.MentalHealthHelp)
	assert.Equal(t, []string{"Privacy", "Data Misuse"}, resp.AIRelated.AIConcerns)

	q.AIRelated.AIConcerns[0] = "mutated"
	assert.Equal(t, "Privacy", resp.AIRelated.AIConcerns[0])
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "aiRelated.aiConcerns", fieldPath("Questionnaire.aiRelated.aiConcerns[2]"))
	assert.Equal(t, "demographics.age", fieldPath("Questionnaire.demographics.age"))
}
