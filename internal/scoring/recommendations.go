package scoring

var recommendationSets = map[RiskLevel][]Recommendation{
	RiskCrisis: {
		{Type: TypeImmediateHelp, Message: "Please contact emergency services (911) or go to your nearest emergency room immediately.", Priority: PriorityUrgent},
		{Type: TypeProfessionalSupport, Message: "Contact the 988 Suicide & Crisis Lifeline: 988", Priority: PriorityUrgent},
	},
	RiskHigh: {
		{Type: TypeImmediateHelp, Message: "Consider contacting a mental health professional today.", Priority: PriorityHigh},
		{Type: TypeProfessionalSupport, Message: "Call 988 Lifeline: 988 for immediate support", Priority: PriorityHigh},
	},
	RiskAtRisk: {
		{Type: TypeProfessionalSupport, Message: "We recommend speaking with a mental health professional.", Priority: PriorityHigh},
		{Type: TypeResources, Message: "Explore our resource library for coping strategies.", Priority: PriorityMedium},
	},
	RiskModerate: {
		{Type: TypeSelfCare, Message: "Focus on self-care activities and stress management.", Priority: PriorityMedium},
		{Type: TypeResources, Message: "Consider exploring our wellness resources.", Priority: PriorityMedium},
	},
	RiskLow: {
		{Type: TypeSelfCare, Message: "Continue your positive mental health practices.", Priority: PriorityLow},
	},
}

// RecommendationsFor returns a copy of the fixed recommendation set for level.
// Unknown levels get the Low Risk set.
func RecommendationsFor(level RiskLevel) []Recommendation {
	set, ok := recommendationSets[level]
	if !ok {
		set = recommendationSets[RiskLow]
	}
	out := make([]Recommendation, len(set))
	copy(out, set)
	return out
}
