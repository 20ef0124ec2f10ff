package services

import "fmt"

// ActionPlan is the planner output for one classified conversation.
type ActionPlan struct {
	ActionItems []string `json:"action_items"`
	NextSteps   []string `json:"next_steps"`
	Summary     string   `json:"summary"`
}

// Fixed, ordered recommendation tables keyed by sentiment.
var nextStepsBySentiment = map[string][]string{
	"positive": {
		"Send proposal within 24 hours",
		"Schedule presentation or demo",
		"Prepare contract or agreement",
		"Connect with decision makers",
	},
	"negative": {
		"Call back within 2 hours to address concerns",
		"Escalate to senior team member",
		"Prepare detailed FAQ document",
		"Offer consultation with technical expert",
	},
	"neutral": {
		"Send informational packet",
		"Schedule follow-up call in 1 week",
		"Provide case studies and testimonials",
		"Offer free consultation or trial",
	},
}

// PlanActions maps a sentiment classification to an ordered list of
// action items and next-step recommendations, plus a one-line summary
// parameterized by the keyword counts.
func PlanActions(sentiment string, positiveCount, negativeCount, questionCount int) ActionPlan {
	actions := []string{}

	switch sentiment {
	case "positive":
		actions = append(actions,
			"Follow up with proposal or next steps",
			"Schedule follow-up meeting",
		)
		if positiveCount > 2 {
			actions = append(actions, "Consider upselling opportunities")
		}
	case "negative":
		actions = append(actions,
			"Address customer concerns immediately",
			"Escalate to supervisor if needed",
			"Provide additional information to resolve issues",
		)
	default:
		actions = append(actions,
			"Send additional information to build interest",
			"Schedule follow-up call to check status",
		)
	}

	if questionCount > 2 {
		actions = append(actions, "Prepare detailed answers for customer questions")
	}

	nextSteps, ok := nextStepsBySentiment[sentiment]
	if !ok {
		nextSteps = nextStepsBySentiment["neutral"]
	}
	// Copy so callers cannot mutate the shared table
	steps := append([]string{}, nextSteps...)

	return ActionPlan{
		ActionItems: actions,
		NextSteps:   steps,
		Summary:     planSummary(sentiment, positiveCount, negativeCount, questionCount),
	}
}

func planSummary(sentiment string, positiveCount, negativeCount, questionCount int) string {
	switch sentiment {
	case "positive":
		if questionCount > 0 {
			return fmt.Sprintf("Customer showed positive interest with %d positive indicators. Asked %d questions showing engagement.", positiveCount, questionCount)
		}
		return fmt.Sprintf("Customer showed positive interest with %d positive indicators. Good overall response.", positiveCount)
	case "negative":
		return fmt.Sprintf("Customer expressed concerns with %d negative indicators. Requires immediate attention and follow-up.", negativeCount)
	default:
		return "Neutral conversation with mixed signals. Customer seems undecided and may need more information."
	}
}
