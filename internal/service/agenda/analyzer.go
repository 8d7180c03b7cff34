// Package agenda scores and analyzes meeting agendas with deterministic
// keyword and pattern heuristics. Everything in this package is pure:
// same input, same output, no side effects.
package agenda

import (
	"fmt"
	"regexp"
	"strings"
)

// Maximum points per analysis dimension.
const (
	maxClarity       = 30
	maxCompleteness  = 30
	maxActionability = 25
	maxStructure     = 15

	passThreshold = 70
)

// FeedbackType classifies a feedback entry.
type FeedbackType string

const (
	FeedbackWarning FeedbackType = "warning"
	FeedbackInfo    FeedbackType = "info"
	FeedbackSuccess FeedbackType = "success"
)

// Feedback is a single actionable message about an agenda.
type Feedback struct {
	Type    FeedbackType `json:"type"`
	Message string       `json:"message"`
}

// Breakdown holds the per-dimension scores of an analysis.
type Breakdown struct {
	Clarity       int `json:"clarity"`
	Completeness  int `json:"completeness"`
	Actionability int `json:"actionability"`
	Structure     int `json:"structure"`
}

// Analysis is the full result of analyzing an agenda.
type Analysis struct {
	Score     int        `json:"score"`
	Breakdown Breakdown  `json:"breakdown"`
	Feedback  []Feedback `json:"feedback"`
	Passed    bool       `json:"passed"`
}

var (
	rePurpose   = regexp.MustCompile(`(?i)purpose|objective|goal|why`)
	reJargon    = regexp.MustCompile(`(?i)synergy|leverage|circle back|touch base|deep dive`)
	reOutcome   = regexp.MustCompile(`(?i)outcome|result|deliverable|output`)
	reDecision  = regexp.MustCompile(`(?i)decision|decide|approve|choose`)
	reAttendee  = regexp.MustCompile(`(?i)attendee|participant|who|team`)
	reTime      = regexp.MustCompile(`(?i)time|duration|minute|hour`)
	reBullets   = regexp.MustCompile(`[•\-*]|\d+\.`)
	reSections  = regexp.MustCompile(`(?i)purpose:|outcome:|decision:`)
	reMultiline = regexp.MustCompile(`\n`)
)

// actionVerbs scored for actionability, 5 points each, capped at 15.
var actionVerbs = []string{"discuss", "decide", "review", "approve", "plan", "align"}

// Analyze scores an agenda across four dimensions and produces feedback.
// Malformed input is treated as empty text and scores zero.
func Analyze(text string) Analysis {
	breakdown := Breakdown{
		Clarity:       checkClarity(text),
		Completeness:  checkCompleteness(text),
		Actionability: checkActionability(text),
		Structure:     checkStructure(text),
	}

	score := breakdown.Clarity + breakdown.Completeness + breakdown.Actionability + breakdown.Structure

	return Analysis{
		Score:     score,
		Breakdown: breakdown,
		Feedback:  generateFeedback(breakdown),
		Passed:    score >= passThreshold,
	}
}

// checkClarity awards up to 30 points: clear purpose language, enough
// length, and low jargon density.
func checkClarity(text string) int {
	score := 0

	if rePurpose.MatchString(text) {
		score += 10
	}
	if len(text) > 100 {
		score += 10
	}
	if len(reJargon.FindAllString(text, -1)) < 3 {
		score += 10
	}

	return score
}

// checkCompleteness awards up to 30 points for outcome, decision, attendee,
// and time context.
func checkCompleteness(text string) int {
	score := 0

	if reOutcome.MatchString(text) {
		score += 10
	}
	if reDecision.MatchString(text) {
		score += 10
	}
	if reAttendee.MatchString(text) {
		score += 5
	}
	if reTime.MatchString(text) {
		score += 5
	}

	return score
}

// checkActionability awards up to 25 points: distinct action verbs (5 each,
// capped at 15) plus bullet or numbered structure.
func checkActionability(text string) int {
	score := 0
	lower := strings.ToLower(text)

	found := 0
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			found++
		}
	}
	score += min(found*5, 15)

	if reBullets.MatchString(text) {
		score += 10
	}

	return score
}

// checkStructure awards up to 15 points: explicit section headers and
// multi-line formatting.
func checkStructure(text string) int {
	score := 0

	if reSections.MatchString(text) {
		score += 10
	}
	if reMultiline.MatchString(text) {
		score += 5
	}

	return score
}

func generateFeedback(b Breakdown) []Feedback {
	var feedback []Feedback

	if b.Clarity < 20 {
		feedback = append(feedback, Feedback{
			Type:    FeedbackWarning,
			Message: `💡 Make your purpose clearer. Add "Purpose: [why are we meeting?]"`,
		})
	}
	if b.Completeness < 20 {
		feedback = append(feedback, Feedback{
			Type:    FeedbackWarning,
			Message: "📋 Add expected outcomes. What should we accomplish?",
		})
	}
	if b.Actionability < 15 {
		feedback = append(feedback, Feedback{
			Type:    FeedbackWarning,
			Message: "⚡ Be more specific. List concrete discussion points.",
		})
	}
	if b.Structure < 10 {
		feedback = append(feedback, Feedback{
			Type:    FeedbackInfo,
			Message: "📝 Use our template for better structure.",
		})
	}
	if b.Clarity >= 25 {
		feedback = append(feedback, Feedback{
			Type:    FeedbackSuccess,
			Message: "✨ Great clarity! Purpose is well-defined.",
		})
	}

	return feedback
}

// SuggestImprovements lists missing-element prompts for an agenda,
// independent of its score.
func SuggestImprovements(text string) []string {
	var suggestions []string

	if !regexp.MustCompile(`(?i)purpose|objective`).MatchString(text) {
		suggestions = append(suggestions, "Add a clear purpose statement")
	}
	if !regexp.MustCompile(`(?i)outcome|result|deliverable`).MatchString(text) {
		suggestions = append(suggestions, "Define expected outcomes")
	}
	if !regexp.MustCompile(`(?i)decision|approve`).MatchString(text) {
		suggestions = append(suggestions, "List decisions that need to be made")
	}
	if len(text) < 100 {
		suggestions = append(suggestions, fmt.Sprintf("Provide more detail (current: %d chars)", len(text)))
	}
	if !strings.Contains(text, ":") {
		suggestions = append(suggestions, "Use sections: Purpose, Outcomes, Decisions")
	}

	return suggestions
}
