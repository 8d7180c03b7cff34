package agenda

import (
	"fmt"
	"strings"
	"time"
)

// Suggestion is a proposed agenda skeleton for a meeting.
type Suggestion struct {
	Purpose          string   `json:"purpose"`
	Outcomes         []string `json:"outcomes"`
	DiscussionPoints []string `json:"discussion_points"`
	Prereads         string   `json:"prereads"`
}

// archetype matches a meeting title pattern to a canned suggestion.
type archetype struct {
	keywords   []string
	suggestion Suggestion
}

var archetypes = []archetype{
	{
		keywords: []string{"standup", "stand-up", "daily"},
		suggestion: Suggestion{
			Purpose:  "Sync on progress, surface blockers early",
			Outcomes: []string{"Everyone knows what the team is working on", "Blockers have an owner"},
			DiscussionPoints: []string{
				"What did you finish yesterday?",
				"What are you working on today?",
				"What is blocking you?",
			},
			Prereads: "None needed, keep it quick",
		},
	},
	{
		keywords: []string{"review", "retro", "retrospective"},
		suggestion: Suggestion{
			Purpose:  "Review recent work and agree on improvements",
			Outcomes: []string{"Feedback is captured", "Action items have owners and dates"},
			DiscussionPoints: []string{
				"Review what shipped",
				"Discuss what went well and what did not",
				"Decide on concrete improvements",
			},
			Prereads: "Link to the work being reviewed",
		},
	},
	{
		keywords: []string{"planning", "plan", "roadmap", "sprint"},
		suggestion: Suggestion{
			Purpose:  "Align on priorities and commit to a plan",
			Outcomes: []string{"A prioritized list everyone agrees on", "Clear owners for each item"},
			DiscussionPoints: []string{
				"Review candidate items",
				"Discuss capacity and constraints",
				"Decide what is in and what is out",
			},
			Prereads: "Backlog or roadmap document",
		},
	},
	{
		keywords: []string{"demo", "showcase", "show and tell"},
		suggestion: Suggestion{
			Purpose:  "Show working results and gather feedback",
			Outcomes: []string{"Stakeholders have seen the current state", "Feedback is recorded"},
			DiscussionPoints: []string{
				"Walk through the demo",
				"Discuss questions and feedback",
				"Decide on follow-ups",
			},
			Prereads: "None, the demo speaks for itself",
		},
	},
	{
		keywords: []string{"1:1", "1-1", "one on one", "one-on-one"},
		suggestion: Suggestion{
			Purpose:  "Dedicated time for feedback, growth, and unblocking",
			Outcomes: []string{"Both sides know where they stand", "Concerns have next steps"},
			DiscussionPoints: []string{
				"How are things going?",
				"Discuss current challenges",
				"Review goals and growth",
			},
			Prereads: "Shared 1:1 doc if you keep one",
		},
	},
	{
		keywords: []string{"all hands", "all-hands", "town hall", "townhall"},
		suggestion: Suggestion{
			Purpose:  "Share company-wide updates and answer questions",
			Outcomes: []string{"Everyone has the same context", "Open questions are answered"},
			DiscussionPoints: []string{
				"Review key updates and metrics",
				"Discuss upcoming changes",
				"Open Q&A",
			},
			Prereads: "Slide deck shared beforehand",
		},
	},
}

var genericSuggestion = Suggestion{
	Purpose:  "State why this meeting needs to happen",
	Outcomes: []string{"A decision or a concrete next step", "Owners assigned to follow-ups"},
	DiscussionPoints: []string{
		"Review the current state",
		"Discuss the options",
		"Decide on the path forward",
	},
	Prereads: "Any context attendees should read first",
}

// Suggest proposes an agenda for a meeting based on its title, attendee
// count, and duration. Title matching is case-insensitive.
func Suggest(title string, attendeeCount int, duration time.Duration) Suggestion {
	lower := strings.ToLower(title)

	s := genericSuggestion
	for _, a := range archetypes {
		if matchesAny(lower, a.keywords) {
			s = a.suggestion
			break
		}
	}

	if attendeeCount > 8 {
		s.DiscussionPoints = append(s.DiscussionPoints,
			fmt.Sprintf("With %d attendees, consider who actually needs to be here", attendeeCount))
	}
	if duration >= time.Hour {
		s.DiscussionPoints = append(s.DiscussionPoints,
			"Long meeting, plan a break or tighten the scope")
	}

	return s
}

func matchesAny(title string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// Template renders a suggestion into agenda text that scores well with
// both Analyze and ScoreSections.
func (s Suggestion) Template() string {
	var b strings.Builder

	b.WriteString(markerPurpose + " " + s.Purpose + "\n\n")

	b.WriteString(markerOutcomes + "\n")
	for _, o := range s.Outcomes {
		b.WriteString("- " + o + "\n")
	}
	b.WriteString("\n")

	b.WriteString(markerDecisions + "\n")
	for _, p := range s.DiscussionPoints {
		b.WriteString("- " + p + "\n")
	}
	b.WriteString("\n")

	b.WriteString(markerPrereads + ": " + s.Prereads + "\n")

	return b.String()
}
