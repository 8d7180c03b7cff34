package agenda

import (
	"strings"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// Section markers used by the agenda template. Registration clients submit
// agendas in this format; free-form text simply yields empty sections and is
// scored on the raw text instead.
const (
	markerPurpose   = "📍 Purpose:"
	markerOutcomes  = "🎯 Expected Outcomes:"
	markerDecisions = "⚡ Decisions Needed:"
	markerPrereads  = "📌 Pre-reads"
)

// ParseSections splits raw agenda text into the template sections.
// Missing markers produce empty sections; Raw always carries the input.
func ParseSections(raw string) domain.Agenda {
	return domain.Agenda{
		Raw:       raw,
		Purpose:   extractSection(raw, markerPurpose, "🎯"),
		Outcomes:  extractSection(raw, markerOutcomes, "⚡"),
		Decisions: extractSection(raw, markerDecisions, "📌"),
		Prereads:  extractSection(raw, markerPrereads, ""),
	}
}

// extractSection returns the trimmed text between startMarker and the next
// occurrence of endMarker. An empty endMarker means "until end of text".
func extractSection(text, startMarker, endMarker string) string {
	start := strings.Index(text, startMarker)
	if start == -1 {
		return ""
	}

	content := text[start+len(startMarker):]
	if endMarker != "" {
		if end := strings.Index(content, endMarker); end != -1 {
			content = content[:end]
		}
	}

	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, ":")

	return strings.TrimSpace(content)
}
