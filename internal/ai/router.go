package ai

import (
	"strings"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
	"github.com/shrish842/Angel-My-MindAi/internal/retrieval"
)

// Expert identifies the specialist persona that handles a query.
type Expert string

const (
	ExpertGeneral        Expert = "general_assistant"
	ExpertEmotion        Expert = "emotion_reflection_expert"
	ExpertProblemSolving Expert = "problem_solving_expert"
	ExpertAcademic       Expert = "academic_advisor_expert"
	ExpertRelationship   Expert = "relationship_counselor_expert"
	ExpertLeisure        Expert = "leisure_activity_expert"
)

// DisplayName renders the expert label for the UI.
func (e Expert) DisplayName() string {
	words := strings.Split(string(e), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// expertKeywords maps each specialist to the query keywords that select
// it. More specific experts are checked before broader ones.
var expertKeywords = []struct {
	expert   Expert
	keywords []string
}{
	{ExpertAcademic, []string{
		"academic", "study", "studies", "exam", "marks", "remedial", "subject",
	}},
	{ExpertRelationship, []string{
		"girlfriend", "relationship", "conflict with", "argument with",
	}},
	{ExpertEmotion, []string{
		"feel", "feeling", "emotion", "sad", "happy", "anxious", "stressed",
		"joyful", "disappointed",
	}},
	{ExpertProblemSolving, []string{
		"problem", "solve", "issue", "task", "how to", "strategy", "difficult",
		"time management", "balance",
	}},
	{ExpertLeisure, []string{
		"trip", "travel", "friends", "flatmates", "waterpark", "cricket",
		"hobby", "sport",
	}},
}

// RouteExpert picks the specialist for a query by keyword matching.
// Queries matching nothing go to the general assistant.
func RouteExpert(query string) Expert {
	q := strings.ToLower(query)
	for _, entry := range expertKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return entry.expert
			}
		}
	}
	return ExpertGeneral
}

// retrievalFilter returns the log filter an expert searches under, so
// the academic advisor sees academic setbacks rather than travel notes.
func retrievalFilter(expert Expert) retrieval.Filter {
	var entryType string
	switch expert {
	case ExpertAcademic:
		entryType = model.EntryAcademicSetback
	case ExpertRelationship:
		entryType = model.EntryConflict
	case ExpertEmotion:
		entryType = model.EntryEmotionLog
	case ExpertProblemSolving:
		entryType = model.EntryProblemSolving
	case ExpertLeisure:
		entryType = model.EntrySocialEvent
	default:
		return retrieval.Filter{}
	}
	return retrieval.Filter{EntryType: &entryType}
}
