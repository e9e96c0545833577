package retrieval

import (
	"fmt"
	"strings"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
)

// extractChunks turns a journal entry into the short text passages that
// get indexed for retrieval. Fragments of three words or fewer carry too
// little signal and are dropped.
func extractChunks(entry model.JournalEntry) []string {
	var chunks []string

	if entry.Summary != "" {
		chunks = append(chunks, fmt.Sprintf(
			"Log about %q (Type: %s).", entry.Summary, entry.Type))
	}

	if entry.PrimaryEmotion != "" {
		subject := "this event"
		if entry.Summary != "" {
			subject = fmt.Sprintf("%q", entry.Summary)
		}
		chunks = append(chunks, fmt.Sprintf(
			"Felt primarily %s regarding %s.", entry.PrimaryEmotion, subject))
	}

	if len(entry.Thoughts) > 0 {
		chunks = append(chunks, "My thoughts were: "+strings.Join(entry.Thoughts, ". "))
	}

	if len(entry.Learnings) > 0 {
		chunks = append(chunks, "Key learnings included: "+strings.Join(entry.Learnings, ". "))
	}

	kept := chunks[:0]
	for _, c := range chunks {
		if len(strings.Fields(c)) > 3 {
			kept = append(kept, c)
		}
	}
	return kept
}
