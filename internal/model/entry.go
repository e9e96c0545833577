package model

import "time"

// Journal entry types. Entries are free-form beyond the type label; the
// type drives retrieval filtering when the assistant searches past logs.
const (
	EntryEmotionLog      = "emotion_log"
	EntryConflict        = "interpersonal_conflict"
	EntryAcademicSetback = "academic_setback"
	EntryProblemSolving  = "problem_solving"
	EntrySocialEvent     = "social_event_travel"
	EntryRecreation      = "recreational_activity"
	EntryHobbySport      = "hobby_sport"
	EntryGeneralNote     = "general_note"
)

// EntryTypes lists the recognized journal entry types in display order.
var EntryTypes = []string{
	EntryEmotionLog,
	EntryConflict,
	EntryAcademicSetback,
	EntryProblemSolving,
	EntrySocialEvent,
	EntryRecreation,
	EntryHobbySport,
	EntryGeneralNote,
}

// JournalEntry is one record in the append-only personal log.
type JournalEntry struct {
	// ID is the unique identifier, assigned on append.
	ID string `json:"entry_id"`

	// Timestamp is set on append, always UTC.
	Timestamp time.Time `json:"timestamp_utc"`

	// Type is one of the Entry* constants (lowercased on write).
	Type string `json:"entry_type"`

	// Summary is the required short topic of the entry.
	Summary string `json:"summary"`

	// PrimaryEmotion is the dominant feeling, if any (lowercased).
	PrimaryEmotion string `json:"primary_emotion,omitempty"`

	// Thoughts are the detailed in-the-moment notes.
	Thoughts []string `json:"my_thoughts_during,omitempty"`

	// Learnings are insights or future actions the user recorded.
	Learnings []string `json:"reflection_learnings,omitempty"`

	// Intensity is an optional 1-10 rating for emotion-heavy entries.
	Intensity int `json:"intensity_level,omitempty"`

	// Tags are free-form labels (lowercased on write).
	Tags []string `json:"tags,omitempty"`
}
