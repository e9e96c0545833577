package ai

import (
	"testing"

	"github.com/shrish842/Angel-My-MindAi/internal/model"
)

func TestRouteExpert(t *testing.T) {
	cases := []struct {
		query string
		want  Expert
	}{
		{"How should I prepare for my exam next week?", ExpertAcademic},
		{"my marks dropped this semester", ExpertAcademic},
		{"I had an argument with my girlfriend", ExpertRelationship},
		{"I am feeling really anxious today", ExpertEmotion},
		{"I feel stressed about everything", ExpertEmotion},
		{"how to solve this scheduling problem", ExpertProblemSolving},
		{"struggling with time management lately", ExpertProblemSolving},
		{"planning a trip with friends", ExpertLeisure},
		{"should I play cricket this weekend", ExpertLeisure},
		{"what did I write last month", ExpertGeneral},
		{"", ExpertGeneral},
	}

	for _, tc := range cases {
		if got := RouteExpert(tc.query); got != tc.want {
			t.Errorf("RouteExpert(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestRouteExpertPrefersMoreSpecificExperts(t *testing.T) {
	// "study" (academic) and "feel" (emotion) both match; the academic
	// advisor is checked first.
	if got := RouteExpert("I feel unprepared for my study schedule"); got != ExpertAcademic {
		t.Errorf("got %s, want academic_advisor_expert", got)
	}
}

func TestRetrievalFilterMapsExpertsToEntryTypes(t *testing.T) {
	cases := []struct {
		expert Expert
		want   string
	}{
		{ExpertAcademic, model.EntryAcademicSetback},
		{ExpertRelationship, model.EntryConflict},
		{ExpertEmotion, model.EntryEmotionLog},
		{ExpertProblemSolving, model.EntryProblemSolving},
		{ExpertLeisure, model.EntrySocialEvent},
	}

	for _, tc := range cases {
		f := retrievalFilter(tc.expert)
		if f.EntryType == nil || *f.EntryType != tc.want {
			t.Errorf("retrievalFilter(%s).EntryType = %v, want %s", tc.expert, f.EntryType, tc.want)
		}
	}

	if f := retrievalFilter(ExpertGeneral); f.EntryType != nil {
		t.Errorf("general assistant should search unfiltered, got %v", *f.EntryType)
	}
}

func TestExpertDisplayName(t *testing.T) {
	if got := ExpertEmotion.DisplayName(); got != "Emotion Reflection Expert" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := ExpertGeneral.DisplayName(); got != "General Assistant" {
		t.Errorf("DisplayName = %q", got)
	}
}
