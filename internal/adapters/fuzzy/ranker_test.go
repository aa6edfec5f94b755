package fuzzy

import (
	"testing"
)

var corpus = []string{
	"how do I reset my password",
	"how do I change my email",
	"where is my invoice",
	"can I get a refund",
}

func TestRank(t *testing.T) {
	r := NewRanker()

	tests := []struct {
		name      string
		query     string
		wantLabel string // empty means no result
	}{
		{name: "exact match", query: "where is my invoice", wantLabel: "where is my invoice"},
		{name: "case insensitive exact", query: "HOW DO I CHANGE MY EMAIL", wantLabel: "how do I change my email"},
		{name: "typos", query: "how do i resett my passwrd", wantLabel: "how do I reset my password"},
		{name: "partial", query: "get a refund", wantLabel: "can I get a refund"},
		{name: "nonsense", query: "xyzzy plugh", wantLabel: ""},
		{name: "empty", query: "", wantLabel: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Rank(tt.query, corpus)
			if tt.wantLabel == "" {
				if len(got) != 0 {
					t.Errorf("expected no match, got %+v", got)
				}
				return
			}
			if len(got) == 0 {
				t.Fatalf("expected %q, got no match", tt.wantLabel)
			}
			if got[0].Label != tt.wantLabel {
				t.Errorf("top label = %q, want %q (all: %+v)", got[0].Label, tt.wantLabel, got)
			}
		})
	}
}

func TestRank_SortedAndThresholded(t *testing.T) {
	r := NewRanker()
	got := r.Rank("how do I reset my email", corpus)
	if len(got) < 2 {
		t.Fatalf("expected at least two candidates, got %+v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("results not sorted by score: %+v", got)
		}
	}
	for _, g := range got {
		if g.Score < DefaultMinScore || g.Score > 1 {
			t.Errorf("score out of range: %+v", g)
		}
	}
}

func TestRank_NoCandidates(t *testing.T) {
	if got := NewRanker().Rank("anything", nil); len(got) != 0 {
		t.Errorf("expected no results, got %+v", got)
	}
}

func TestSet_AddDeduplicatesCaseInsensitively(t *testing.T) {
	s := NewRanker().NewSet(nil)
	if !s.Add("Reset Password") {
		t.Fatal("first add should succeed")
	}
	if s.Add("reset password") {
		t.Error("second add of the same lowercase value should be ignored")
	}

	got := s.Get("reset password")
	if len(got) != 1 || got[0].Label != "Reset Password" || got[0].Score != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestGrams(t *testing.T) {
	tests := []struct {
		value string
		size  int
		want  []string
	}{
		{value: "ab", size: 2, want: []string{"-a", "ab", "b-"}},
		{value: "a", size: 3, want: []string{"-a-"}},
		{value: "A!b", size: 2, want: []string{"-a", "ab", "b-"}},
		{value: "", size: 3, want: []string{"---"}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := grams(tt.value, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("grams(%q, %d) = %v, want %v", tt.value, tt.size, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("grams(%q, %d) = %v, want %v", tt.value, tt.size, got, tt.want)
				}
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	if s := similarity("abc", "abc"); s != 1 {
		t.Errorf("identical strings should score 1, got %v", s)
	}
	if s := similarity("", ""); s != 1 {
		t.Errorf("empty strings should score 1, got %v", s)
	}
	if s := similarity("abcd", "abcf"); s != 0.75 {
		t.Errorf("one substitution in four should score 0.75, got %v", s)
	}
}
