package actionguard

import "testing"

func TestGuardCheck(t *testing.T) {
	guard := NewGuard()

	tests := []struct {
		name       string
		action     string
		want       Verdict
		wantPhrase string
	}{
		{
			name:       "unfeasible verb embedded in sentence",
			action:     "teleport to the temple",
			want:       VerdictUnfeasible,
			wantPhrase: "teleport",
		},
		{
			name:       "unfeasible is case-insensitive",
			action:     "FLY over the mountain",
			want:       VerdictUnfeasible,
			wantPhrase: "fly",
		},
		{
			name:       "multi-word unfeasible phrase",
			action:     "I will phase through walls to escape",
			want:       VerdictUnfeasible,
			wantPhrase: "phase through walls",
		},
		{
			name:       "forbidden verb triggers failure",
			action:     "betray my companion",
			want:       VerdictForbidden,
			wantPhrase: "betray",
		},
		{
			name:       "forbidden phrase with surrounding text",
			action:     "quietly abandon quest and go home",
			want:       VerdictForbidden,
			wantPhrase: "abandon quest",
		},
		{
			name:       "mixed-case forbidden",
			action:     "Give Up",
			want:       VerdictForbidden,
			wantPhrase: "give up",
		},
		{
			name:   "ordinary action passes",
			action: "walk along the river and listen",
			want:   VerdictOK,
		},
		{
			name:   "empty input passes",
			action: "",
			want:   VerdictOK,
		},
		{
			name:       "unfeasible wins when both lists match",
			action:     "give up flying",
			want:       VerdictUnfeasible,
			wantPhrase: "fly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, phrase := guard.Check(tt.action)
			if got != tt.want {
				t.Errorf("Check(%q) verdict = %v, want %v", tt.action, got, tt.want)
			}
			if phrase != tt.wantPhrase {
				t.Errorf("Check(%q) phrase = %q, want %q", tt.action, phrase, tt.wantPhrase)
			}
		})
	}
}
