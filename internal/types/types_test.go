package types

import (
	"strings"
	"testing"
)

func TestIssueContentValidate(t *testing.T) {
	tests := []struct {
		name        string
		issue       IssueContent
		expectError bool
		errorMsg    string
	}{
		{
			name:  "valid with title and body",
			issue: IssueContent{ID: "iss-1", Title: "Login fails", Body: "Steps to reproduce..."},
		},
		{
			name:  "valid with title only",
			issue: IssueContent{ID: "iss-2", Title: "Login fails"},
		},
		{
			name:  "valid with body only",
			issue: IssueContent{ID: "iss-3", Body: "Something is broken"},
		},
		{
			name:        "missing id",
			issue:       IssueContent{Title: "Login fails"},
			expectError: true,
			errorMsg:    "id is required",
		},
		{
			name:        "no title or body",
			issue:       IssueContent{ID: "iss-4"},
			expectError: true,
			errorMsg:    "neither title nor body",
		},
		{
			name:        "whitespace-only content",
			issue:       IssueContent{ID: "iss-5", Title: "   ", Body: "\n\t"},
			expectError: true,
			errorMsg:    "neither title nor body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.issue.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errorMsg)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestText(t *testing.T) {
	a := IssueContent{ID: "a", Title: "Login fails", Body: "on mobile"}
	b := IssueContent{ID: "b", Title: "Login fails", Body: "on mobile"}
	if a.Text() != b.Text() {
		t.Error("same content should produce identical text")
	}
	if a.Text() != "Login fails\non mobile" {
		t.Errorf("unexpected text: %q", a.Text())
	}
}

func TestValidateCorpus(t *testing.T) {
	if err := ValidateCorpus(nil); err == nil {
		t.Error("empty corpus should be rejected")
	}

	valid := []IssueContent{{ID: "a", Title: "one"}, {ID: "b", Title: "two"}}
	if err := ValidateCorpus(valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := []IssueContent{{ID: "a", Title: "one"}, {ID: ""}}
	err := ValidateCorpus(invalid)
	if err == nil {
		t.Fatal("corpus with invalid entry should be rejected")
	}
	if !strings.Contains(err.Error(), "entry 1") {
		t.Errorf("error should name the offending entry: %v", err)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
