package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"sirsphoto/internal/relocate"
)

func confirmQuestion() relocate.Question {
	return relocate.Question{Kind: "confirm", Title: "Continue?", Options: []string{"continue", "cancel"}, Confirm: true}
}

func choiceQuestion() relocate.Question {
	return relocate.Question{Kind: "choice", Title: "Pick", Options: []string{"a", "b", "c", "d"}}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name    string
		q       relocate.Question
		answer  string
		want    int
		wantErr bool
	}{
		{"confirm number", confirmQuestion(), "1", 0, false},
		{"confirm oui", confirmQuestion(), " Oui ", 0, false},
		{"confirm yes", confirmQuestion(), "yes", 0, false},
		{"confirm o", confirmQuestion(), "o", 0, false},
		{"confirm cancel option", confirmQuestion(), "2", 0, true},
		{"confirm no", confirmQuestion(), "non", 0, true},
		{"choice third", choiceQuestion(), "3", 2, false},
		{"choice yes word", choiceQuestion(), "yes", 0, true},
		{"choice out of range", choiceQuestion(), "5", 0, true},
		{"choice zero", choiceQuestion(), "0", 0, true},
		{"empty", choiceQuestion(), "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswer(tt.q, tt.answer)
			if tt.wantErr {
				if !errors.Is(err, relocate.ErrUserCancelled) {
					t.Fatalf("expected cancellation, got %d, %v", got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseAnswer(%q) = %d, %v; want %d", tt.answer, got, err, tt.want)
			}
		})
	}
}

func TestConsoleDecide(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("2\n"), &out, false)
	q := choiceQuestion()
	q.Details = []string{"detail line"}
	got, err := c.Decide(context.Background(), q)
	if err != nil || got != 1 {
		t.Fatalf("Decide = %d, %v", got, err)
	}
	text := out.String()
	for _, want := range []string{"Pick", "  detail line", "(1) a", "(4) d", "Your choice: "} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestConsoleDecideEOF(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out, false)
	if _, err := c.Decide(context.Background(), confirmQuestion()); !errors.Is(err, relocate.ErrUserCancelled) {
		t.Fatalf("expected cancellation on EOF, got %v", err)
	}
}

func TestConsoleDecideLastLineWithoutNewline(t *testing.T) {
	c := NewConsole(strings.NewReader("oui"), &bytes.Buffer{}, false)
	got, err := c.Decide(context.Background(), confirmQuestion())
	if err != nil || got != 0 {
		t.Fatalf("Decide = %d, %v", got, err)
	}
}

func TestScripted(t *testing.T) {
	s := NewScripted("1")
	ctx := context.Background()
	if got, err := s.Decide(ctx, confirmQuestion()); err != nil || got != 0 {
		t.Fatalf("first answer = %d, %v", got, err)
	}
	if _, err := s.Decide(ctx, choiceQuestion()); !errors.Is(err, relocate.ErrUserCancelled) {
		t.Fatalf("expected cancellation when script runs out, got %v", err)
	}
	if kinds := s.Kinds(); len(kinds) != 2 || kinds[0] != "confirm" || kinds[1] != "choice" {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}
