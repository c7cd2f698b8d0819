package submission

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dkoosis/promptboard/internal/api"
	"github.com/dkoosis/promptboard/pkg/leaderboard"
	"github.com/dkoosis/promptboard/pkg/pattern"
)

// Status is the outcome of one fixed question.
type Status string

const (
	Correct   Status = pattern.StatusCorrect
	Incorrect Status = pattern.StatusIncorrect
	Unknown   Status = pattern.StatusUnknown // absent from the response
)

// goodScore is the score above which a result is shown as a success.
const goodScore = 3

// Row is one fixed question with its matched result.
type Row struct {
	Question Question
	Status   Status
	Actual   string // classification the prompt produced, empty when Unknown
}

// MatchResults maps result entries onto the fixed question set by trimmed
// question text. Questions without a matching entry are Unknown, and result
// entries for questions outside the set are ignored.
func MatchResults(results map[string]api.QuestionResult) []Row {
	byText := make(map[string]api.QuestionResult, len(results))
	for _, r := range results {
		if key := strings.TrimSpace(r.Question); key != "" {
			byText[key] = r
		}
	}

	rows := make([]Row, 0, len(questions))
	for _, q := range questions {
		row := Row{Question: q, Status: Unknown}
		if r, ok := byText[strings.TrimSpace(q.Text)]; ok {
			row.Actual = CanonicalCategory(r.Classification)
			row.Status = Incorrect
			if r.Correct {
				row.Status = Correct
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// CanonicalCategory returns the known category spelling for a classification
// that matches one case-insensitively ("sticos", "SUPPORTAI"). Anything else
// is returned trimmed. A Caser is not safe for concurrent use, so each call
// builds its own.
func CanonicalCategory(classification string) string {
	got := strings.TrimSpace(classification)
	fold := cases.Fold()
	key := fold.String(got)
	for _, c := range Categories {
		if fold.String(string(c)) == key {
			return string(c)
		}
	}
	return got
}

// Feedback is the scored outcome of one submission.
type Feedback struct {
	Score float64
	Uses  int
	Rows  []Row
}

// NewFeedback matches res against the fixed question set.
func NewFeedback(res *api.SubmissionResult) *Feedback {
	return &Feedback{Score: res.Score, Uses: res.NumUses, Rows: MatchResults(res.Results)}
}

// ScoreText formats the score as "N/20".
func (f *Feedback) ScoreText() string {
	return fmt.Sprintf("%s/%d", leaderboard.FormatScore(f.Score), len(questions))
}

// TriesText formats the attempt count as "N/5".
func (f *Feedback) TriesText() string {
	return fmt.Sprintf("%d/%d", f.Uses, MaxAttempts)
}

// Exhausted reports whether no attempts remain.
func (f *Feedback) Exhausted() bool {
	return f.Uses >= MaxAttempts
}

// Correct counts rows marked correct.
func (f *Feedback) Correct() int {
	n := 0
	for _, r := range f.Rows {
		if r.Status == Correct {
			n++
		}
	}
	return n
}

// Patterns returns the feedback as renderable patterns.
func (f *Feedback) Patterns() []pattern.Pattern {
	scoreKind := "warning"
	if f.Score > goodScore {
		scoreKind = "success"
	}
	triesKind := "info"
	if f.Exhausted() {
		triesKind = "error"
	}

	table := &pattern.TestTable{Label: "Results", Results: make([]pattern.TestTableItem, 0, len(f.Rows))}
	for _, r := range f.Rows {
		table.Results = append(table.Results, pattern.TestTableItem{
			Name:     r.Question.Text,
			Status:   string(r.Status),
			Expected: string(r.Question.Expected),
			Actual:   r.Actual,
		})
	}

	out := []pattern.Pattern{
		&pattern.Summary{
			Label: "Your submission",
			Kind:  pattern.SummaryKindFeedback,
			Metrics: []pattern.SummaryItem{
				{Label: "Score", Value: f.ScoreText(), Kind: scoreKind},
				{Label: "Tries", Value: f.TriesText(), Kind: triesKind},
			},
		},
		table,
	}
	if f.Exhausted() {
		out = append(out, &pattern.Notice{Level: pattern.NoticeWarn, Text: "Maximum attempts reached"})
	}
	return out
}
