package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/promptboard/internal/api"
	"github.com/dkoosis/promptboard/internal/session"
	"github.com/dkoosis/promptboard/pkg/pattern"
)

type fakeSubmitter struct {
	res   *api.SubmissionResult
	err   error
	calls int
	last  string
}

func (f *fakeSubmitter) Submit(_ context.Context, _, _, prompt string) (*api.SubmissionResult, error) {
	f.calls++
	f.last = prompt
	return f.res, f.err
}

type fakeStore struct {
	saved   *session.Session
	cleared bool
}

func (s *fakeStore) Save(sess *session.Session) error {
	cp := *sess
	s.saved = &cp
	return nil
}

func (s *fakeStore) Clear() error {
	s.cleared = true
	return nil
}

func signedIn() *session.Session {
	return &session.Session{Name: "ola", Password: "pw"}
}

func TestQuestions_FixedSet(t *testing.T) {
	qs := Questions()
	require.Len(t, qs, 20)
	for _, q := range qs {
		assert.Contains(t, Categories, q.Expected, q.Text)
	}
	qs[0].Text = "changed"
	assert.NotEqual(t, "changed", Questions()[0].Text)
}

func TestValidatePrompt(t *testing.T) {
	assert.ErrorIs(t, ValidatePrompt(""), ErrEmptyPrompt)
	assert.ErrorIs(t, ValidatePrompt(" \n\t"), ErrEmptyPrompt)
	assert.NoError(t, ValidatePrompt("Classify the question"))

	var ve *ValidationError
	assert.ErrorAs(t, ValidatePrompt(""), &ve)
}

func TestMatchResults_CorrectAndUnknown(t *testing.T) {
	rows := MatchResults(map[string]api.QuestionResult{
		"q4": {Question: "Pause under arbeidstid", Classification: "Sticos", Correct: true},
	})

	require.Len(t, rows, 20)
	for _, r := range rows {
		if r.Question.Text == "Pause under arbeidstid" {
			assert.Equal(t, Correct, r.Status)
			assert.Equal(t, "Sticos", r.Actual)
			continue
		}
		assert.Equal(t, Unknown, r.Status, r.Question.Text)
		assert.Empty(t, r.Actual)
	}
}

func TestMatchResults_TrimsAndIgnoresStrangers(t *testing.T) {
	rows := MatchResults(map[string]api.QuestionResult{
		"a": {Question: "  Kan noe merkes som sluttfaktura?\n", Classification: "Sticos", Correct: false},
		"b": {Question: "Not in the set", Classification: "Sticos", Correct: true},
		"c": {Question: "   ", Correct: true},
	})

	var incorrect, correct int
	for _, r := range rows {
		switch r.Status {
		case Incorrect:
			incorrect++
			assert.Equal(t, "Kan noe merkes som sluttfaktura?", r.Question.Text)
		case Correct:
			correct++
		}
	}
	assert.Equal(t, 1, incorrect)
	assert.Equal(t, 0, correct)
}

func TestMatchResults_NormalizesCategorySpelling(t *testing.T) {
	rows := MatchResults(map[string]api.QuestionResult{
		"q4": {Question: "Pause under arbeidstid", Classification: " STICOS\n", Correct: true},
	})

	for _, r := range rows {
		if r.Question.Text == "Pause under arbeidstid" {
			assert.Equal(t, "Sticos", r.Actual)
		}
	}
}

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sticos", "Sticos"},
		{"supportai", "SupportAI"},
		{"INNSIKTSMODULEN", "Innsiktsmodulen"},
		{"  Other thing ", "Other thing"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalCategory(tt.in), tt.in)
	}
}

func TestMatchResults_NilIsAllUnknown(t *testing.T) {
	for _, r := range MatchResults(nil) {
		assert.Equal(t, Unknown, r.Status)
	}
}

func TestFlow_Submit_ReturnsFeedbackAndRecordsUses(t *testing.T) {
	client := &fakeSubmitter{res: &api.SubmissionResult{
		Score:   4,
		NumUses: 2,
		Results: map[string]api.QuestionResult{"1": {Question: "Pause under arbeidstid", Classification: "Sticos", Correct: true}},
	}}
	store := &fakeStore{}
	flow := NewFlow(client, store, signedIn(), nil)

	fb, err := flow.Submit(context.Background(), "Classify it")

	require.NoError(t, err)
	assert.Equal(t, "4/20", fb.ScoreText())
	assert.Equal(t, "2/5", fb.TriesText())
	assert.Equal(t, 1, fb.Correct())
	assert.False(t, fb.Exhausted())
	require.NotNil(t, store.saved)
	assert.Equal(t, 2, store.saved.Uses)
}

func TestFlow_Submit_EmptyPromptNeverSent(t *testing.T) {
	client := &fakeSubmitter{}
	_, err := NewFlow(client, nil, signedIn(), nil).Submit(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Zero(t, client.calls)
}

func TestFlow_Submit_UnauthorizedEndsSession(t *testing.T) {
	client := &fakeSubmitter{err: errors.Join(errors.New("POST /submit"), api.ErrUnauthorized)}
	store := &fakeStore{}

	_, err := NewFlow(client, store, signedIn(), nil).Submit(context.Background(), "p")

	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.True(t, store.cleared)
}

func TestFlow_Submit_RefusesLocallyWhenExhausted(t *testing.T) {
	client := &fakeSubmitter{}
	sess := signedIn()
	sess.Uses = MaxAttempts

	_, err := NewFlow(client, nil, sess, nil).Submit(context.Background(), "p")

	assert.ErrorIs(t, err, ErrNoAttemptsLeft)
	assert.Zero(t, client.calls)
}

func TestFlow_Submit_ServerExhaustedRecordsMax(t *testing.T) {
	client := &fakeSubmitter{err: api.ErrAttemptsExhausted}
	store := &fakeStore{}

	_, err := NewFlow(client, store, signedIn(), nil).Submit(context.Background(), "p")

	assert.ErrorIs(t, err, ErrNoAttemptsLeft)
	require.NotNil(t, store.saved)
	assert.Equal(t, MaxAttempts, store.saved.Uses)
	assert.False(t, store.cleared)
}

func TestFlow_Submit_FetchErrorKeepsSession(t *testing.T) {
	client := &fakeSubmitter{err: &api.FetchError{Op: "POST /submit", Status: 502}}
	store := &fakeStore{}

	_, err := NewFlow(client, store, signedIn(), nil).Submit(context.Background(), "p")

	assert.ErrorAs(t, err, new(*api.FetchError))
	assert.False(t, store.cleared)
	assert.Nil(t, store.saved)
}

func TestFlow_Submit_RequiresSession(t *testing.T) {
	_, err := NewFlow(&fakeSubmitter{}, nil, nil, nil).Submit(context.Background(), "p")
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestFeedback_Patterns(t *testing.T) {
	fb := NewFeedback(&api.SubmissionResult{Score: 12, NumUses: 5})
	patterns := fb.Patterns()

	require.Len(t, patterns, 3)
	summary, ok := patterns[0].(*pattern.Summary)
	require.True(t, ok)
	assert.Equal(t, "12/20", summary.Metrics[0].Value)
	assert.Equal(t, "success", summary.Metrics[0].Kind)
	assert.Equal(t, "5/5", summary.Metrics[1].Value)

	table, ok := patterns[1].(*pattern.TestTable)
	require.True(t, ok)
	assert.Len(t, table.Results, 20)
	assert.Equal(t, pattern.StatusUnknown, table.Results[0].Status)

	notice, ok := patterns[2].(*pattern.Notice)
	require.True(t, ok)
	assert.Equal(t, pattern.NoticeWarn, notice.Level)
}
