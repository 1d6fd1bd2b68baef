package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/reviewboard/models"
)

func TestFeedbackAppendOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "feedback order")

	require.False(t, s.AddQuestionFeedback(ctx, qid, "too vague", "carol").Rejected)
	require.False(t, s.AddQuestionFeedback(ctx, qid, "better now", "dave").Rejected)

	got := s.QuestionFeedbackFor(ctx, qid)
	assert.Equal(t, []string{"carol: too vague", "dave: better now"}, got)
}

func TestFeedbackDefaultsToAnon(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "anon feedback")
	aid := mustCreateAnswer(t, s, qid, "an answer")

	s.AddQuestionFeedback(ctx, qid, "q note", "")
	s.AddAnswerFeedback(ctx, aid, "a note", "")

	assert.Equal(t, []string{"anon: q note"}, s.QuestionFeedbackFor(ctx, qid))
	assert.Equal(t, []string{"anon: a note"}, s.AnswerFeedbackFor(ctx, aid))
}

func TestFeedbackRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "reject blank")

	assert.True(t, s.AddQuestionFeedback(ctx, qid, "  ", "carol").Rejected)
	assert.True(t, s.AddQuestionFeedback(ctx, 0, "text", "carol").Rejected)
	assert.Empty(t, s.QuestionFeedbackFor(ctx, qid))
}

func TestFeedbackReadRepairsMirror(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "repair me")

	// write a row behind the store's back, mirror knows nothing about it
	require.NoError(t, s.db.Create(&models.QuestionFeedback{
		QuestionID: qid, Author: "eve", Feedback: "out of band",
	}).Error)

	got := s.QuestionFeedbackFor(ctx, qid)
	require.Equal(t, []string{"eve: out of band"}, got)

	// the mirror was refreshed as a side effect of the read
	s.mu.Lock()
	mirror := append([]string(nil), s.qFeedback[qid]...)
	s.mu.Unlock()
	assert.Equal(t, got, mirror)
}

func TestFeedbackLogsAudit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "audited feedback")

	s.AddQuestionFeedback(ctx, qid, "please cite", "carol")

	logs := s.Logs(ctx)
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[len(logs)-1], "FEEDBACK Q:")
	assert.Contains(t, logs[len(logs)-1], "please cite")
}
