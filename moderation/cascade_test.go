package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/reviewboard/models"
)

// seedQuestionGraph builds a question with one answer, flags on both, a
// flagged feedback entry on each side and one plain feedback entry. It
// returns the ids so tests can assert on the purge.
func seedQuestionGraph(t *testing.T, s *Store) (qid, aid uint) {
	t.Helper()
	ctx := context.Background()

	qid = mustCreateQuestion(t, s, "doomed question")
	aid = mustCreateAnswer(t, s, qid, "doomed answer")

	require.False(t, s.Flag(ctx, QuestionRef(qid), "spam", "mod").Rejected)
	require.False(t, s.Flag(ctx, AnswerRef(aid), "also spam", "mod").Rejected)

	require.False(t, s.AddQuestionFeedback(ctx, qid, "q feedback", "carol").Rejected)
	require.False(t, s.AddAnswerFeedback(ctx, aid, "a feedback", "dave").Rejected)
	require.False(t, s.FlagQuestionFeedback(ctx, qid, 0, "rude", "mod").Rejected)
	require.False(t, s.FlagAnswerFeedback(ctx, aid, 0, "also rude", "mod").Rejected)
	return qid, aid
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestDeleteQuestionCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid, aid := seedQuestionGraph(t, s)

	ok, err := s.DeleteQuestion(ctx, qid)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Zero(t, countRows(t, s.db, &models.Question{}, "id = ?", qid))
	assert.Zero(t, countRows(t, s.db, &models.Answer{}, "question_id = ?", qid))
	assert.Zero(t, countRows(t, s.db, &models.QuestionFeedback{}, "question_id = ?", qid))
	assert.Zero(t, countRows(t, s.db, &models.AnswerFeedback{}, "answer_id = ?", aid))
	assert.Zero(t, countRows(t, s.db, &models.FlaggedItem{}, "1 = 1"))
	assert.Zero(t, countRows(t, s.db, &models.FlagNote{}, "1 = 1"))

	// mirrors follow the commit
	assert.False(t, s.IsFlagged(QuestionRef(qid)))
	assert.False(t, s.IsFlagged(AnswerRef(aid)))
	assert.False(t, s.IsFlagged(QuestionFeedbackRef(qid, 0)))
	assert.False(t, s.IsFlagged(AnswerFeedbackRef(aid, 0)))
	assert.Empty(t, s.FlaggedItems())
	assert.Empty(t, s.QuestionFeedbackFor(ctx, qid))
	assert.Empty(t, s.AnswerFeedbackFor(ctx, aid))
}

func TestDeleteQuestionRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid, aid := seedQuestionGraph(t, s)

	boom := errors.New("disk on fire")
	s.beforeCommit = func(tx *gorm.DB) error { return boom }

	ok, err := s.DeleteQuestion(ctx, qid)
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	assert.False(t, ok)

	// nothing moved: rows and mirrors both intact
	assert.Equal(t, int64(1), countRows(t, s.db, &models.Question{}, "id = ?", qid))
	assert.Equal(t, int64(1), countRows(t, s.db, &models.Answer{}, "id = ?", aid))
	assert.Equal(t, int64(1), countRows(t, s.db, &models.QuestionFeedback{}, "question_id = ?", qid))
	assert.Equal(t, int64(1), countRows(t, s.db, &models.AnswerFeedback{}, "answer_id = ?", aid))
	assert.True(t, s.IsFlagged(QuestionRef(qid)))
	assert.True(t, s.IsFlagged(AnswerRef(aid)))
	assert.True(t, s.IsFlagged(QuestionFeedbackRef(qid, 0)))
	assert.True(t, s.IsFlagged(AnswerFeedbackRef(aid, 0)))
	assert.Equal(t, []string{"carol: q feedback"}, s.QuestionFeedbackFor(ctx, qid))
}

func TestDeleteAnswerScopedPurge(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid, aid := seedQuestionGraph(t, s)

	ok, err := s.DeleteAnswer(ctx, aid)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Zero(t, countRows(t, s.db, &models.Answer{}, "id = ?", aid))
	assert.Zero(t, countRows(t, s.db, &models.AnswerFeedback{}, "answer_id = ?", aid))
	assert.False(t, s.IsFlagged(AnswerRef(aid)))
	assert.False(t, s.IsFlagged(AnswerFeedbackRef(aid, 0)))

	// question side survives untouched
	assert.Equal(t, int64(1), countRows(t, s.db, &models.Question{}, "id = ?", qid))
	assert.True(t, s.IsFlagged(QuestionRef(qid)))
	assert.True(t, s.IsFlagged(QuestionFeedbackRef(qid, 0)))
	assert.Equal(t, []string{"carol: q feedback"}, s.QuestionFeedbackFor(ctx, qid))
}

func TestDeleteMissingRowsReportFalse(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ok, err := s.DeleteQuestion(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteAnswer(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}
