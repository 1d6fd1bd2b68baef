package moderation

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/reviewboard/models"
)

func TestFlagUnflagRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "sorting slices")
	ref := QuestionRef(qid)

	st := s.Flag(ctx, ref, "looks like spam", "staffer")
	require.False(t, st.Rejected)
	assert.True(t, s.IsFlagged(ref))
	assert.Contains(t, s.FlaggedItems(), ref.String())

	removed := s.Unflag(ctx, ref, "staffer")
	assert.True(t, removed)
	assert.False(t, s.IsFlagged(ref))
	assert.NotContains(t, s.FlaggedItems(), ref.String())

	// marker and notes are gone from the store as well
	var markers, notes int64
	require.NoError(t, s.db.Model(&models.FlaggedItem{}).Where("item_id = ?", ref.String()).Count(&markers).Error)
	require.NoError(t, s.db.Model(&models.FlagNote{}).Where("item_id = ?", ref.String()).Count(&notes).Error)
	assert.Zero(t, markers)
	assert.Zero(t, notes)

	// second unflag finds nothing
	assert.False(t, s.Unflag(ctx, ref, "staffer"))
}

func TestNoteAccumulation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "goroutine leak")
	ref := QuestionRef(qid)

	s.Flag(ctx, ref, "first note", "alice")
	tasksAfterFlag := len(s.Tasks())

	s.AddNote(ctx, ref, "second note", "bob")
	s.AddNote(ctx, ref, "third note", "")

	notes := s.FlaggedItems()[ref.String()]
	require.Len(t, notes, 3)
	assert.Equal(t, "alice: first note", notes[0])
	assert.Equal(t, "bob: second note", notes[1])
	assert.Equal(t, "third note", notes[2])

	// follow-up notes never create tasks
	assert.Len(t, s.Tasks(), tasksAfterFlag)
}

func TestAddNoteUpsertsMarker(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "never flagged")
	ref := QuestionRef(qid)

	st := s.AddNote(ctx, ref, "orphan note", "alice")
	assert.False(t, st.Rejected)
	assert.True(t, s.IsFlagged(ref))
	assert.Empty(t, s.Tasks())
}

func TestFlagRejectsEmptyInput(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "valid question")

	assert.True(t, s.Flag(ctx, QuestionRef(qid), "   ", "alice").Rejected)
	assert.True(t, s.Flag(ctx, ItemRef{}, "note", "alice").Rejected)
	assert.False(t, s.IsFlagged(QuestionRef(qid)))
	assert.Empty(t, s.Tasks())
}

func TestFlagCreatesTaskPerCall(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "duplicate target")
	ref := QuestionRef(qid)

	s.Flag(ctx, ref, "first report", "alice")
	s.Flag(ctx, ref, "second report", "bob")

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Contains(t, tasks[0], "duplicate target")
	assert.Contains(t, tasks[0], "first report")
	assert.Contains(t, tasks[1], "second report")
}

func TestFlagAnswerTaskTruncatesBody(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "long answers")
	aid := mustCreateAnswer(t, s, qid, strings.Repeat("x", 200))

	s.Flag(ctx, AnswerRef(aid), "wall of text", "staffer")

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Contains(t, tasks[0], strings.Repeat("x", 117)+"...")
	assert.NotContains(t, tasks[0], strings.Repeat("x", 150))
}

func TestFlagAnswerTaskTruncatesByRunes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "multibyte answers")
	aid := mustCreateAnswer(t, s, qid, strings.Repeat("日", 200))

	s.Flag(ctx, AnswerRef(aid), "wall of kanji", "staffer")

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.True(t, utf8.ValidString(tasks[0]))
	assert.Contains(t, tasks[0], strings.Repeat("日", 117)+"...")
	assert.NotContains(t, tasks[0], strings.Repeat("日", 118))
}

func TestFeedbackFlagReferenceStability(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "feedback host")
	aid := mustCreateAnswer(t, s, qid, "answer body")

	s.AddAnswerFeedback(ctx, aid, "entry zero", "a")
	s.AddAnswerFeedback(ctx, aid, "entry one", "b")
	s.AddAnswerFeedback(ctx, aid, "entry two", "c")

	st := s.FlagAnswerFeedback(ctx, aid, 2, "offensive", "staffer")
	require.False(t, st.Rejected)

	assert.True(t, s.IsFlagged(AnswerFeedbackRef(aid, 2)))
	assert.False(t, s.IsFlagged(AnswerFeedbackRef(aid, 0)))
	assert.False(t, s.IsFlagged(AnswerFeedbackRef(aid, 1)))
}
