package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/reviewboard/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every session on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Question{},
		&models.Answer{},
		&models.FlaggedItem{},
		&models.FlagNote{},
		&models.QuestionFeedback{},
		&models.AnswerFeedback{},
		&models.Task{},
		&models.AuditLog{},
	))
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(newTestDB(t))
	require.NoError(t, err)
	return s
}

func mustCreateQuestion(t *testing.T, s *Store, title string) uint {
	t.Helper()
	id, err := s.CreateQuestion(context.Background(), &models.Question{
		Title:   title,
		Content: "body of " + title,
		Author:  "alice",
	})
	require.NoError(t, err)
	return id
}

func mustCreateAnswer(t *testing.T, s *Store, questionID uint, content string) uint {
	t.Helper()
	id, err := s.CreateAnswer(context.Background(), &models.Answer{
		QuestionID: questionID,
		Content:    content,
		Author:     "bob",
	})
	require.NoError(t, err)
	return id
}

func TestReloadRebuildsMirrors(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s1, err := New(db)
	require.NoError(t, err)

	qid := mustCreateQuestion(t, s1, "how to test")
	aid := mustCreateAnswer(t, s1, qid, "with a fresh store")

	s1.Flag(ctx, QuestionRef(qid), "spam", "staffer")
	s1.AddNote(ctx, QuestionRef(qid), "second look", "")
	s1.Flag(ctx, AnswerRef(aid), "rude", "staffer")
	s1.AddQuestionFeedback(ctx, qid, "needs sources", "carol")
	s1.AddAnswerFeedback(ctx, aid, "tone", "")
	s1.AddTask(ctx, "manual chore")

	// A second store over the same database must rebuild identical mirrors.
	s2, err := New(db)
	require.NoError(t, err)

	assert.Equal(t, s1.FlaggedItems(), s2.FlaggedItems())
	assert.Equal(t, s1.Tasks(), s2.Tasks())
	assert.Equal(t, []string{"carol: needs sources"}, s2.QuestionFeedbackFor(ctx, qid))
	assert.Equal(t, []string{"anon: tone"}, s2.AnswerFeedbackFor(ctx, aid))
	assert.Equal(t, s1.Logs(ctx), s2.Logs(ctx))
	assert.True(t, s2.IsFlagged(QuestionRef(qid)))
	assert.True(t, s2.IsFlagged(AnswerRef(aid)))
}

func TestLogsFormatAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.AddLog(ctx, "first event", "alice")
	s.AddLog(ctx, "second event", "")
	s.AddLog(ctx, "  ", "alice") // blank entries are dropped

	logs := s.Logs(ctx)
	require.Len(t, logs, 2)
	assert.Equal(t, "alice: first event", logs[0])
	assert.Equal(t, "second event", logs[1])
}

func TestWriteStatusStored(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "durability")

	st := s.Flag(ctx, QuestionRef(qid), "check this", "staffer")
	assert.False(t, st.Rejected)
	assert.True(t, st.Stored)

	var count int64
	require.NoError(t, s.db.Model(&models.FlagNote{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDurableWriteFailureFallsBackToMirror(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	qid := mustCreateQuestion(t, s, "outage")

	// take the database away; every durable write from here on fails
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	st := s.Flag(ctx, QuestionRef(qid), "spam wave", "staffer")
	assert.False(t, st.Rejected)
	assert.False(t, st.Stored)

	key := QuestionRef(qid).String()
	assert.True(t, s.IsFlagged(QuestionRef(qid)))
	assert.Equal(t, []string{"staffer: spam wave"}, s.FlaggedItems()[key])

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Contains(t, tasks[0], key)
	assert.Contains(t, tasks[0], "spam wave")

	// audit reads serve the mirror while the store is unreachable
	assert.Contains(t, s.Logs(ctx), "staffer: FLAG "+key+" -> spam wave")
}
