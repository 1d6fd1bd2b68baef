package moderation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/reviewboard/models"
	"github.com/cppla/reviewboard/utils"
)

// ErrTimeout reports that a store transaction exceeded its deadline.
var ErrTimeout = errors.New("store transaction timed out")

const defaultTxTimeout = 5 * time.Second

// WriteStatus is the composite result of a write-through operation. The
// in-memory mirror is always updated for accepted input; Stored reports
// whether the durable write committed as well.
type WriteStatus struct {
	Rejected bool `json:"rejected"`
	Stored   bool `json:"stored"`
}

// TaskObserver receives a snapshot of the task board after every change.
type TaskObserver func(tasks []string)

// Store is the moderation and audit store: durable tables plus the
// process-wide in-memory mirror of flags, notes, tasks, feedback and audit
// lines that the low-latency read paths use. All mirrors are rebuilt from
// the database on construction and kept in step on every mutation.
type Store struct {
	db        *gorm.DB
	txTimeout time.Duration

	mu        sync.Mutex
	flagged   map[string][]string // item ref -> display notes, insertion order
	tasks     []string
	logs      []string
	qFeedback map[uint][]string
	aFeedback map[uint][]string

	obsMu     sync.Mutex
	observers map[int]TaskObserver
	nextObsID int

	// beforeCommit runs as the last step inside a cascade transaction;
	// tests use it to force a mid-transaction failure.
	beforeCommit func(tx *gorm.DB) error
}

// New builds a Store and rebuilds every in-memory mirror from the database.
func New(db *gorm.DB) (*Store, error) {
	return NewWithTimeout(db, defaultTxTimeout)
}

// NewWithTimeout builds a Store with an explicit per-transaction deadline.
func NewWithTimeout(db *gorm.DB, txTimeout time.Duration) (*Store, error) {
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	s := &Store{
		db:        db,
		txTimeout: txTimeout,
		flagged:   map[string][]string{},
		qFeedback: map[uint][]string{},
		aFeedback: map[uint][]string{},
		observers: map[int]TaskObserver{},
	}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces all in-memory state with what the database holds. This is
// the only point where store and mirror agree by construction; every later
// mutation maintains the agreement incrementally.
func (s *Store) Reload(ctx context.Context) error {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	db := s.db.WithContext(tctx)

	var items []models.FlaggedItem
	if err := db.Find(&items).Error; err != nil {
		return s.wrapTxErr(tctx, err)
	}
	var notes []models.FlagNote
	if err := db.Order("id ASC").Find(&notes).Error; err != nil {
		return s.wrapTxErr(tctx, err)
	}
	flagged := make(map[string][]string, len(items))
	for _, it := range items {
		flagged[it.ItemID] = []string{}
	}
	for _, n := range notes {
		flagged[n.ItemID] = append(flagged[n.ItemID], displayNote(n.Author, n.Note))
	}

	var auditRows []models.AuditLog
	if err := db.Order("id ASC").Find(&auditRows).Error; err != nil {
		return s.wrapTxErr(tctx, err)
	}
	logs := make([]string, 0, len(auditRows))
	for _, row := range auditRows {
		logs = append(logs, displayLog(row.Author, row.Entry))
	}

	var qfb []models.QuestionFeedback
	if err := db.Order("id ASC").Find(&qfb).Error; err != nil {
		return s.wrapTxErr(tctx, err)
	}
	qFeedback := map[uint][]string{}
	for _, f := range qfb {
		qFeedback[f.QuestionID] = append(qFeedback[f.QuestionID], displayFeedback(f.Author, f.Feedback))
	}

	var afb []models.AnswerFeedback
	if err := db.Order("id ASC").Find(&afb).Error; err != nil {
		return s.wrapTxErr(tctx, err)
	}
	aFeedback := map[uint][]string{}
	for _, f := range afb {
		aFeedback[f.AnswerID] = append(aFeedback[f.AnswerID], displayFeedback(f.Author, f.Feedback))
	}

	var taskRows []models.Task
	if err := db.Order("created_at ASC, id ASC").Find(&taskRows).Error; err != nil {
		return s.wrapTxErr(tctx, err)
	}
	tasks := make([]string, 0, len(taskRows))
	for _, t := range taskRows {
		tasks = append(tasks, t.Description)
	}

	s.mu.Lock()
	s.flagged = flagged
	s.logs = logs
	s.qFeedback = qFeedback
	s.aFeedback = aFeedback
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// txContext derives a bounded deadline for one store transaction.
func (s *Store) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.txTimeout)
}

func (s *Store) wrapTxErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// storeWrite runs a durable write under the transaction deadline. On
// failure it logs the store/mirror divergence distinctly and reports false
// so callers can still apply the in-memory mutation.
func (s *Store) storeWrite(ctx context.Context, op string, fn func(db *gorm.DB) error) bool {
	tctx, cancel := s.txContext(ctx)
	defer cancel()
	if err := fn(s.db.WithContext(tctx)); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("durable write failed, in-memory state updated only: op=%s err=%v", op, s.wrapTxErr(tctx, err))
		}
		return false
	}
	return true
}

func displayNote(author, note string) string {
	if strings.TrimSpace(author) == "" {
		return note
	}
	return author + ": " + note
}

func displayLog(author, entry string) string {
	if strings.TrimSpace(author) == "" {
		return entry
	}
	return author + ": " + entry
}

func displayFeedback(author, feedback string) string {
	if author == "" {
		author = "anon"
	}
	return author + ": " + feedback
}
