package moderation

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/reviewboard/models"
	"github.com/cppla/reviewboard/utils"
)

// AddTask appends an unresolved task to the board and returns its current
// index, or -1 for blank input. Every registered observer is notified
// synchronously with a snapshot of the updated board.
func (s *Store) AddTask(ctx context.Context, description string) int {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return -1
	}

	s.storeWrite(ctx, "TASK ADD", func(db *gorm.DB) error {
		return db.Create(&models.Task{Description: desc}).Error
	})

	s.mu.Lock()
	s.tasks = append(s.tasks, desc)
	idx := len(s.tasks) - 1
	snapshot := append([]string(nil), s.tasks...)
	s.mu.Unlock()

	s.AddLog(ctx, "TASK ADD -> "+desc, "")
	s.notifyObservers(snapshot)
	return idx
}

// ResolveTask removes the task at the given board index. Indices shift down
// by one past the removed entry, so a held index may now name a different
// task; callers are expected to work from a fresh snapshot. The oldest
// persisted row with a matching description is deleted as well.
func (s *Store) ResolveTask(ctx context.Context, index int) bool {
	s.mu.Lock()
	if index < 0 || index >= len(s.tasks) {
		s.mu.Unlock()
		return false
	}
	removed := s.tasks[index]
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	snapshot := append([]string(nil), s.tasks...)
	s.mu.Unlock()

	s.AddLog(ctx, "TASK RESOLVED -> "+removed, "")

	// Board entries have no stable identity, so the durable delete is an
	// approximation: drop the oldest row with the same description.
	s.storeWrite(ctx, "TASK RESOLVE", func(db *gorm.DB) error {
		var row models.Task
		err := db.Where("description = ?", removed).Order("created_at ASC, id ASC").First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return db.Delete(&row).Error
	})

	s.notifyObservers(snapshot)
	return true
}

// Tasks returns a point-in-time copy of the unresolved task board.
func (s *Store) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tasks...)
}

// RegisterTaskObserver adds an observer and returns a handle for later
// removal. Safe to call while notifications are in flight.
func (s *Store) RegisterTaskObserver(fn TaskObserver) int {
	if fn == nil {
		return -1
	}
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	return id
}

// UnregisterTaskObserver removes a previously registered observer.
func (s *Store) UnregisterTaskObserver(id int) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	delete(s.observers, id)
}

// notifyObservers delivers the snapshot to every observer in turn. A panic
// inside one callback is caught so it cannot break the mutation or starve
// the remaining observers.
func (s *Store) notifyObservers(snapshot []string) {
	s.obsMu.Lock()
	fns := make([]TaskObserver, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if utils.Sugar != nil {
						utils.Sugar.Warnf("task observer panicked: %v", r)
					}
				}
			}()
			fn(append([]string(nil), snapshot...))
		}()
	}
}
