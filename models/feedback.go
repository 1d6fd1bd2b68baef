package models

import "time"

// QuestionFeedback is a private, append-only feedback entry on a question.
type QuestionFeedback struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	Author     string    `gorm:"size:255" json:"author"`
	Feedback   string    `gorm:"type:text;not null" json:"feedback"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnswerFeedback is a private, append-only feedback entry on an answer.
type AnswerFeedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"index;not null" json:"answer_id"`
	Author    string    `gorm:"size:255" json:"author"`
	Feedback  string    `gorm:"type:text;not null" json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}
