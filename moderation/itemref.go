package moderation

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind discriminates the entity an ItemRef points at.
type RefKind int

const (
	RefQuestion RefKind = iota
	RefAnswer
	RefQuestionFeedback
	RefAnswerFeedback
)

// ItemRef identifies a flaggable item: a question, an answer, or one
// feedback entry on either. The wire format is the stable contract used in
// flagged_items/flag_notes rows: "Q:<id>", "A:<id>", "FB:<qid>:<idx>",
// "FB:A:<aid>:<idx>".
type ItemRef struct {
	Kind    RefKind
	OwnerID uint
	// Index is the position of the feedback entry in its ledger. Only
	// meaningful for the feedback kinds.
	Index int
}

// QuestionRef builds a reference to a question.
func QuestionRef(id uint) ItemRef { return ItemRef{Kind: RefQuestion, OwnerID: id} }

// AnswerRef builds a reference to an answer.
func AnswerRef(id uint) ItemRef { return ItemRef{Kind: RefAnswer, OwnerID: id} }

// QuestionFeedbackRef builds a reference to one feedback entry on a question.
func QuestionFeedbackRef(questionID uint, index int) ItemRef {
	return ItemRef{Kind: RefQuestionFeedback, OwnerID: questionID, Index: index}
}

// AnswerFeedbackRef builds a reference to one feedback entry on an answer.
func AnswerFeedbackRef(answerID uint, index int) ItemRef {
	return ItemRef{Kind: RefAnswerFeedback, OwnerID: answerID, Index: index}
}

// Valid reports whether the reference points at a real entity id.
func (r ItemRef) Valid() bool {
	if r.OwnerID == 0 {
		return false
	}
	if r.Kind == RefQuestionFeedback || r.Kind == RefAnswerFeedback {
		return r.Index >= 0
	}
	return true
}

// String renders the canonical wire form.
func (r ItemRef) String() string {
	switch r.Kind {
	case RefQuestion:
		return "Q:" + strconv.FormatUint(uint64(r.OwnerID), 10)
	case RefAnswer:
		return "A:" + strconv.FormatUint(uint64(r.OwnerID), 10)
	case RefQuestionFeedback:
		return fmt.Sprintf("FB:%d:%d", r.OwnerID, r.Index)
	case RefAnswerFeedback:
		return fmt.Sprintf("FB:A:%d:%d", r.OwnerID, r.Index)
	}
	return ""
}

// ParseItemRef parses the wire form back into a tagged reference.
func ParseItemRef(s string) (ItemRef, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "FB:A:"):
		parts := strings.Split(s[len("FB:A:"):], ":")
		if len(parts) != 2 {
			return ItemRef{}, fmt.Errorf("malformed answer-feedback ref %q", s)
		}
		id, err := parseID(parts[0])
		if err != nil {
			return ItemRef{}, fmt.Errorf("malformed answer-feedback ref %q: %w", s, err)
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 {
			return ItemRef{}, fmt.Errorf("malformed answer-feedback ref %q", s)
		}
		return AnswerFeedbackRef(id, idx), nil
	case strings.HasPrefix(s, "FB:"):
		parts := strings.Split(s[len("FB:"):], ":")
		if len(parts) != 2 {
			return ItemRef{}, fmt.Errorf("malformed question-feedback ref %q", s)
		}
		id, err := parseID(parts[0])
		if err != nil {
			return ItemRef{}, fmt.Errorf("malformed question-feedback ref %q: %w", s, err)
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 {
			return ItemRef{}, fmt.Errorf("malformed question-feedback ref %q", s)
		}
		return QuestionFeedbackRef(id, idx), nil
	case strings.HasPrefix(s, "Q:"):
		id, err := parseID(s[len("Q:"):])
		if err != nil {
			return ItemRef{}, fmt.Errorf("malformed question ref %q: %w", s, err)
		}
		return QuestionRef(id), nil
	case strings.HasPrefix(s, "A:"):
		id, err := parseID(s[len("A:"):])
		if err != nil {
			return ItemRef{}, fmt.Errorf("malformed answer ref %q: %w", s, err)
		}
		return AnswerRef(id), nil
	}
	return ItemRef{}, fmt.Errorf("unrecognized item ref %q", s)
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("zero id")
	}
	return uint(id), nil
}
