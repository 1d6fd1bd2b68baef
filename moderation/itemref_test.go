package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRefString(t *testing.T) {
	assert.Equal(t, "Q:7", QuestionRef(7).String())
	assert.Equal(t, "A:12", AnswerRef(12).String())
	assert.Equal(t, "FB:3:0", QuestionFeedbackRef(3, 0).String())
	assert.Equal(t, "FB:A:9:2", AnswerFeedbackRef(9, 2).String())
}

func TestParseItemRefRoundTrip(t *testing.T) {
	refs := []ItemRef{
		QuestionRef(1),
		AnswerRef(42),
		QuestionFeedbackRef(5, 3),
		AnswerFeedbackRef(8, 0),
	}
	for _, ref := range refs {
		parsed, err := ParseItemRef(ref.String())
		require.NoError(t, err)
		assert.Equal(t, ref, parsed)
	}
}

func TestParseItemRefRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"Q:",
		"Q:abc",
		"Q:0",
		"X:1",
		"FB:1",
		"FB:1:2:3",
		"FB:A:1",
		"FB:A:x:1",
		"FB:2:-1",
	}
	for _, s := range bad {
		_, err := ParseItemRef(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestItemRefValid(t *testing.T) {
	assert.False(t, ItemRef{}.Valid())
	assert.False(t, QuestionRef(0).Valid())
	assert.True(t, QuestionRef(1).Valid())
	assert.False(t, ItemRef{Kind: RefAnswerFeedback, OwnerID: 1, Index: -1}.Valid())
	assert.True(t, AnswerFeedbackRef(1, 0).Valid())
}
