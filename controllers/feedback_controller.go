package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/reviewboard/moderation"
	"github.com/cppla/reviewboard/utils"
)

// FeedbackController manages the private feedback ledgers on questions and
// answers.
type FeedbackController struct {
	store *moderation.Store
}

// NewFeedbackController creates a new FeedbackController instance.
func NewFeedbackController(store *moderation.Store) *FeedbackController {
	return &FeedbackController{store: store}
}

// AddQuestionFeedback appends a private feedback entry to a question.
func (f *FeedbackController) AddQuestionFeedback(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid question id")
		return
	}
	var req struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	username, _ := getUsername(ctx)
	status := f.store.AddQuestionFeedback(ctx.Request.Context(), id, utils.StripTags(req.Feedback), username)
	if status.Rejected {
		utils.Error(ctx, http.StatusBadRequest, 40060, "rejected: empty input")
		return
	}
	utils.Success(ctx, gin.H{"status": status})
}

// ListQuestionFeedback returns a question's feedback ledger in insertion
// order.
func (f *FeedbackController) ListQuestionFeedback(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid question id")
		return
	}
	utils.Success(ctx, gin.H{"items": f.store.QuestionFeedbackFor(ctx.Request.Context(), id)})
}

// AddAnswerFeedback appends a private feedback entry to an answer.
func (f *FeedbackController) AddAnswerFeedback(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid answer id")
		return
	}
	var req struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	username, _ := getUsername(ctx)
	status := f.store.AddAnswerFeedback(ctx.Request.Context(), id, utils.StripTags(req.Feedback), username)
	if status.Rejected {
		utils.Error(ctx, http.StatusBadRequest, 40060, "rejected: empty input")
		return
	}
	utils.Success(ctx, gin.H{"status": status})
}

// ListAnswerFeedback returns an answer's feedback ledger in insertion
// order.
func (f *FeedbackController) ListAnswerFeedback(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid answer id")
		return
	}
	utils.Success(ctx, gin.H{"items": f.store.AnswerFeedbackFor(ctx.Request.Context(), id)})
}

// FlagQuestionFeedback flags one entry of a question's feedback ledger by
// its position.
func (f *FeedbackController) FlagQuestionFeedback(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid question id")
		return
	}
	index, ok := parseIntParam(ctx, "index")
	if !ok || index < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid feedback index")
		return
	}
	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	username, _ := getUsername(ctx)
	status := f.store.FlagQuestionFeedback(ctx.Request.Context(), id, index, utils.StripTags(req.Note), username)
	if status.Rejected {
		utils.Error(ctx, http.StatusBadRequest, 40041, "rejected: empty input")
		return
	}
	utils.Success(ctx, gin.H{"status": status})
}

// FlagAnswerFeedback flags one entry of an answer's feedback ledger by its
// position.
func (f *FeedbackController) FlagAnswerFeedback(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid answer id")
		return
	}
	index, ok := parseIntParam(ctx, "index")
	if !ok || index < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid feedback index")
		return
	}
	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	username, _ := getUsername(ctx)
	status := f.store.FlagAnswerFeedback(ctx.Request.Context(), id, index, utils.StripTags(req.Note), username)
	if status.Rejected {
		utils.Error(ctx, http.StatusBadRequest, 40041, "rejected: empty input")
		return
	}
	utils.Success(ctx, gin.H{"status": status})
}
