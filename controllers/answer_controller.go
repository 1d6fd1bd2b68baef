package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/reviewboard/moderation"
	"github.com/cppla/reviewboard/models"
	"github.com/cppla/reviewboard/utils"
)

// AnswerController manages CRUD operations for answers.
type AnswerController struct {
	store *moderation.Store
}

// NewAnswerController creates a new AnswerController instance.
func NewAnswerController(store *moderation.Store) *AnswerController {
	return &AnswerController{store: store}
}

// CreateAnswer posts an answer to a question.
func (a *AnswerController) CreateAnswer(ctx *gin.Context) {
	questionID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid question id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40030, "content cannot be empty")
		return
	}

	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	question, err := a.store.GetQuestionByID(ctx.Request.Context(), questionID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load question")
		return
	}
	if question == nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
		return
	}

	answer := models.Answer{
		QuestionID: questionID,
		Content:    content,
		Author:     username,
	}
	id, err := a.store.CreateAnswer(ctx.Request.Context(), &answer)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create answer")
		return
	}

	utils.Success(ctx, gin.H{"id": id, "answer": answer})
}

// ListAnswers returns a question's answers, accepted first then oldest
// first.
func (a *AnswerController) ListAnswers(ctx *gin.Context) {
	questionID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid question id")
		return
	}
	answers, err := a.store.GetAnswersForQuestion(ctx.Request.Context(), questionID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list answers")
		return
	}
	utils.Success(ctx, gin.H{"items": answers})
}

// ListAllAnswers returns every answer, newest first.
func (a *AnswerController) ListAllAnswers(ctx *gin.Context) {
	answers, err := a.store.GetAllAnswers(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list answers")
		return
	}
	utils.Success(ctx, gin.H{"items": answers})
}

// UpdateAnswer lets the author or staff modify an answer. Accepting an
// answer also marks the owning question as answered.
func (a *AnswerController) UpdateAnswer(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid answer id")
		return
	}

	var req struct {
		Content    string `json:"content" binding:"required"`
		IsAccepted *bool  `json:"is_accepted"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	existing, err := a.store.GetAnswerByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load answer")
		return
	}
	if existing == nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
		return
	}

	username, _ := getUsername(ctx)
	if existing.Author != username && !isStaff(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40330, "not the answer author")
		return
	}

	existing.Content = utils.Sanitize(req.Content)
	if req.IsAccepted != nil {
		existing.IsAccepted = *req.IsAccepted
	}

	updated, err := a.store.UpdateAnswer(ctx.Request.Context(), existing)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update answer")
		return
	}
	if !updated {
		utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
		return
	}

	if existing.IsAccepted {
		if question, err := a.store.GetQuestionByID(ctx.Request.Context(), existing.QuestionID); err == nil && question != nil && !question.IsAnswered {
			question.IsAnswered = true
			_, _ = a.store.UpdateQuestion(ctx.Request.Context(), question)
		}
	}

	utils.Success(ctx, gin.H{"answer": existing})
}

// DeleteAnswer removes an answer with its flags, notes and feedback in one
// transaction.
func (a *AnswerController) DeleteAnswer(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid answer id")
		return
	}

	existing, err := a.store.GetAnswerByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load answer")
		return
	}
	if existing == nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
		return
	}

	username, _ := getUsername(ctx)
	if existing.Author != username && !isStaff(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40331, "not allowed to delete this answer")
		return
	}

	removed, err := a.store.DeleteAnswer(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete answer")
		return
	}
	if !removed {
		utils.Error(ctx, http.StatusNotFound, 40430, "answer not found")
		return
	}

	utils.Success(ctx, gin.H{"deleted": true})
}
