package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/reviewboard/moderation"
	"github.com/cppla/reviewboard/models"
	"github.com/cppla/reviewboard/utils"
)

const questionListCachePrefix = "cache:questions:list"

// QuestionController manages CRUD operations for questions.
type QuestionController struct {
	store *moderation.Store
}

// NewQuestionController creates a new QuestionController instance.
func NewQuestionController(store *moderation.Store) *QuestionController {
	return &QuestionController{store: store}
}

// CreateQuestion allows authenticated users to post new questions.
func (q *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required,min=1"`
		Content  string `json:"content" binding:"required"`
		Category string `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.StripTags(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "content cannot be empty")
		return
	}

	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	question := models.Question{
		Title:    title,
		Content:  content,
		Author:   username,
		Category: strings.TrimSpace(req.Category),
	}
	id, err := q.store.CreateQuestion(ctx.Request.Context(), &question)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create question")
		return
	}

	utils.InvalidateByPrefix(questionListCachePrefix)
	utils.Success(ctx, gin.H{"id": id, "question": question})
}

// ListQuestions returns all questions, newest first.
func (q *QuestionController) ListQuestions(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(questionListCachePrefix); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	questions, err := q.store.GetAllQuestions(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list questions")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"items": questions}}
	if b, err := json.Marshal(wrapper); err == nil {
		utils.CacheSetBytes(questionListCachePrefix, b, 0)
	}
	utils.Success(ctx, gin.H{"items": questions})
}

// GetQuestion returns one question together with its answers, accepted
// first.
func (q *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid question id")
		return
	}

	question, err := q.store.GetQuestionByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load question")
		return
	}
	if question == nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
		return
	}

	answers, err := q.store.GetAnswersForQuestion(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load answers")
		return
	}
	question.Answers = answers

	utils.Success(ctx, gin.H{"question": question})
}

// UpdateQuestion lets the author or staff modify a question.
func (q *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid question id")
		return
	}

	var req struct {
		Title      string `json:"title" binding:"required,min=1"`
		Content    string `json:"content" binding:"required"`
		Category   string `json:"category"`
		IsAnswered *bool  `json:"is_answered"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	existing, err := q.store.GetQuestionByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load question")
		return
	}
	if existing == nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
		return
	}

	username, _ := getUsername(ctx)
	if existing.Author != username && !isStaff(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40320, "not the question author")
		return
	}

	existing.Title = utils.StripTags(strings.TrimSpace(req.Title))
	existing.Content = utils.Sanitize(req.Content)
	existing.Category = strings.TrimSpace(req.Category)
	if req.IsAnswered != nil {
		existing.IsAnswered = *req.IsAnswered
	}

	updated, err := q.store.UpdateQuestion(ctx.Request.Context(), existing)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to update question")
		return
	}
	if !updated {
		utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
		return
	}

	utils.InvalidateByPrefix(questionListCachePrefix)
	utils.Success(ctx, gin.H{"question": existing})
}

// DeleteQuestion removes a question and every dependent record (answers,
// flags, notes, feedback) in one transaction.
func (q *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid question id")
		return
	}

	existing, err := q.store.GetQuestionByID(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load question")
		return
	}
	if existing == nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
		return
	}

	username, _ := getUsername(ctx)
	if existing.Author != username && !isStaff(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40321, "not allowed to delete this question")
		return
	}

	removed, err := q.store.DeleteQuestion(ctx.Request.Context(), id)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to delete question")
		return
	}
	if !removed {
		utils.Error(ctx, http.StatusNotFound, 40420, "question not found")
		return
	}

	utils.InvalidateByPrefix(questionListCachePrefix)
	utils.Success(ctx, gin.H{"deleted": true})
}
