package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/reviewboard/moderation"
	"github.com/cppla/reviewboard/utils"
)

// TaskController exposes the staff task board.
type TaskController struct {
	store *moderation.Store
}

// NewTaskController creates a new TaskController instance.
func NewTaskController(store *moderation.Store) *TaskController {
	return &TaskController{store: store}
}

// ListTasks returns a snapshot of the unresolved task board.
func (t *TaskController) ListTasks(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": t.store.Tasks()})
}

// AddTask appends a manual task to the board and returns its index.
func (t *TaskController) AddTask(ctx *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	idx := t.store.AddTask(ctx.Request.Context(), utils.StripTags(req.Description))
	if idx < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40050, "rejected: empty input")
		return
	}
	utils.Success(ctx, gin.H{"index": idx})
}

// ResolveTask removes the task at the given board index. Indices are
// positional: entries past the removed one shift down by one.
func (t *TaskController) ResolveTask(ctx *gin.Context) {
	index, ok := parseIntParam(ctx, "index")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid task index")
		return
	}

	if !t.store.ResolveTask(ctx.Request.Context(), index) {
		utils.Error(ctx, http.StatusNotFound, 40450, "no task at that index")
		return
	}
	utils.Success(ctx, gin.H{"resolved": true, "tasks": t.store.Tasks()})
}
