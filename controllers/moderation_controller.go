package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/reviewboard/moderation"
	"github.com/cppla/reviewboard/utils"
)

// ModerationController exposes the flag/note lifecycle and the audit trail
// to the staff surface.
type ModerationController struct {
	store *moderation.Store
}

// NewModerationController creates a new ModerationController instance.
func NewModerationController(store *moderation.Store) *ModerationController {
	return &ModerationController{store: store}
}

// Flag marks an item for review. Every call also places a generated task
// on the board.
func (m *ModerationController) Flag(ctx *gin.Context) {
	var req struct {
		ItemRef string `json:"item_ref" binding:"required"`
		Note    string `json:"note" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	ref, err := moderation.ParseItemRef(req.ItemRef)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid item reference")
		return
	}

	username, _ := getUsername(ctx)
	status := m.store.Flag(ctx.Request.Context(), ref, utils.StripTags(req.Note), username)
	if status.Rejected {
		utils.Error(ctx, http.StatusBadRequest, 40041, "rejected: empty input")
		return
	}
	utils.Success(ctx, gin.H{"status": status})
}

// AddNote appends a follow-up note to a flagged item without creating a
// task.
func (m *ModerationController) AddNote(ctx *gin.Context) {
	var req struct {
		ItemRef string `json:"item_ref" binding:"required"`
		Note    string `json:"note" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	ref, err := moderation.ParseItemRef(req.ItemRef)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid item reference")
		return
	}

	username, _ := getUsername(ctx)
	status := m.store.AddNote(ctx.Request.Context(), ref, utils.StripTags(req.Note), username)
	if status.Rejected {
		utils.Error(ctx, http.StatusBadRequest, 40041, "rejected: empty input")
		return
	}
	utils.Success(ctx, gin.H{"status": status})
}

// Unflag removes the marker and note history for an item.
func (m *ModerationController) Unflag(ctx *gin.Context) {
	var req struct {
		ItemRef string `json:"item_ref" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	ref, err := moderation.ParseItemRef(req.ItemRef)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid item reference")
		return
	}

	username, _ := getUsername(ctx)
	removed := m.store.Unflag(ctx.Request.Context(), ref, username)
	utils.Success(ctx, gin.H{"removed": removed})
}

// ListFlagged returns every flagged item with its note history.
func (m *ModerationController) ListFlagged(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": m.store.FlaggedItems()})
}

// CheckFlagged reports whether a single item is flagged.
func (m *ModerationController) CheckFlagged(ctx *gin.Context) {
	ref, err := moderation.ParseItemRef(ctx.Query("ref"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid item reference")
		return
	}
	utils.Success(ctx, gin.H{"flagged": m.store.IsFlagged(ref)})
}

// ListLogs returns the full audit trail in insertion order.
func (m *ModerationController) ListLogs(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"items": m.store.Logs(ctx.Request.Context())})
}
