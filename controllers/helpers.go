package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/reviewboard/config"
	"github.com/cppla/reviewboard/middleware"
)

func getUsername(ctx *gin.Context) (string, bool) {
	name := ctx.GetString(middleware.ContextUsernameKey)
	return name, name != ""
}

// isStaff reports whether the caller holds the staff/admin surface, either
// by token role or by configured username.
func isStaff(ctx *gin.Context) bool {
	role := ctx.GetString(middleware.ContextRoleKey)
	if role == "staff" || role == "admin" {
		return true
	}
	username := ctx.GetString(middleware.ContextUsernameKey)
	for _, name := range config.Get().StaffUsernames {
		if name == username {
			return true
		}
	}
	return false
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func parseIntParam(ctx *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, false
	}
	return v, true
}
