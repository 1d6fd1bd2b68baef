package main

import (
	"time"

	"github.com/cppla/reviewboard/config"
	"github.com/cppla/reviewboard/models"
	"github.com/cppla/reviewboard/moderation"
	"github.com/cppla/reviewboard/routes"
	"github.com/cppla/reviewboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Question{},
		&models.Answer{},
		&models.FlaggedItem{},
		&models.FlagNote{},
		&models.QuestionFeedback{},
		&models.AnswerFeedback{},
		&models.Task{},
		&models.AuditLog{},
	)

	// Rebuild the moderation mirrors from durable state before serving
	store, err := moderation.NewWithTimeout(db, time.Duration(cfg.StoreTimeoutSec)*time.Second)
	if err != nil {
		utils.Sugar.Fatalf("moderation store init failed: %v", err)
	}

	r := routes.SetupRouter(store)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
