package models

import (
	"log"

	"github.com/contentlens/insight_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Company{},
		&ContentItem{}, &Transcription{}, &BusinessInsight{},
		&ConsistencyReport{}, &GapAnalysisReport{},
		&ProcessingJob{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
