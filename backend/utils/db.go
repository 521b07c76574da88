package utils

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ReadingTest{},
		&models.ReadingPassage{},
		&models.ReadingQuestionPack{},
		&models.ReadingSubmission{},
		&models.ReadingAnswer{},
		&models.ReadingScore{},
		&models.ListeningTest{},
		&models.ListeningSection{},
		&models.ListeningQuestionPack{},
		&models.ListeningSubmission{},
		&models.ListeningAnswer{},
		&models.ListeningScore{},
		&models.WritingTest{},
		&models.WritingTask{},
		&models.WritingSubmission{},
		&models.WritingResponse{},
		&models.WritingScore{},
		&models.SpeakingTest{},
		&models.SpeakingTopic{},
		&models.SpeakingQuestion{},
		&models.SpeakingSession{},
		&models.SpeakingResponse{},
		&models.SpeakingScore{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
