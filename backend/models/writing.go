package models

import (
	"time"

	"gorm.io/gorm"
)

type WritingTest struct {
	gorm.Model
	Title       string
	Description string
	Difficulty  string `gorm:"default:intermediate"`
	Duration    int    `gorm:"default:60"`
	IsActive    bool   `gorm:"default:true"`
	Tasks       []WritingTask `gorm:"constraint:OnDelete:CASCADE"`
}

type WritingTask struct {
	gorm.Model
	TestID        uint   `gorm:"index"`
	TaskType      string // task1_academic, task1_general, task2
	Title         string
	Prompt        string
	Instructions  string
	ImagePath     string
	MinWords      int
	MaxWords      int
	SuggestedTime int // minutes
	SequenceOrder int
}

type WritingSubmission struct {
	gorm.Model
	UserID      uint `gorm:"index"`
	TestID      uint `gorm:"index"`
	StartedAt   time.Time
	SubmittedAt *time.Time
	IsCompleted bool `gorm:"default:false"`
	Responses   []WritingResponse `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

type WritingResponse struct {
	gorm.Model
	SubmissionID uint `gorm:"uniqueIndex:idx_writing_response_task"`
	TaskID       uint `gorm:"uniqueIndex:idx_writing_response_task"`
	Content      string
	WordCount    int
}

type WritingScore struct {
	gorm.Model
	SubmissionID     uint `gorm:"uniqueIndex"`
	TaskAchievement  float64
	CoherenceCohesion float64
	LexicalResource  float64
	GrammaticalRange float64
	OverallScore     float64
	Feedback         string
	DetailedFeedback string // JSON blob from the analysis service
}
