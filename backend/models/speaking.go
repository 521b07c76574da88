package models

import (
	"time"

	"gorm.io/gorm"
)

type SpeakingTest struct {
	gorm.Model
	Title       string
	Description string
	Difficulty  string `gorm:"default:intermediate"`
	Duration    int    `gorm:"default:15"`
	IsActive    bool   `gorm:"default:true"`
	Topics      []SpeakingTopic `gorm:"constraint:OnDelete:CASCADE"`
}

type SpeakingTopic struct {
	gorm.Model
	TestID             uint   `gorm:"index"`
	PartType           string // part1, part2, part3
	TopicName          string
	Instructions       string
	PreparationTime    int // seconds, mainly for part2
	TargetSpeakingTime int // seconds
	MinSpeakingTime    int // seconds before follow-ups may start
	MaxFollowups       int `gorm:"default:1"` // part1/3: 1, part2: 2
	Questions          []SpeakingQuestion `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE"`
}

type SpeakingQuestion struct {
	gorm.Model
	TopicID          uint `gorm:"index"`
	QuestionText     string
	DifficultyWeight int  `gorm:"default:1"` // weight for the selection draw
	IsActive         bool `gorm:"default:true"`
}

type SpeakingSession struct {
	gorm.Model
	UserID            uint `gorm:"index"`
	TestID            uint `gorm:"index"`
	CurrentTopicID    *uint
	CurrentQuestionID *uint
	Status            string `gorm:"default:started"` // started, in_progress, completed, abandoned
	StartedAt         time.Time
	CompletedAt       *time.Time
	Responses         []SpeakingResponse `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

type SpeakingResponse struct {
	gorm.Model
	SessionID       uint `gorm:"index"`
	TopicID         uint `gorm:"index"`
	QuestionID      *uint
	QuestionText    string
	AudioFilePath   string
	AudioFilename   string
	FileSizeBytes   int64
	DurationSeconds int

	// Filled in once the external analysis service has processed the audio.
	Transcript string
	Feedback   string
	Analysis   string // JSON blob: corrections, per-criterion detail

	FollowupNeeded     bool `gorm:"default:false"`
	FollowupQuestion   string
	FollowupCount      int  `gorm:"default:0"` // follow-ups already asked for this topic
	IsFollowupResponse bool `gorm:"default:false"`
}

type SpeakingScore struct {
	gorm.Model
	SessionID        uint `gorm:"uniqueIndex"`
	FluencyCoherence float64
	LexicalResource  float64
	GrammaticalRange float64
	Pronunciation    float64
	OverallScore     float64
	Feedback         string
}
