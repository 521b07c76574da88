package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type ReadingTest struct {
	gorm.Model
	Title       string
	Description string
	Difficulty  string `gorm:"default:intermediate"` // beginner, intermediate, advanced
	Duration    int    `gorm:"default:60"`           // minutes
	IsActive    bool   `gorm:"default:true"`
	Passages    []ReadingPassage `gorm:"constraint:OnDelete:CASCADE"`
}

type ReadingPassage struct {
	gorm.Model
	TestID          uint `gorm:"index"`
	Title           string
	ContentMarkdown string
	WordCount       int
	SequenceOrder   int
	QuestionPacks   []ReadingQuestionPack `gorm:"foreignKey:PassageID;constraint:OnDelete:CASCADE"`
}

// ReadingQuestionPack is the grading unit: a contiguous question range
// sharing one answer key and one order rule.
type ReadingQuestionPack struct {
	gorm.Model
	PassageID         uint `gorm:"index"`
	Title             string
	QuestionStart     int
	QuestionEnd       int
	QuestionsMarkdown string
	CorrectAnswers    string // JSON object: question number -> accepted answers
	OrderMatters      bool   `gorm:"default:true"`
	SequenceOrder     int
}

// AnswerKey decodes the stored reference answers.
func (p *ReadingQuestionPack) AnswerKey() (map[string][]string, error) {
	key := make(map[string][]string)
	if p.CorrectAnswers == "" {
		return key, nil
	}
	if err := json.Unmarshal([]byte(p.CorrectAnswers), &key); err != nil {
		return nil, err
	}
	return key, nil
}

type ReadingSubmission struct {
	gorm.Model
	UserID      uint `gorm:"index"`
	TestID      uint `gorm:"index"`
	StartedAt   time.Time
	SubmittedAt *time.Time
	IsCompleted bool `gorm:"default:false"`
	Answers     []ReadingAnswer `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

type ReadingAnswer struct {
	gorm.Model
	SubmissionID   uint   `gorm:"uniqueIndex:idx_reading_answer_question"`
	QuestionNumber int    `gorm:"uniqueIndex:idx_reading_answer_question"`
	UserAnswers    string // JSON array of answer strings
	IsCorrect      bool   `gorm:"default:false"`
}

// AnswerList decodes the stored user answers.
func (a *ReadingAnswer) AnswerList() ([]string, error) {
	var answers []string
	if a.UserAnswers == "" {
		return answers, nil
	}
	if err := json.Unmarshal([]byte(a.UserAnswers), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

type ReadingScore struct {
	gorm.Model
	SubmissionID   uint `gorm:"uniqueIndex"`
	CorrectAnswers int
	TotalQuestions int
	BandScore      float64
	Percentage     float64
	Feedback       string
}
