package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type ListeningTest struct {
	gorm.Model
	Title       string
	Description string
	Difficulty  string `gorm:"default:intermediate"`
	Duration    int    `gorm:"default:30"`
	IsActive    bool   `gorm:"default:true"`
	Sections    []ListeningSection `gorm:"constraint:OnDelete:CASCADE"`
}

type ListeningSection struct {
	gorm.Model
	TestID        uint `gorm:"index"`
	Title         string
	SectionType   string // section1..section4
	AudioFilePath string
	Transcript    string
	SequenceOrder int
	QuestionPacks []ListeningQuestionPack `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

type ListeningQuestionPack struct {
	gorm.Model
	SectionID         uint `gorm:"index"`
	Title             string
	QuestionStart     int
	QuestionEnd       int
	QuestionsMarkdown string
	CorrectAnswers    string // JSON object: question number -> accepted answers
	OrderMatters      bool   `gorm:"default:true"`
	SequenceOrder     int
}

func (p *ListeningQuestionPack) AnswerKey() (map[string][]string, error) {
	key := make(map[string][]string)
	if p.CorrectAnswers == "" {
		return key, nil
	}
	if err := json.Unmarshal([]byte(p.CorrectAnswers), &key); err != nil {
		return nil, err
	}
	return key, nil
}

type ListeningSubmission struct {
	gorm.Model
	UserID      uint `gorm:"index"`
	TestID      uint `gorm:"index"`
	StartedAt   time.Time
	SubmittedAt *time.Time
	IsCompleted bool `gorm:"default:false"`
	Answers     []ListeningAnswer `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

type ListeningAnswer struct {
	gorm.Model
	SubmissionID   uint   `gorm:"uniqueIndex:idx_listening_answer_question"`
	QuestionNumber int    `gorm:"uniqueIndex:idx_listening_answer_question"`
	UserAnswers    string // JSON array of answer strings
	IsCorrect      bool   `gorm:"default:false"`
}

func (a *ListeningAnswer) AnswerList() ([]string, error) {
	var answers []string
	if a.UserAnswers == "" {
		return answers, nil
	}
	if err := json.Unmarshal([]byte(a.UserAnswers), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

type ListeningScore struct {
	gorm.Model
	SubmissionID   uint `gorm:"uniqueIndex"`
	CorrectAnswers int
	TotalQuestions int
	BandScore      float64
	Percentage     float64
	SectionScores  string // JSON object: section type -> {correct, total, percentage}
	Feedback       string
}
