package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
	"ielts/backend/scoring"
	"ielts/backend/utils"
)

type ListeningController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewListeningController(db *gorm.DB, cfg *config.Config) *ListeningController {
	return &ListeningController{DB: db, Cfg: cfg}
}

// listeningPlan keys each unit by its section type so the grader can report
// per-section breakdowns.
func listeningPlan(test *models.ListeningTest) (scoring.TestPlan, error) {
	plan := scoring.TestPlan{Skill: scoring.SkillListening}
	for _, section := range test.Sections {
		unit := scoring.Unit{Key: section.SectionType}
		for _, pack := range section.QuestionPacks {
			key, err := pack.AnswerKey()
			if err != nil {
				return scoring.TestPlan{}, err
			}
			unit.Packs = append(unit.Packs, scoring.Pack{
				Start:        pack.QuestionStart,
				End:          pack.QuestionEnd,
				OrderMatters: pack.OrderMatters,
				Answers:      key,
			})
		}
		plan.Units = append(plan.Units, unit)
	}
	return plan, nil
}

func (lc *ListeningController) loadTest(testID uint) (*models.ListeningTest, error) {
	var test models.ListeningTest
	err := lc.DB.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order")
	}).Preload("Sections.QuestionPacks", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order")
	}).First(&test, testID).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

// CreateSubmission godoc
// @Summary Start a listening test attempt
// @Tags listening
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/submissions [post]
func (lc *ListeningController) CreateSubmission(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var input struct {
		TestID uint `json:"test_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var test models.ListeningTest
	if err := lc.DB.First(&test, input.TestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	submission := models.ListeningSubmission{
		UserID:    userID,
		TestID:    test.ID,
		StartedAt: time.Now(),
	}
	if err := lc.DB.Create(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create submission",
		})
	}

	return c.JSON(fiber.Map{
		"submission_id": submission.ID,
	})
}

// GetTest godoc
// @Summary Get a listening test with sections and question packs
// @Tags listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/tests/{id} [get]
func (lc *ListeningController) GetTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	test, err := lc.loadTest(uint(testID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var sections []fiber.Map
	for _, s := range test.Sections {
		var packs []fiber.Map
		for _, qp := range s.QuestionPacks {
			packs = append(packs, fiber.Map{
				"pack_id":        qp.ID,
				"question_start": qp.QuestionStart,
				"question_end":   qp.QuestionEnd,
				"questions":      qp.QuestionsMarkdown,
				"order_matters":  qp.OrderMatters,
			})
		}
		sections = append(sections, fiber.Map{
			"section_id":     s.ID,
			"section_type":   s.SectionType,
			"question_packs": packs,
		})
	}

	return c.JSON(fiber.Map{
		"test_id":    test.ID,
		"title":      test.Title,
		"difficulty": test.Difficulty,
		"duration":   test.Duration,
		"sections":   sections,
	})
}

// GetSectionAudio godoc
// @Summary Get the audio file path for a listening section
// @Tags listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/sections/{id}/audio [get]
func (lc *ListeningController) GetSectionAudio(c *fiber.Ctx) error {
	sectionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid section ID",
		})
	}

	var section models.ListeningSection
	if err := lc.DB.First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Section not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if section.AudioFilePath == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Section has no audio",
		})
	}

	return c.SendFile(section.AudioFilePath)
}

// SaveAnswer godoc
// @Summary Save an answer for one listening question
// @Tags listening
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/submissions/{id}/answers [post]
func (lc *ListeningController) SaveAnswer(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var input struct {
		QuestionNumber int      `json:"question_number"`
		UserAnswers    []string `json:"user_answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var submission models.ListeningSubmission
	if err := lc.DB.First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if submission.IsCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Submission already completed",
		})
	}

	answersJSON, err := json.Marshal(input.UserAnswers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not encode answers",
		})
	}

	var answer models.ListeningAnswer
	err = lc.DB.Where("submission_id = ? AND question_number = ?", submission.ID, input.QuestionNumber).
		First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		answer = models.ListeningAnswer{
			SubmissionID:   submission.ID,
			QuestionNumber: input.QuestionNumber,
			UserAnswers:    string(answersJSON),
		}
		if err := lc.DB.Create(&answer).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save answer",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	} else {
		answer.UserAnswers = string(answersJSON)
		answer.IsCorrect = false
		if err := lc.DB.Save(&answer).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save answer",
			})
		}
	}

	return c.JSON(fiber.Map{
		"question_number": answer.QuestionNumber,
		"user_answers":    input.UserAnswers,
	})
}

// GetAnswers godoc
// @Summary List saved answers for a listening submission
// @Tags listening
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/submissions/{id}/answers [get]
func (lc *ListeningController) GetAnswers(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.ListeningSubmission
	if err := lc.DB.Preload("Answers").First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Only the owner or an admin may read stored answers.
	userID, err := utils.ExtractUserIDFromToken(c, lc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if submission.UserID != userID && !utils.IsAdminToken(c, lc.Cfg) {
		return utils.Forbidden(c, "Forbidden")
	}

	result := make([]fiber.Map, 0, len(submission.Answers))
	for _, a := range submission.Answers {
		userAnswers, err := a.AnswerList()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Corrupt answer data",
			})
		}
		result = append(result, fiber.Map{
			"question_number": a.QuestionNumber,
			"user_answers":    userAnswers,
			"is_correct":      a.IsCorrect,
		})
	}

	return c.JSON(result)
}

// LocateQuestion godoc
// @Summary Find the question pack that covers a question number
// @Tags listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/tests/{id}/locate/{question} [get]
func (lc *ListeningController) LocateQuestion(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}
	questionNumber, err := strconv.Atoi(c.Params("question"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question number",
		})
	}

	test, err := lc.loadTest(uint(testID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	for _, section := range test.Sections {
		for _, pack := range section.QuestionPacks {
			if questionNumber >= pack.QuestionStart && questionNumber <= pack.QuestionEnd {
				return c.JSON(fiber.Map{
					"section_type":   section.SectionType,
					"pack_id":        pack.ID,
					"question_start": pack.QuestionStart,
					"question_end":   pack.QuestionEnd,
					"order_matters":  pack.OrderMatters,
				})
			}
		}
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "No pack covers this question",
	})
}

// GetProgress godoc
// @Summary Get completion progress and the current section
// @Tags listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/submissions/{id}/progress [get]
func (lc *ListeningController) GetProgress(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.ListeningSubmission
	if err := lc.DB.Preload("Answers").First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	test, err := lc.loadTest(submission.TestID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	plan, err := listeningPlan(test)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Corrupt answer key",
		})
	}

	answered := make([]int, 0, len(submission.Answers))
	for _, a := range submission.Answers {
		answered = append(answered, a.QuestionNumber)
	}

	info := scoring.Progress(plan, answered)

	return c.JSON(fiber.Map{
		"total_questions":     info.Total,
		"answered_questions":  info.Answered,
		"progress_percentage": info.Percentage,
		"current_section":     info.CurrentSection,
		"is_completed":        submission.IsCompleted,
	})
}

// GradeSubmission godoc
// @Summary Grade a listening submission with per-section breakdown
// @Tags listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/submissions/{id}/grade [post]
func (lc *ListeningController) GradeSubmission(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.ListeningSubmission
	if err := lc.DB.Preload("Answers").First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	test, err := lc.loadTest(submission.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	plan, err := listeningPlan(test)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Corrupt answer key",
		})
	}

	answers := make(map[int][]string, len(submission.Answers))
	for _, a := range submission.Answers {
		list, err := a.AnswerList()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Corrupt answer data",
			})
		}
		answers[a.QuestionNumber] = list
	}

	result := scoring.Grade(plan, answers)

	for i := range submission.Answers {
		a := &submission.Answers[i]
		verdict := result.PerQuestion[a.QuestionNumber]
		if a.IsCorrect != verdict {
			a.IsCorrect = verdict
			if err := lc.DB.Model(a).Update("is_correct", verdict).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not update answers",
				})
			}
		}
	}

	sectionsJSON, err := json.Marshal(result.Sections)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not encode section scores",
		})
	}

	score := models.ListeningScore{
		SubmissionID:   submission.ID,
		CorrectAnswers: result.Correct,
		TotalQuestions: result.Total,
		BandScore:      result.Band,
		Percentage:     result.Percentage,
		SectionScores:  string(sectionsJSON),
	}

	var existing models.ListeningScore
	err = lc.DB.Where("submission_id = ?", submission.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := lc.DB.Create(&score).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save score",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	} else {
		existing.CorrectAnswers = score.CorrectAnswers
		existing.TotalQuestions = score.TotalQuestions
		existing.BandScore = score.BandScore
		existing.Percentage = score.Percentage
		existing.SectionScores = score.SectionScores
		if err := lc.DB.Save(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save score",
			})
		}
		score = existing
	}

	return c.JSON(fiber.Map{
		"submission_id":   submission.ID,
		"correct_answers": score.CorrectAnswers,
		"total_questions": score.TotalQuestions,
		"band_score":      score.BandScore,
		"percentage":      score.Percentage,
		"section_scores":  result.Sections,
	})
}

// CompleteSubmission godoc
// @Summary Mark a listening submission as completed
// @Tags listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /listening/submissions/{id}/complete [post]
func (lc *ListeningController) CompleteSubmission(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.ListeningSubmission
	if err := lc.DB.First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	now := time.Now()
	submission.IsCompleted = true
	submission.SubmittedAt = &now
	if err := lc.DB.Save(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update submission",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Submission completed",
	})
}
