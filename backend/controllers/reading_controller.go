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

type ReadingController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewReadingController(db *gorm.DB, cfg *config.Config) *ReadingController {
	return &ReadingController{DB: db, Cfg: cfg}
}

// readingPlan materializes the static question structure of a test for the
// scoring engine. Fails when a stored answer key is not valid JSON.
func readingPlan(test *models.ReadingTest) (scoring.TestPlan, error) {
	plan := scoring.TestPlan{Skill: scoring.SkillReading}
	for _, passage := range test.Passages {
		unit := scoring.Unit{}
		for _, pack := range passage.QuestionPacks {
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

func (rc *ReadingController) loadTest(testID uint) (*models.ReadingTest, error) {
	var test models.ReadingTest
	err := rc.DB.Preload("Passages", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order")
	}).Preload("Passages.QuestionPacks", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order")
	}).First(&test, testID).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

// CreateSubmission godoc
// @Summary Start a reading test attempt
// @Tags reading
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /reading/submissions [post]
func (rc *ReadingController) CreateSubmission(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
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

	var test models.ReadingTest
	if err := rc.DB.First(&test, input.TestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	submission := models.ReadingSubmission{
		UserID:    userID,
		TestID:    test.ID,
		StartedAt: time.Now(),
	}
	if err := rc.DB.Create(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create submission",
		})
	}

	return c.JSON(fiber.Map{
		"submission_id": submission.ID,
	})
}

// GetTest godoc
// @Summary Get a reading test with passages and question packs
// @Tags reading
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /reading/tests/{id} [get]
func (rc *ReadingController) GetTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	test, err := rc.loadTest(uint(testID))
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

	var passages []fiber.Map
	for _, p := range test.Passages {
		var packs []fiber.Map
		for _, qp := range p.QuestionPacks {
			// Reference answers stay server-side.
			packs = append(packs, fiber.Map{
				"pack_id":        qp.ID,
				"question_start": qp.QuestionStart,
				"question_end":   qp.QuestionEnd,
				"questions":      qp.QuestionsMarkdown,
				"order_matters":  qp.OrderMatters,
			})
		}
		passages = append(passages, fiber.Map{
			"passage_id":     p.ID,
			"title":          p.Title,
			"content":        p.ContentMarkdown,
			"word_count":     p.WordCount,
			"question_packs": packs,
		})
	}

	return c.JSON(fiber.Map{
		"test_id":    test.ID,
		"title":      test.Title,
		"difficulty": test.Difficulty,
		"duration":   test.Duration,
		"passages":   passages,
	})
}

// SaveAnswer godoc
// @Summary Save an answer for one question
// @Tags reading
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /reading/submissions/{id}/answers [post]
func (rc *ReadingController) SaveAnswer(c *fiber.Ctx) error {
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

	var submission models.ReadingSubmission
	if err := rc.DB.First(&submission, submissionID).Error; err != nil {
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

	// One answer per (submission, question_number): replace on resubmit.
	var answer models.ReadingAnswer
	err = rc.DB.Where("submission_id = ? AND question_number = ?", submission.ID, input.QuestionNumber).
		First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		answer = models.ReadingAnswer{
			SubmissionID:   submission.ID,
			QuestionNumber: input.QuestionNumber,
			UserAnswers:    string(answersJSON),
		}
		if err := rc.DB.Create(&answer).Error; err != nil {
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
		if err := rc.DB.Save(&answer).Error; err != nil {
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
// @Summary List saved answers for a submission
// @Tags reading
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /reading/submissions/{id}/answers [get]
func (rc *ReadingController) GetAnswers(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.ReadingSubmission
	if err := rc.DB.Preload("Answers").First(&submission, submissionID).Error; err != nil {
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
	userID, err := utils.ExtractUserIDFromToken(c, rc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	if submission.UserID != userID && !utils.IsAdminToken(c, rc.Cfg) {
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

// GetProgress godoc
// @Summary Get completion progress for a submission
// @Tags reading
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /reading/submissions/{id}/progress [get]
func (rc *ReadingController) GetProgress(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.ReadingSubmission
	if err := rc.DB.Preload("Answers").First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	test, err := rc.loadTest(submission.TestID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	plan, err := readingPlan(test)
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
		"is_completed":        submission.IsCompleted,
	})
}

// GradeSubmission godoc
// @Summary Grade a reading submission
// @Description Scores every question, persists correctness flags and upserts the Score
// @Tags reading
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /reading/submissions/{id}/grade [post]
func (rc *ReadingController) GradeSubmission(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.ReadingSubmission
	if err := rc.DB.Preload("Answers").First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	test, err := rc.loadTest(submission.TestID)
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

	plan, err := readingPlan(test)
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

	// Persist per-question verdicts onto the stored answers.
	for i := range submission.Answers {
		a := &submission.Answers[i]
		verdict := result.PerQuestion[a.QuestionNumber]
		if a.IsCorrect != verdict {
			a.IsCorrect = verdict
			if err := rc.DB.Model(a).Update("is_correct", verdict).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not update answers",
				})
			}
		}
	}

	// Re-grading replaces the existing score rather than duplicating it.
	score := models.ReadingScore{
		SubmissionID:   submission.ID,
		CorrectAnswers: result.Correct,
		TotalQuestions: result.Total,
		BandScore:      result.Band,
		Percentage:     result.Percentage,
	}

	var existing models.ReadingScore
	err = rc.DB.Where("submission_id = ?", submission.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := rc.DB.Create(&score).Error; err != nil {
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
		if err := rc.DB.Save(&existing).Error; err != nil {
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
	})
}

// CompleteSubmission godoc
// @Summary Mark a reading submission as completed
// @Tags reading
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /reading/submissions/{id}/complete [post]
func (rc *ReadingController) CompleteSubmission(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.ReadingSubmission
	if err := rc.DB.First(&submission, submissionID).Error; err != nil {
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
	if err := rc.DB.Save(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update submission",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Submission completed",
	})
}
