package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
	"ielts/backend/scoring"
	"ielts/backend/utils"
)

type WritingController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewWritingController(db *gorm.DB, cfg *config.Config) *WritingController {
	return &WritingController{DB: db, Cfg: cfg}
}

// CreateSubmission godoc
// @Summary Start a writing test attempt
// @Tags writing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /writing/submissions [post]
func (wc *WritingController) CreateSubmission(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, wc.Cfg)
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

	var test models.WritingTest
	if err := wc.DB.First(&test, input.TestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	submission := models.WritingSubmission{
		UserID:    userID,
		TestID:    test.ID,
		StartedAt: time.Now(),
	}
	if err := wc.DB.Create(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create submission",
		})
	}

	return c.JSON(fiber.Map{
		"submission_id": submission.ID,
	})
}

// GetTest godoc
// @Summary Get a writing test with its tasks
// @Tags writing
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /writing/tests/{id} [get]
func (wc *WritingController) GetTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.WritingTest
	if err := wc.DB.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order")
	}).First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var tasks []fiber.Map
	for _, t := range test.Tasks {
		tasks = append(tasks, fiber.Map{
			"task_id":        t.ID,
			"task_type":      t.TaskType,
			"title":          t.Title,
			"prompt":         t.Prompt,
			"instructions":   t.Instructions,
			"image_path":     t.ImagePath,
			"min_words":      t.MinWords,
			"max_words":      t.MaxWords,
			"suggested_time": t.SuggestedTime,
		})
	}

	return c.JSON(fiber.Map{
		"test_id":    test.ID,
		"title":      test.Title,
		"difficulty": test.Difficulty,
		"duration":   test.Duration,
		"tasks":      tasks,
	})
}

// SaveResponse godoc
// @Summary Save or replace the response for one writing task
// @Tags writing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /writing/submissions/{id}/responses [post]
func (wc *WritingController) SaveResponse(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var input struct {
		TaskID  uint   `json:"task_id"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var submission models.WritingSubmission
	if err := wc.DB.First(&submission, submissionID).Error; err != nil {
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

	var task models.WritingTask
	if err := wc.DB.First(&task, input.TaskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if task.TestID != submission.TestID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Task does not belong to this test",
		})
	}

	wordCount := len(strings.Fields(input.Content))

	var response models.WritingResponse
	err = wc.DB.Where("submission_id = ? AND task_id = ?", submission.ID, task.ID).
		First(&response).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response = models.WritingResponse{
			SubmissionID: submission.ID,
			TaskID:       task.ID,
			Content:      input.Content,
			WordCount:    wordCount,
		}
		if err := wc.DB.Create(&response).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save response",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	} else {
		response.Content = input.Content
		response.WordCount = wordCount
		if err := wc.DB.Save(&response).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save response",
			})
		}
	}

	belowMinimum := task.MinWords > 0 && wordCount < task.MinWords

	return c.JSON(fiber.Map{
		"task_id":       task.ID,
		"word_count":    wordCount,
		"below_minimum": belowMinimum,
	})
}

// GetResponses godoc
// @Summary List saved responses for a writing submission
// @Tags writing
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /writing/submissions/{id}/responses [get]
func (wc *WritingController) GetResponses(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.WritingSubmission
	if err := wc.DB.Preload("Responses").First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(submission.Responses))
	for _, r := range submission.Responses {
		result = append(result, fiber.Map{
			"task_id":    r.TaskID,
			"content":    r.Content,
			"word_count": r.WordCount,
		})
	}
	return c.JSON(result)
}

// CountWords godoc
// @Summary Count the words in a piece of text
// @Tags writing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /writing/word-count [post]
func (wc *WritingController) CountWords(c *fiber.Ctx) error {
	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	return c.JSON(fiber.Map{
		"word_count": len(strings.Fields(input.Content)),
	})
}

// ScoreSubmission godoc
// @Summary Record criterion scores and compute the overall writing band
// @Description The overall band is the criterion average rounded to the nearest half band
// @Tags writing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /writing/submissions/{id}/score [post]
func (wc *WritingController) ScoreSubmission(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.WritingSubmission
	if err := wc.DB.First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Submission not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		TaskAchievement   *float64               `json:"task_achievement"`
		CoherenceCohesion *float64               `json:"coherence_cohesion"`
		LexicalResource   *float64               `json:"lexical_resource"`
		GrammaticalRange  *float64               `json:"grammatical_range"`
		Feedback          string                 `json:"feedback"`
		DetailedFeedback  map[string]interface{} `json:"detailed_feedback"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	criteria, err := criterionValues(input.TaskAchievement, input.CoherenceCohesion, input.LexicalResource, input.GrammaticalRange)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	overall := scoring.OverallBand(criteria[0], criteria[1], criteria[2], criteria[3])

	detailedJSON := ""
	if input.DetailedFeedback != nil {
		raw, err := json.Marshal(input.DetailedFeedback)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode feedback",
			})
		}
		detailedJSON = string(raw)
	}

	score := models.WritingScore{
		SubmissionID:      submission.ID,
		TaskAchievement:   criteria[0],
		CoherenceCohesion: criteria[1],
		LexicalResource:   criteria[2],
		GrammaticalRange:  criteria[3],
		OverallScore:      overall,
		Feedback:          input.Feedback,
		DetailedFeedback:  detailedJSON,
	}

	var existing models.WritingScore
	err = wc.DB.Where("submission_id = ?", submission.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := wc.DB.Create(&score).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save score",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	} else {
		existing.TaskAchievement = score.TaskAchievement
		existing.CoherenceCohesion = score.CoherenceCohesion
		existing.LexicalResource = score.LexicalResource
		existing.GrammaticalRange = score.GrammaticalRange
		existing.OverallScore = score.OverallScore
		existing.Feedback = score.Feedback
		existing.DetailedFeedback = score.DetailedFeedback
		if err := wc.DB.Save(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save score",
			})
		}
	}

	return c.JSON(fiber.Map{
		"submission_id":      submission.ID,
		"task_achievement":   criteria[0],
		"coherence_cohesion": criteria[1],
		"lexical_resource":   criteria[2],
		"grammatical_range":  criteria[3],
		"overall_score":      overall,
	})
}

// GetScore godoc
// @Summary Get the recorded score for a writing submission
// @Tags writing
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /writing/submissions/{id}/score [get]
func (wc *WritingController) GetScore(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var score models.WritingScore
	if err := wc.DB.Where("submission_id = ?", submissionID).First(&score).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Score not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"submission_id":      score.SubmissionID,
		"task_achievement":   score.TaskAchievement,
		"coherence_cohesion": score.CoherenceCohesion,
		"lexical_resource":   score.LexicalResource,
		"grammatical_range":  score.GrammaticalRange,
		"overall_score":      score.OverallScore,
		"feedback":           score.Feedback,
	})
}

// CompleteSubmission godoc
// @Summary Mark a writing submission as completed
// @Tags writing
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /writing/submissions/{id}/complete [post]
func (wc *WritingController) CompleteSubmission(c *fiber.Ctx) error {
	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid submission ID",
		})
	}

	var submission models.WritingSubmission
	if err := wc.DB.First(&submission, submissionID).Error; err != nil {
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
	if err := wc.DB.Save(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update submission",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Submission completed",
	})
}
