package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
	"ielts/backend/scoring"
)

type ReadingAdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewReadingAdminController(db *gorm.DB, cfg *config.Config) *ReadingAdminController {
	return &ReadingAdminController{DB: db, Cfg: cfg}
}

// validatePackRange rejects inverted ranges and ranges that collide with
// another pack of the same passage. excludeID skips the pack being updated.
func validatePackRange(db *gorm.DB, passageID uint, start, end int, excludeID uint) (string, bool) {
	if start <= 0 || end <= 0 {
		return "Question numbers must be positive", false
	}
	if start > end {
		return "question_start must not exceed question_end", false
	}

	var siblings []models.ReadingQuestionPack
	query := db.Where("passage_id = ?", passageID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&siblings).Error; err != nil {
		return "Could not query database", false
	}
	for _, s := range siblings {
		if start <= s.QuestionEnd && s.QuestionStart <= end {
			return "Question range overlaps an existing pack", false
		}
	}
	return "", true
}

// ExpandAnswers godoc
// @Summary Expand reference answers into accepted spelling and case variants
// @Description Authoring helper for building answer keys: adds British/American spelling pairs and case forms
// @Tags admin-reading
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/reading/expand-answers [post]
func (ac *ReadingAdminController) ExpandAnswers(c *fiber.Ctx) error {
	var input struct {
		Answers []string `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	return c.JSON(fiber.Map{
		"answers":  input.Answers,
		"variants": scoring.ExpandVariants(input.Answers),
	})
}

// CreateTest godoc
// @Summary Create a reading test
// @Tags admin-reading
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/reading/tests [post]
func (ac *ReadingAdminController) CreateTest(c *fiber.Ctx) error {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Difficulty  string `json:"difficulty"`
		Duration    int    `json:"duration"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	test := models.ReadingTest{
		Title:       input.Title,
		Description: input.Description,
		IsActive:    true,
	}
	if input.Difficulty != "" {
		test.Difficulty = input.Difficulty
	}
	if input.Duration > 0 {
		test.Duration = input.Duration
	}

	if err := ac.DB.Create(&test).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create test",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"test_id": test.ID,
		"title":   test.Title,
	})
}

// ListTests godoc
// @Summary List reading tests
// @Tags admin-reading
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/reading/tests [get]
func (ac *ReadingAdminController) ListTests(c *fiber.Ctx) error {
	var tests []models.ReadingTest
	if err := ac.DB.Order("id").Find(&tests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(tests))
	for _, t := range tests {
		result = append(result, fiber.Map{
			"test_id":    t.ID,
			"title":      t.Title,
			"difficulty": t.Difficulty,
			"duration":   t.Duration,
			"is_active":  t.IsActive,
		})
	}
	return c.JSON(result)
}

// UpdateTest godoc
// @Summary Update a reading test
// @Tags admin-reading
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/reading/tests/{id} [put]
func (ac *ReadingAdminController) UpdateTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.ReadingTest
	if err := ac.DB.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Difficulty  *string `json:"difficulty"`
		Duration    *int    `json:"duration"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Title != nil {
		test.Title = *input.Title
	}
	if input.Description != nil {
		test.Description = *input.Description
	}
	if input.Difficulty != nil {
		test.Difficulty = *input.Difficulty
	}
	if input.Duration != nil {
		test.Duration = *input.Duration
	}
	if input.IsActive != nil {
		test.IsActive = *input.IsActive
	}

	if err := ac.DB.Save(&test).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update test",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Test updated",
	})
}

// DeleteTest godoc
// @Summary Delete a reading test and its content
// @Tags admin-reading
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/reading/tests/{id} [delete]
func (ac *ReadingAdminController) DeleteTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.ReadingTest
	if err := ac.DB.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := ac.DB.Delete(&test).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete test",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Test deleted",
	})
}

// CreatePassage godoc
// @Summary Add a passage to a reading test
// @Tags admin-reading
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/reading/tests/{id}/passages [post]
func (ac *ReadingAdminController) CreatePassage(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.ReadingTest
	if err := ac.DB.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		Title           string `json:"title"`
		ContentMarkdown string `json:"content_markdown"`
		SequenceOrder   int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	passage := models.ReadingPassage{
		TestID:          test.ID,
		Title:           input.Title,
		ContentMarkdown: input.ContentMarkdown,
		WordCount:       len(strings.Fields(input.ContentMarkdown)),
		SequenceOrder:   input.SequenceOrder,
	}
	if err := ac.DB.Create(&passage).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create passage",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"passage_id": passage.ID,
		"word_count": passage.WordCount,
	})
}

// UpdatePassage godoc
// @Summary Update a reading passage
// @Tags admin-reading
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/reading/passages/{id} [put]
func (ac *ReadingAdminController) UpdatePassage(c *fiber.Ctx) error {
	passageID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid passage ID",
		})
	}

	var passage models.ReadingPassage
	if err := ac.DB.First(&passage, passageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Passage not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		Title           *string `json:"title"`
		ContentMarkdown *string `json:"content_markdown"`
		SequenceOrder   *int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Title != nil {
		passage.Title = *input.Title
	}
	if input.ContentMarkdown != nil {
		passage.ContentMarkdown = *input.ContentMarkdown
		passage.WordCount = len(strings.Fields(*input.ContentMarkdown))
	}
	if input.SequenceOrder != nil {
		passage.SequenceOrder = *input.SequenceOrder
	}

	if err := ac.DB.Save(&passage).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update passage",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Passage updated",
	})
}

// DeletePassage godoc
// @Summary Delete a reading passage
// @Tags admin-reading
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/reading/passages/{id} [delete]
func (ac *ReadingAdminController) DeletePassage(c *fiber.Ctx) error {
	passageID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid passage ID",
		})
	}

	var passage models.ReadingPassage
	if err := ac.DB.First(&passage, passageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Passage not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := ac.DB.Delete(&passage).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete passage",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Passage deleted",
	})
}

// CreateQuestionPack godoc
// @Summary Add a question pack to a passage
// @Description The answer key maps question numbers to accepted answers
// @Tags admin-reading
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/reading/passages/{id}/packs [post]
func (ac *ReadingAdminController) CreateQuestionPack(c *fiber.Ctx) error {
	passageID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid passage ID",
		})
	}

	var passage models.ReadingPassage
	if err := ac.DB.First(&passage, passageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Passage not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		Title             string              `json:"title"`
		QuestionStart     int                 `json:"question_start"`
		QuestionEnd       int                 `json:"question_end"`
		QuestionsMarkdown string              `json:"questions_markdown"`
		CorrectAnswers    map[string][]string `json:"correct_answers"`
		OrderMatters      *bool               `json:"order_matters"`
		SequenceOrder     int                 `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if msg, ok := validatePackRange(ac.DB, passage.ID, input.QuestionStart, input.QuestionEnd, 0); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	answersJSON, err := json.Marshal(input.CorrectAnswers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not encode answer key",
		})
	}

	pack := models.ReadingQuestionPack{
		PassageID:         passage.ID,
		Title:             input.Title,
		QuestionStart:     input.QuestionStart,
		QuestionEnd:       input.QuestionEnd,
		QuestionsMarkdown: input.QuestionsMarkdown,
		CorrectAnswers:    string(answersJSON),
		OrderMatters:      true,
		SequenceOrder:     input.SequenceOrder,
	}
	if input.OrderMatters != nil {
		pack.OrderMatters = *input.OrderMatters
	}

	if err := ac.DB.Create(&pack).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create question pack",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"pack_id":        pack.ID,
		"question_start": pack.QuestionStart,
		"question_end":   pack.QuestionEnd,
	})
}

// UpdateQuestionPack godoc
// @Summary Update a question pack
// @Tags admin-reading
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/reading/packs/{id} [put]
func (ac *ReadingAdminController) UpdateQuestionPack(c *fiber.Ctx) error {
	packID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid pack ID",
		})
	}

	var pack models.ReadingQuestionPack
	if err := ac.DB.First(&pack, packID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question pack not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		Title             *string             `json:"title"`
		QuestionStart     *int                `json:"question_start"`
		QuestionEnd       *int                `json:"question_end"`
		QuestionsMarkdown *string             `json:"questions_markdown"`
		CorrectAnswers    map[string][]string `json:"correct_answers"`
		OrderMatters      *bool               `json:"order_matters"`
		SequenceOrder     *int                `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	start := pack.QuestionStart
	end := pack.QuestionEnd
	if input.QuestionStart != nil {
		start = *input.QuestionStart
	}
	if input.QuestionEnd != nil {
		end = *input.QuestionEnd
	}
	if msg, ok := validatePackRange(ac.DB, pack.PassageID, start, end, pack.ID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}
	pack.QuestionStart = start
	pack.QuestionEnd = end

	if input.Title != nil {
		pack.Title = *input.Title
	}
	if input.QuestionsMarkdown != nil {
		pack.QuestionsMarkdown = *input.QuestionsMarkdown
	}
	if input.CorrectAnswers != nil {
		answersJSON, err := json.Marshal(input.CorrectAnswers)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode answer key",
			})
		}
		pack.CorrectAnswers = string(answersJSON)
	}
	if input.OrderMatters != nil {
		pack.OrderMatters = *input.OrderMatters
	}
	if input.SequenceOrder != nil {
		pack.SequenceOrder = *input.SequenceOrder
	}

	if err := ac.DB.Save(&pack).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update question pack",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Question pack updated",
	})
}

// DeleteQuestionPack godoc
// @Summary Delete a question pack
// @Tags admin-reading
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/reading/packs/{id} [delete]
func (ac *ReadingAdminController) DeleteQuestionPack(c *fiber.Ctx) error {
	packID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid pack ID",
		})
	}

	var pack models.ReadingQuestionPack
	if err := ac.DB.First(&pack, packID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question pack not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := ac.DB.Delete(&pack).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete question pack",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Question pack deleted",
	})
}
