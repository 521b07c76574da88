package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
)

type ListeningAdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewListeningAdminController(db *gorm.DB, cfg *config.Config) *ListeningAdminController {
	return &ListeningAdminController{DB: db, Cfg: cfg}
}

var listeningSectionTypes = map[string]bool{
	"section1": true,
	"section2": true,
	"section3": true,
	"section4": true,
}

// validateListeningPackRange checks the range against every other pack of the
// same test, not just the same section. Question numbering runs across the
// whole test.
func validateListeningPackRange(db *gorm.DB, testID uint, start, end int, excludeID uint) (string, bool) {
	if start <= 0 || end <= 0 {
		return "Question numbers must be positive", false
	}
	if start > end {
		return "question_start must not exceed question_end", false
	}

	var siblings []models.ListeningQuestionPack
	query := db.Joins("JOIN listening_sections ON listening_sections.id = listening_question_packs.section_id").
		Where("listening_sections.test_id = ?", testID)
	if excludeID != 0 {
		query = query.Where("listening_question_packs.id <> ?", excludeID)
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

// CreateTest godoc
// @Summary Create a listening test
// @Tags admin-listening
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/listening/tests [post]
func (ac *ListeningAdminController) CreateTest(c *fiber.Ctx) error {
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

	test := models.ListeningTest{
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
// @Summary List listening tests
// @Tags admin-listening
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/listening/tests [get]
func (ac *ListeningAdminController) ListTests(c *fiber.Ctx) error {
	var tests []models.ListeningTest
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
// @Summary Update a listening test
// @Tags admin-listening
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/listening/tests/{id} [put]
func (ac *ListeningAdminController) UpdateTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.ListeningTest
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
// @Summary Delete a listening test and its content
// @Tags admin-listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/listening/tests/{id} [delete]
func (ac *ListeningAdminController) DeleteTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.ListeningTest
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

// CreateSection godoc
// @Summary Add a section to a listening test
// @Tags admin-listening
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/listening/tests/{id}/sections [post]
func (ac *ListeningAdminController) CreateSection(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.ListeningTest
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
		Title         string `json:"title"`
		SectionType   string `json:"section_type"`
		AudioFilePath string `json:"audio_file_path"`
		Transcript    string `json:"transcript"`
		SequenceOrder int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !listeningSectionTypes[input.SectionType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "section_type must be one of section1..section4",
		})
	}

	section := models.ListeningSection{
		TestID:        test.ID,
		Title:         input.Title,
		SectionType:   input.SectionType,
		AudioFilePath: input.AudioFilePath,
		Transcript:    input.Transcript,
		SequenceOrder: input.SequenceOrder,
	}
	if err := ac.DB.Create(&section).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create section",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"section_id":   section.ID,
		"section_type": section.SectionType,
	})
}

// UpdateSection godoc
// @Summary Update a listening section
// @Tags admin-listening
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/listening/sections/{id} [put]
func (ac *ListeningAdminController) UpdateSection(c *fiber.Ctx) error {
	sectionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid section ID",
		})
	}

	var section models.ListeningSection
	if err := ac.DB.First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Section not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		Title         *string `json:"title"`
		SectionType   *string `json:"section_type"`
		AudioFilePath *string `json:"audio_file_path"`
		Transcript    *string `json:"transcript"`
		SequenceOrder *int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.SectionType != nil {
		if !listeningSectionTypes[*input.SectionType] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "section_type must be one of section1..section4",
			})
		}
		section.SectionType = *input.SectionType
	}
	if input.Title != nil {
		section.Title = *input.Title
	}
	if input.AudioFilePath != nil {
		section.AudioFilePath = *input.AudioFilePath
	}
	if input.Transcript != nil {
		section.Transcript = *input.Transcript
	}
	if input.SequenceOrder != nil {
		section.SequenceOrder = *input.SequenceOrder
	}

	if err := ac.DB.Save(&section).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update section",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Section updated",
	})
}

// DeleteSection godoc
// @Summary Delete a listening section
// @Tags admin-listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/listening/sections/{id} [delete]
func (ac *ListeningAdminController) DeleteSection(c *fiber.Ctx) error {
	sectionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid section ID",
		})
	}

	var section models.ListeningSection
	if err := ac.DB.First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Section not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := ac.DB.Delete(&section).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete section",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Section deleted",
	})
}

// CreateQuestionPack godoc
// @Summary Add a question pack to a listening section
// @Tags admin-listening
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/listening/sections/{id}/packs [post]
func (ac *ListeningAdminController) CreateQuestionPack(c *fiber.Ctx) error {
	sectionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid section ID",
		})
	}

	var section models.ListeningSection
	if err := ac.DB.First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Section not found",
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

	if msg, ok := validateListeningPackRange(ac.DB, section.TestID, input.QuestionStart, input.QuestionEnd, 0); !ok {
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

	pack := models.ListeningQuestionPack{
		SectionID:         section.ID,
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
// @Summary Update a listening question pack
// @Tags admin-listening
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/listening/packs/{id} [put]
func (ac *ListeningAdminController) UpdateQuestionPack(c *fiber.Ctx) error {
	packID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid pack ID",
		})
	}

	var pack models.ListeningQuestionPack
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

	var section models.ListeningSection
	if err := ac.DB.First(&section, pack.SectionID).Error; err != nil {
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
	if msg, ok := validateListeningPackRange(ac.DB, section.TestID, start, end, pack.ID); !ok {
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
// @Summary Delete a listening question pack
// @Tags admin-listening
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/listening/packs/{id} [delete]
func (ac *ListeningAdminController) DeleteQuestionPack(c *fiber.Ctx) error {
	packID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid pack ID",
		})
	}

	var pack models.ListeningQuestionPack
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
