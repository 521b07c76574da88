package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
)

type SpeakingAdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSpeakingAdminController(db *gorm.DB, cfg *config.Config) *SpeakingAdminController {
	return &SpeakingAdminController{DB: db, Cfg: cfg}
}

var speakingPartTypes = map[string]bool{
	"part1": true,
	"part2": true,
	"part3": true,
}

// CreateTest godoc
// @Summary Create a speaking test
// @Tags admin-speaking
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/speaking/tests [post]
func (ac *SpeakingAdminController) CreateTest(c *fiber.Ctx) error {
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

	test := models.SpeakingTest{
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
// @Summary List speaking tests
// @Tags admin-speaking
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/speaking/tests [get]
func (ac *SpeakingAdminController) ListTests(c *fiber.Ctx) error {
	var tests []models.SpeakingTest
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

// DeleteTest godoc
// @Summary Delete a speaking test and its topics
// @Tags admin-speaking
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/speaking/tests/{id} [delete]
func (ac *SpeakingAdminController) DeleteTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.SpeakingTest
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

// CreateTopic godoc
// @Summary Add a topic to a speaking test
// @Tags admin-speaking
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/speaking/tests/{id}/topics [post]
func (ac *SpeakingAdminController) CreateTopic(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.SpeakingTest
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
		PartType           string `json:"part_type"`
		TopicName          string `json:"topic_name"`
		Instructions       string `json:"instructions"`
		PreparationTime    int    `json:"preparation_time"`
		TargetSpeakingTime int    `json:"target_speaking_time"`
		MinSpeakingTime    int    `json:"min_speaking_time"`
		MaxFollowups       *int   `json:"max_followups"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !speakingPartTypes[input.PartType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "part_type must be part1, part2 or part3",
		})
	}

	topic := models.SpeakingTopic{
		TestID:             test.ID,
		PartType:           input.PartType,
		TopicName:          input.TopicName,
		Instructions:       input.Instructions,
		PreparationTime:    input.PreparationTime,
		TargetSpeakingTime: input.TargetSpeakingTime,
		MinSpeakingTime:    input.MinSpeakingTime,
		MaxFollowups:       1,
	}
	if input.MaxFollowups != nil {
		if *input.MaxFollowups < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "max_followups must not be negative",
			})
		}
		topic.MaxFollowups = *input.MaxFollowups
	}

	if err := ac.DB.Create(&topic).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create topic",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"topic_id":  topic.ID,
		"part_type": topic.PartType,
	})
}

// UpdateTopic godoc
// @Summary Update a speaking topic
// @Tags admin-speaking
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/speaking/topics/{id} [put]
func (ac *SpeakingAdminController) UpdateTopic(c *fiber.Ctx) error {
	topicID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid topic ID",
		})
	}

	var topic models.SpeakingTopic
	if err := ac.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Topic not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		PartType           *string `json:"part_type"`
		TopicName          *string `json:"topic_name"`
		Instructions       *string `json:"instructions"`
		PreparationTime    *int    `json:"preparation_time"`
		TargetSpeakingTime *int    `json:"target_speaking_time"`
		MinSpeakingTime    *int    `json:"min_speaking_time"`
		MaxFollowups       *int    `json:"max_followups"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.PartType != nil {
		if !speakingPartTypes[*input.PartType] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "part_type must be part1, part2 or part3",
			})
		}
		topic.PartType = *input.PartType
	}
	if input.TopicName != nil {
		topic.TopicName = *input.TopicName
	}
	if input.Instructions != nil {
		topic.Instructions = *input.Instructions
	}
	if input.PreparationTime != nil {
		topic.PreparationTime = *input.PreparationTime
	}
	if input.TargetSpeakingTime != nil {
		topic.TargetSpeakingTime = *input.TargetSpeakingTime
	}
	if input.MinSpeakingTime != nil {
		topic.MinSpeakingTime = *input.MinSpeakingTime
	}
	if input.MaxFollowups != nil {
		if *input.MaxFollowups < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "max_followups must not be negative",
			})
		}
		topic.MaxFollowups = *input.MaxFollowups
	}

	if err := ac.DB.Save(&topic).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update topic",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Topic updated",
	})
}

// DeleteTopic godoc
// @Summary Delete a speaking topic
// @Tags admin-speaking
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/speaking/topics/{id} [delete]
func (ac *SpeakingAdminController) DeleteTopic(c *fiber.Ctx) error {
	topicID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid topic ID",
		})
	}

	var topic models.SpeakingTopic
	if err := ac.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Topic not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := ac.DB.Delete(&topic).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete topic",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Topic deleted",
	})
}

// CreateQuestion godoc
// @Summary Add a question to a speaking topic
// @Tags admin-speaking
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/speaking/topics/{id}/questions [post]
func (ac *SpeakingAdminController) CreateQuestion(c *fiber.Ctx) error {
	topicID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid topic ID",
		})
	}

	var topic models.SpeakingTopic
	if err := ac.DB.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Topic not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		QuestionText     string `json:"question_text"`
		DifficultyWeight *int   `json:"difficulty_weight"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.QuestionText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question_text is required",
		})
	}

	question := models.SpeakingQuestion{
		TopicID:          topic.ID,
		QuestionText:     input.QuestionText,
		DifficultyWeight: 1,
		IsActive:         true,
	}
	if input.DifficultyWeight != nil {
		if *input.DifficultyWeight <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "difficulty_weight must be positive",
			})
		}
		question.DifficultyWeight = *input.DifficultyWeight
	}

	if err := ac.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create question",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"question_id": question.ID,
	})
}

// UpdateQuestion godoc
// @Summary Update a speaking question
// @Tags admin-speaking
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/speaking/questions/{id} [put]
func (ac *SpeakingAdminController) UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.SpeakingQuestion
	if err := ac.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		QuestionText     *string `json:"question_text"`
		DifficultyWeight *int    `json:"difficulty_weight"`
		IsActive         *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.QuestionText != nil {
		question.QuestionText = *input.QuestionText
	}
	if input.DifficultyWeight != nil {
		if *input.DifficultyWeight <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "difficulty_weight must be positive",
			})
		}
		question.DifficultyWeight = *input.DifficultyWeight
	}
	if input.IsActive != nil {
		question.IsActive = *input.IsActive
	}

	if err := ac.DB.Save(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update question",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Question updated",
	})
}

// DeleteQuestion godoc
// @Summary Delete a speaking question
// @Tags admin-speaking
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/speaking/questions/{id} [delete]
func (ac *SpeakingAdminController) DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question ID",
		})
	}

	var question models.SpeakingQuestion
	if err := ac.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Question not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := ac.DB.Delete(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete question",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Question deleted",
	})
}
