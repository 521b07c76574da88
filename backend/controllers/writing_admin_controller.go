package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
)

type WritingAdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewWritingAdminController(db *gorm.DB, cfg *config.Config) *WritingAdminController {
	return &WritingAdminController{DB: db, Cfg: cfg}
}

var writingTaskTypes = map[string]bool{
	"task1_academic": true,
	"task1_general":  true,
	"task2":          true,
}

// CreateTest godoc
// @Summary Create a writing test
// @Tags admin-writing
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/writing/tests [post]
func (ac *WritingAdminController) CreateTest(c *fiber.Ctx) error {
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

	test := models.WritingTest{
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
// @Summary List writing tests
// @Tags admin-writing
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /admin/writing/tests [get]
func (ac *WritingAdminController) ListTests(c *fiber.Ctx) error {
	var tests []models.WritingTest
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
// @Summary Update a writing test
// @Tags admin-writing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/writing/tests/{id} [put]
func (ac *WritingAdminController) UpdateTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.WritingTest
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
// @Summary Delete a writing test and its tasks
// @Tags admin-writing
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/writing/tests/{id} [delete]
func (ac *WritingAdminController) DeleteTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.WritingTest
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

// CreateTask godoc
// @Summary Add a task to a writing test
// @Tags admin-writing
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/writing/tests/{id}/tasks [post]
func (ac *WritingAdminController) CreateTask(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.WritingTest
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
		TaskType      string `json:"task_type"`
		Title         string `json:"title"`
		Prompt        string `json:"prompt"`
		Instructions  string `json:"instructions"`
		ImagePath     string `json:"image_path"`
		MinWords      int    `json:"min_words"`
		MaxWords      int    `json:"max_words"`
		SuggestedTime int    `json:"suggested_time"`
		SequenceOrder int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if !writingTaskTypes[input.TaskType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "task_type must be task1_academic, task1_general or task2",
		})
	}
	if input.MinWords > 0 && input.MaxWords > 0 && input.MinWords > input.MaxWords {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "min_words must not exceed max_words",
		})
	}

	task := models.WritingTask{
		TestID:        test.ID,
		TaskType:      input.TaskType,
		Title:         input.Title,
		Prompt:        input.Prompt,
		Instructions:  input.Instructions,
		ImagePath:     input.ImagePath,
		MinWords:      input.MinWords,
		MaxWords:      input.MaxWords,
		SuggestedTime: input.SuggestedTime,
		SequenceOrder: input.SequenceOrder,
	}
	if err := ac.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create task",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"task_id":   task.ID,
		"task_type": task.TaskType,
	})
}

// UpdateTask godoc
// @Summary Update a writing task
// @Tags admin-writing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/writing/tasks/{id} [put]
func (ac *WritingAdminController) UpdateTask(c *fiber.Ctx) error {
	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.WritingTask
	if err := ac.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		TaskType      *string `json:"task_type"`
		Title         *string `json:"title"`
		Prompt        *string `json:"prompt"`
		Instructions  *string `json:"instructions"`
		ImagePath     *string `json:"image_path"`
		MinWords      *int    `json:"min_words"`
		MaxWords      *int    `json:"max_words"`
		SuggestedTime *int    `json:"suggested_time"`
		SequenceOrder *int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.TaskType != nil {
		if !writingTaskTypes[*input.TaskType] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "task_type must be task1_academic, task1_general or task2",
			})
		}
		task.TaskType = *input.TaskType
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Prompt != nil {
		task.Prompt = *input.Prompt
	}
	if input.Instructions != nil {
		task.Instructions = *input.Instructions
	}
	if input.ImagePath != nil {
		task.ImagePath = *input.ImagePath
	}
	if input.MinWords != nil {
		task.MinWords = *input.MinWords
	}
	if input.MaxWords != nil {
		task.MaxWords = *input.MaxWords
	}
	if input.SuggestedTime != nil {
		task.SuggestedTime = *input.SuggestedTime
	}
	if input.SequenceOrder != nil {
		task.SequenceOrder = *input.SequenceOrder
	}

	if task.MinWords > 0 && task.MaxWords > 0 && task.MinWords > task.MaxWords {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "min_words must not exceed max_words",
		})
	}

	if err := ac.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update task",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Task updated",
	})
}

// DeleteTask godoc
// @Summary Delete a writing task
// @Tags admin-writing
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/writing/tasks/{id} [delete]
func (ac *WritingAdminController) DeleteTask(c *fiber.Ctx) error {
	taskID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.WritingTask
	if err := ac.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if err := ac.DB.Delete(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete task",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Task deleted",
	})
}
