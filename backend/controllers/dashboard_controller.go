package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
	"ielts/backend/utils"
)

type DashboardController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDashboardController(db *gorm.DB, cfg *config.Config) *DashboardController {
	return &DashboardController{DB: db, Cfg: cfg}
}

// ListUsers godoc
// @Summary List registered users, paged
// @Tags admin-dashboard
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Param page_size query int false "Items per page, default 20"
// @Success 200 {object} utils.PaginatedResponse
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (dc *DashboardController) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := dc.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var users []models.User
	if err := dc.DB.Order("id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	items := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		items = append(items, fiber.Map{
			"user_id":    u.ID,
			"email":      u.Email,
			"full_name":  u.FullName,
			"is_active":  u.IsActive,
			"last_login": u.LastLogin,
			"created_at": u.CreatedAt,
		})
	}

	return utils.Paginate(c, items, total, page, pageSize)
}

// GetUser godoc
// @Summary Get one user with per-skill submission counts
// @Tags admin-dashboard
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id} [get]
func (dc *DashboardController) GetUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := dc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var reading, listening, writing, speaking int64
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.ReadingSubmission{}, &reading},
		{&models.ListeningSubmission{}, &listening},
		{&models.WritingSubmission{}, &writing},
		{&models.SpeakingSession{}, &speaking},
	}
	for _, cnt := range counts {
		if err := dc.DB.Model(cnt.model).Where("user_id = ?", user.ID).Count(cnt.dest).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user_id":           user.ID,
		"email":             user.Email,
		"full_name":         user.FullName,
		"display_name":      user.DisplayName(),
		"target_band_score": user.TargetBandScore,
		"is_active":         user.IsActive,
		"last_login":        user.LastLogin,
		"created_at":        user.CreatedAt,
		"submissions": fiber.Map{
			"reading":   reading,
			"listening": listening,
			"writing":   writing,
			"speaking":  speaking,
		},
	})
}

// SetUserActive godoc
// @Summary Activate or deactivate a user account
// @Tags admin-dashboard
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id}/active [put]
func (dc *DashboardController) SetUserActive(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil || input.IsActive == nil {
		return utils.BadRequest(c, "is_active is required")
	}

	var user models.User
	if err := dc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	user.IsActive = *input.IsActive
	if err := dc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"user_id":   user.ID,
		"is_active": user.IsActive,
	})
}

// GetStats godoc
// @Summary Platform-wide content and usage counters
// @Tags admin-dashboard
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/stats [get]
func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	stats := make(fiber.Map)
	counters := []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"reading_tests", &models.ReadingTest{}},
		{"listening_tests", &models.ListeningTest{}},
		{"writing_tests", &models.WritingTest{}},
		{"speaking_tests", &models.SpeakingTest{}},
		{"reading_submissions", &models.ReadingSubmission{}},
		{"listening_submissions", &models.ListeningSubmission{}},
		{"writing_submissions", &models.WritingSubmission{}},
		{"speaking_sessions", &models.SpeakingSession{}},
	}
	for _, counter := range counters {
		var count int64
		if err := dc.DB.Model(counter.model).Count(&count).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		stats[counter.name] = count
	}

	var activeUsers int64
	if err := dc.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	stats["active_users"] = activeUsers

	return utils.Success(c, fiber.StatusOK, stats)
}
