package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/models"
	"ielts/backend/scoring"
	"ielts/backend/utils"
)

type SpeakingController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Selector *scoring.QuestionSelector
}

func NewSpeakingController(db *gorm.DB, cfg *config.Config) *SpeakingController {
	return &SpeakingController{
		DB:       db,
		Cfg:      cfg,
		Selector: scoring.NewQuestionSelector(),
	}
}

// CreateSession godoc
// @Summary Start a speaking session
// @Tags speaking
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/sessions [post]
func (sc *SpeakingController) CreateSession(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
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

	var test models.SpeakingTest
	if err := sc.DB.First(&test, input.TestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Test not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	session := models.SpeakingSession{
		UserID:    userID,
		TestID:    test.ID,
		Status:    "started",
		StartedAt: time.Now(),
	}
	if err := sc.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create session",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": session.ID,
		"status":     session.Status,
	})
}

// GetTest godoc
// @Summary Get a speaking test with its topics
// @Tags speaking
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/tests/{id} [get]
func (sc *SpeakingController) GetTest(c *fiber.Ctx) error {
	testID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test ID",
		})
	}

	var test models.SpeakingTest
	if err := sc.DB.Preload("Topics", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
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

	var topics []fiber.Map
	for _, t := range test.Topics {
		topics = append(topics, fiber.Map{
			"topic_id":             t.ID,
			"part_type":            t.PartType,
			"topic_name":           t.TopicName,
			"instructions":         t.Instructions,
			"preparation_time":     t.PreparationTime,
			"target_speaking_time": t.TargetSpeakingTime,
			"min_speaking_time":    t.MinSpeakingTime,
			"max_followups":        t.MaxFollowups,
		})
	}

	return c.JSON(fiber.Map{
		"test_id":    test.ID,
		"title":      test.Title,
		"difficulty": test.Difficulty,
		"duration":   test.Duration,
		"topics":     topics,
	})
}

// NextQuestion godoc
// @Summary Draw the next question for a topic
// @Description Weighted random draw over the topic's active questions, skipping ones already asked in this session
// @Tags speaking
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/sessions/{id}/next-question [post]
func (sc *SpeakingController) NextQuestion(c *fiber.Ctx) error {
	sessionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var input struct {
		TopicID uint `json:"topic_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var session models.SpeakingSession
	if err := sc.DB.Preload("Responses").First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if session.Status == "completed" || session.Status == "abandoned" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Session is no longer active",
		})
	}

	var topic models.SpeakingTopic
	if err := sc.DB.Preload("Questions").First(&topic, input.TopicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Topic not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}
	if topic.TestID != session.TestID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Topic does not belong to this test",
		})
	}

	asked := make(map[uint]bool, len(session.Responses))
	for _, r := range session.Responses {
		if r.QuestionID != nil {
			asked[*r.QuestionID] = true
		}
	}

	var candidates []scoring.Candidate
	for _, q := range topic.Questions {
		if !q.IsActive || asked[q.ID] {
			continue
		}
		candidates = append(candidates, scoring.Candidate{ID: q.ID, Weight: q.DifficultyWeight})
	}

	picked, ok := sc.Selector.Pick(candidates)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No questions available for this topic",
		})
	}

	var question models.SpeakingQuestion
	if err := sc.DB.First(&question, picked.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	session.CurrentTopicID = &topic.ID
	session.CurrentQuestionID = &question.ID
	session.Status = "in_progress"
	if err := sc.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update session",
		})
	}

	return c.JSON(fiber.Map{
		"question_id":      question.ID,
		"question_text":    question.QuestionText,
		"topic_id":         topic.ID,
		"part_type":        topic.PartType,
		"preparation_time": topic.PreparationTime,
	})
}

// SaveResponse godoc
// @Summary Upload an audio response for the current question
// @Tags speaking
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/sessions/{id}/responses [post]
func (sc *SpeakingController) SaveResponse(c *fiber.Ctx) error {
	sessionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.SpeakingSession
	if err := sc.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if session.Status == "completed" || session.Status == "abandoned" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Session is no longer active",
		})
	}
	if session.CurrentTopicID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No question is currently assigned",
		})
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Audio file is required",
		})
	}

	durationSeconds, _ := strconv.Atoi(c.FormValue("duration_seconds"))
	isFollowup := c.FormValue("is_followup") == "true"

	if err := os.MkdirAll(sc.Cfg.AudioStorageDir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not prepare storage directory",
		})
	}

	storedName := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(file.Filename))
	storedPath := filepath.Join(sc.Cfg.AudioStorageDir, storedName)
	if err := c.SaveFile(file, storedPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store audio file",
		})
	}

	questionText := ""
	if session.CurrentQuestionID != nil {
		var question models.SpeakingQuestion
		if err := sc.DB.First(&question, *session.CurrentQuestionID).Error; err == nil {
			questionText = question.QuestionText
		}
	}

	// Follow-up answers inherit and advance the per-topic counter.
	followupCount := 0
	if isFollowup {
		var prev models.SpeakingResponse
		err := sc.DB.Where("session_id = ? AND topic_id = ?", session.ID, *session.CurrentTopicID).
			Order("id DESC").First(&prev).Error
		if err == nil {
			followupCount = prev.FollowupCount + 1
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		} else {
			followupCount = 1
		}
	}

	response := models.SpeakingResponse{
		SessionID:          session.ID,
		TopicID:            *session.CurrentTopicID,
		QuestionID:         session.CurrentQuestionID,
		QuestionText:       questionText,
		AudioFilePath:      storedPath,
		AudioFilename:      file.Filename,
		FileSizeBytes:      file.Size,
		DurationSeconds:    durationSeconds,
		FollowupCount:      followupCount,
		IsFollowupResponse: isFollowup,
	}
	if err := sc.DB.Create(&response).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save response",
		})
	}

	return c.JSON(fiber.Map{
		"response_id":      response.ID,
		"audio_filename":   response.AudioFilename,
		"file_size_bytes":  response.FileSizeBytes,
		"duration_seconds": response.DurationSeconds,
	})
}

// GetResponses godoc
// @Summary List recorded responses for a speaking session
// @Tags speaking
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/sessions/{id}/responses [get]
func (sc *SpeakingController) GetResponses(c *fiber.Ctx) error {
	sessionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.SpeakingSession
	if err := sc.DB.Preload("Responses", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	result := make([]fiber.Map, 0, len(session.Responses))
	for _, r := range session.Responses {
		result = append(result, fiber.Map{
			"response_id":          r.ID,
			"topic_id":             r.TopicID,
			"question_id":          r.QuestionID,
			"question_text":        r.QuestionText,
			"audio_filename":       r.AudioFilename,
			"duration_seconds":     r.DurationSeconds,
			"transcript":           r.Transcript,
			"feedback":             r.Feedback,
			"followup_needed":      r.FollowupNeeded,
			"followup_count":       r.FollowupCount,
			"is_followup_response": r.IsFollowupResponse,
		})
	}

	return c.JSON(result)
}

// AttachAnalysis godoc
// @Summary Attach transcript and analysis to a speaking response
// @Tags speaking
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/responses/{id}/analysis [post]
func (sc *SpeakingController) AttachAnalysis(c *fiber.Ctx) error {
	responseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid response ID",
		})
	}

	var response models.SpeakingResponse
	if err := sc.DB.First(&response, responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Response not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		Transcript       string                 `json:"transcript"`
		Feedback         string                 `json:"feedback"`
		Analysis         map[string]interface{} `json:"analysis"`
		FollowupNeeded   bool                   `json:"followup_needed"`
		FollowupQuestion string                 `json:"followup_question"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	response.Transcript = input.Transcript
	response.Feedback = input.Feedback
	response.FollowupNeeded = input.FollowupNeeded
	response.FollowupQuestion = input.FollowupQuestion
	if input.Analysis != nil {
		raw, err := json.Marshal(input.Analysis)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not encode analysis",
			})
		}
		response.Analysis = string(raw)
	}

	if err := sc.DB.Save(&response).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update response",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Analysis saved",
	})
}

// FollowUpDecision godoc
// @Summary Decide whether another follow-up question is allowed
// @Description A follow-up is asked only if the analysis flagged one and the topic's follow-up limit is not reached
// @Tags speaking
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/responses/{id}/followup [get]
func (sc *SpeakingController) FollowUpDecision(c *fiber.Ctx) error {
	responseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid response ID",
		})
	}

	var response models.SpeakingResponse
	if err := sc.DB.First(&response, responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Response not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var topic models.SpeakingTopic
	if err := sc.DB.First(&topic, response.TopicID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	allowed := response.FollowupNeeded && scoring.CanFollowUp(response.FollowupCount, topic.MaxFollowups)

	result := fiber.Map{
		"followup_allowed": allowed,
		"followup_count":   response.FollowupCount,
		"max_followups":    topic.MaxFollowups,
	}
	if allowed {
		result["followup_question"] = response.FollowupQuestion
	}
	return c.JSON(result)
}

// ScoreSession godoc
// @Summary Record criterion scores and compute the overall speaking band
// @Tags speaking
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/sessions/{id}/score [post]
func (sc *SpeakingController) ScoreSession(c *fiber.Ctx) error {
	sessionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.SpeakingSession
	if err := sc.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var input struct {
		FluencyCoherence *float64 `json:"fluency_coherence"`
		LexicalResource  *float64 `json:"lexical_resource"`
		GrammaticalRange *float64 `json:"grammatical_range"`
		Pronunciation    *float64 `json:"pronunciation"`
		Feedback         string   `json:"feedback"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	criteria, err := criterionValues(input.FluencyCoherence, input.LexicalResource, input.GrammaticalRange, input.Pronunciation)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	overall := scoring.OverallBand(criteria[0], criteria[1], criteria[2], criteria[3])

	score := models.SpeakingScore{
		SessionID:        session.ID,
		FluencyCoherence: criteria[0],
		LexicalResource:  criteria[1],
		GrammaticalRange: criteria[2],
		Pronunciation:    criteria[3],
		OverallScore:     overall,
		Feedback:         input.Feedback,
	}

	var existing models.SpeakingScore
	err = sc.DB.Where("session_id = ?", session.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := sc.DB.Create(&score).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save score",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	} else {
		existing.FluencyCoherence = score.FluencyCoherence
		existing.LexicalResource = score.LexicalResource
		existing.GrammaticalRange = score.GrammaticalRange
		existing.Pronunciation = score.Pronunciation
		existing.OverallScore = score.OverallScore
		existing.Feedback = score.Feedback
		if err := sc.DB.Save(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save score",
			})
		}
	}

	return c.JSON(fiber.Map{
		"session_id":        session.ID,
		"fluency_coherence": criteria[0],
		"lexical_resource":  criteria[1],
		"grammatical_range": criteria[2],
		"pronunciation":     criteria[3],
		"overall_score":     overall,
	})
}

// CompleteSession godoc
// @Summary Mark a speaking session as completed
// @Tags speaking
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/sessions/{id}/complete [post]
func (sc *SpeakingController) CompleteSession(c *fiber.Ctx) error {
	return sc.closeSession(c, "completed")
}

// AbandonSession godoc
// @Summary Mark a speaking session as abandoned
// @Tags speaking
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /speaking/sessions/{id}/abandon [post]
func (sc *SpeakingController) AbandonSession(c *fiber.Ctx) error {
	return sc.closeSession(c, "abandoned")
}

func (sc *SpeakingController) closeSession(c *fiber.Ctx, status string) error {
	sessionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.SpeakingSession
	if err := sc.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	now := time.Now()
	session.Status = status
	session.CompletedAt = &now
	if err := sc.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update session",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": session.ID,
		"status":     session.Status,
	})
}
