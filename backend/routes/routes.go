package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ielts/backend/config"
	"ielts/backend/controllers"
	"ielts/backend/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/google", authController.GoogleLogin)
	app.Post("/api/auth/admin/login", authController.AdminLogin)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/users/me", authMiddleware, userController.GetProfile)
	app.Put("/api/users/me", authMiddleware, userController.UpdateProfile)

	// Reading routes
	readingController := controllers.NewReadingController(db, cfg)
	reading := app.Group("/api/reading", authMiddleware)
	reading.Get("/tests/:id", readingController.GetTest)
	reading.Post("/submissions", readingController.CreateSubmission)
	reading.Post("/submissions/:id/answers", readingController.SaveAnswer)
	reading.Get("/submissions/:id/answers", readingController.GetAnswers)
	reading.Get("/submissions/:id/progress", readingController.GetProgress)
	reading.Post("/submissions/:id/grade", readingController.GradeSubmission)
	reading.Post("/submissions/:id/complete", readingController.CompleteSubmission)

	// Listening routes
	listeningController := controllers.NewListeningController(db, cfg)
	listening := app.Group("/api/listening", authMiddleware)
	listening.Get("/tests/:id", listeningController.GetTest)
	listening.Get("/tests/:id/locate/:question", listeningController.LocateQuestion)
	listening.Get("/sections/:id/audio", listeningController.GetSectionAudio)
	listening.Post("/submissions", listeningController.CreateSubmission)
	listening.Post("/submissions/:id/answers", listeningController.SaveAnswer)
	listening.Get("/submissions/:id/answers", listeningController.GetAnswers)
	listening.Get("/submissions/:id/progress", listeningController.GetProgress)
	listening.Post("/submissions/:id/grade", listeningController.GradeSubmission)
	listening.Post("/submissions/:id/complete", listeningController.CompleteSubmission)

	// Writing routes
	writingController := controllers.NewWritingController(db, cfg)
	writing := app.Group("/api/writing", authMiddleware)
	writing.Get("/tests/:id", writingController.GetTest)
	writing.Post("/submissions", writingController.CreateSubmission)
	writing.Post("/submissions/:id/responses", writingController.SaveResponse)
	writing.Get("/submissions/:id/responses", writingController.GetResponses)
	writing.Post("/submissions/:id/score", writingController.ScoreSubmission)
	writing.Get("/submissions/:id/score", writingController.GetScore)
	writing.Post("/submissions/:id/complete", writingController.CompleteSubmission)
	writing.Post("/word-count", writingController.CountWords)

	// Speaking routes
	speakingController := controllers.NewSpeakingController(db, cfg)
	speaking := app.Group("/api/speaking", authMiddleware)
	speaking.Get("/tests/:id", speakingController.GetTest)
	speaking.Post("/sessions", speakingController.CreateSession)
	speaking.Post("/sessions/:id/next-question", speakingController.NextQuestion)
	speaking.Post("/sessions/:id/responses", speakingController.SaveResponse)
	speaking.Get("/sessions/:id/responses", speakingController.GetResponses)
	speaking.Post("/sessions/:id/score", speakingController.ScoreSession)
	speaking.Post("/sessions/:id/complete", speakingController.CompleteSession)
	speaking.Post("/sessions/:id/abandon", speakingController.AbandonSession)
	speaking.Post("/responses/:id/analysis", speakingController.AttachAnalysis)
	speaking.Get("/responses/:id/followup", speakingController.FollowUpDecision)

	// Admin content routes
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)

	readingAdmin := controllers.NewReadingAdminController(db, cfg)
	admin.Post("/reading/expand-answers", readingAdmin.ExpandAnswers)
	admin.Post("/reading/tests", readingAdmin.CreateTest)
	admin.Get("/reading/tests", readingAdmin.ListTests)
	admin.Put("/reading/tests/:id", readingAdmin.UpdateTest)
	admin.Delete("/reading/tests/:id", readingAdmin.DeleteTest)
	admin.Post("/reading/tests/:id/passages", readingAdmin.CreatePassage)
	admin.Put("/reading/passages/:id", readingAdmin.UpdatePassage)
	admin.Delete("/reading/passages/:id", readingAdmin.DeletePassage)
	admin.Post("/reading/passages/:id/packs", readingAdmin.CreateQuestionPack)
	admin.Put("/reading/packs/:id", readingAdmin.UpdateQuestionPack)
	admin.Delete("/reading/packs/:id", readingAdmin.DeleteQuestionPack)

	listeningAdmin := controllers.NewListeningAdminController(db, cfg)
	admin.Post("/listening/tests", listeningAdmin.CreateTest)
	admin.Get("/listening/tests", listeningAdmin.ListTests)
	admin.Put("/listening/tests/:id", listeningAdmin.UpdateTest)
	admin.Delete("/listening/tests/:id", listeningAdmin.DeleteTest)
	admin.Post("/listening/tests/:id/sections", listeningAdmin.CreateSection)
	admin.Put("/listening/sections/:id", listeningAdmin.UpdateSection)
	admin.Delete("/listening/sections/:id", listeningAdmin.DeleteSection)
	admin.Post("/listening/sections/:id/packs", listeningAdmin.CreateQuestionPack)
	admin.Put("/listening/packs/:id", listeningAdmin.UpdateQuestionPack)
	admin.Delete("/listening/packs/:id", listeningAdmin.DeleteQuestionPack)

	writingAdmin := controllers.NewWritingAdminController(db, cfg)
	admin.Post("/writing/tests", writingAdmin.CreateTest)
	admin.Get("/writing/tests", writingAdmin.ListTests)
	admin.Put("/writing/tests/:id", writingAdmin.UpdateTest)
	admin.Delete("/writing/tests/:id", writingAdmin.DeleteTest)
	admin.Post("/writing/tests/:id/tasks", writingAdmin.CreateTask)
	admin.Put("/writing/tasks/:id", writingAdmin.UpdateTask)
	admin.Delete("/writing/tasks/:id", writingAdmin.DeleteTask)

	speakingAdmin := controllers.NewSpeakingAdminController(db, cfg)
	admin.Post("/speaking/tests", speakingAdmin.CreateTest)
	admin.Get("/speaking/tests", speakingAdmin.ListTests)
	admin.Delete("/speaking/tests/:id", speakingAdmin.DeleteTest)
	admin.Post("/speaking/tests/:id/topics", speakingAdmin.CreateTopic)
	admin.Put("/speaking/topics/:id", speakingAdmin.UpdateTopic)
	admin.Delete("/speaking/topics/:id", speakingAdmin.DeleteTopic)
	admin.Post("/speaking/topics/:id/questions", speakingAdmin.CreateQuestion)
	admin.Put("/speaking/questions/:id", speakingAdmin.UpdateQuestion)
	admin.Delete("/speaking/questions/:id", speakingAdmin.DeleteQuestion)

	// Dashboard routes
	dashboard := controllers.NewDashboardController(db, cfg)
	admin.Get("/users", dashboard.ListUsers)
	admin.Get("/users/:id", dashboard.GetUser)
	admin.Put("/users/:id/active", dashboard.SetUserActive)
	admin.Get("/stats", dashboard.GetStats)
}
