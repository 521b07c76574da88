package routes

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"ielts/backend/config"
)

func registeredRoutes(t *testing.T) map[string]bool {
	t.Helper()

	app := fiber.New()
	SetupRoutes(app, nil, &config.Config{})

	routes := make(map[string]bool)
	for _, r := range app.GetRoutes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

func TestSubmissionAnswerRoutesRegistered(t *testing.T) {
	routes := registeredRoutes(t)

	assert.True(t, routes["GET /api/reading/submissions/:id/answers"])
	assert.True(t, routes["GET /api/listening/submissions/:id/answers"])
}

func TestSpeakingResponseRoutesRegistered(t *testing.T) {
	routes := registeredRoutes(t)

	assert.True(t, routes["POST /api/speaking/sessions/:id/responses"])
	assert.True(t, routes["GET /api/speaking/sessions/:id/responses"])
}

func TestGradingRoutesRegistered(t *testing.T) {
	routes := registeredRoutes(t)

	assert.True(t, routes["POST /api/reading/submissions/:id/grade"])
	assert.True(t, routes["POST /api/listening/submissions/:id/grade"])
	assert.True(t, routes["POST /api/writing/submissions/:id/score"])
	assert.True(t, routes["POST /api/speaking/sessions/:id/score"])
}
