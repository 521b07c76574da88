package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) (int, map[string]interface{}) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestSuccessEnvelope(t *testing.T) {
	status, body := performRequest(t, func(c *fiber.Ctx) error {
		return Success(c, fiber.StatusOK, fiber.Map{"id": 1})
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["data"].(map[string]interface{})["id"])
}

func TestPaginateEnvelope(t *testing.T) {
	status, body := performRequest(t, func(c *fiber.Ctx) error {
		return Paginate(c, []string{"a", "b"}, 12, 2, 2)
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(12), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(2), body["pageSize"])
}

func TestErrorEnvelopes(t *testing.T) {
	cases := []struct {
		name    string
		handler fiber.Handler
		status  int
	}{
		{"not found", func(c *fiber.Ctx) error { return NotFound(c, "missing") }, fiber.StatusNotFound},
		{"bad request", func(c *fiber.Ctx) error { return BadRequest(c, "bad input") }, fiber.StatusBadRequest},
		{"unauthorized", func(c *fiber.Ctx) error { return Unauthorized(c, "no token") }, fiber.StatusUnauthorized},
		{"forbidden", func(c *fiber.Ctx) error { return Forbidden(c, "not yours") }, fiber.StatusForbidden},
		{"internal", func(c *fiber.Ctx) error { return InternalServerError(c, "boom") }, fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := performRequest(t, tc.handler)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}
