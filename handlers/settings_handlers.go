package handlers

import (
	"fmt"
	"log"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleSaveAIKey stores an API key for a provider in the settings table.
// PUT /api/v1/settings/ai-key
func HandleSaveAIKey(c *fiber.Ctx) error {
	var req models.AIKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	settingKey, err := settingKeyForProvider(req.Provider)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if req.APIKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "api_key must not be empty"})
	}

	if err := database.SaveSetting(settingKey, req.APIKey); err != nil {
		log.Printf("Error saving API key for %s: %v", req.Provider, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to save API key"})
	}

	log.Printf("Saved %s API key: %s", req.Provider, utils.MaskSecret(req.APIKey))
	return c.JSON(fiber.Map{"status": "success", "message": fmt.Sprintf("%s API key saved", req.Provider)})
}

// HandleGetAIKeyStatus reports whether a key is configured for a provider.
// The key itself never leaves the server unmasked.
// GET /api/v1/settings/ai-key?provider=gemini
func HandleGetAIKeyStatus(c *fiber.Ctx) error {
	provider := c.Query("provider", "gemini")

	if _, err := settingKeyForProvider(provider); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	key, err := resolveAPIKey(provider)
	if err != nil {
		log.Printf("Error reading API key for %s: %v", provider, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read API key"})
	}

	status := models.AIKeyStatus{Provider: provider, Configured: key != ""}
	if status.Configured {
		status.MaskedKey = utils.MaskSecret(key)
	}
	return c.JSON(fiber.Map{"status": "success", "data": status})
}

// HandleDeleteAIKey removes a stored key for a provider.
// DELETE /api/v1/settings/ai-key?provider=gemini
func HandleDeleteAIKey(c *fiber.Ctx) error {
	provider := c.Query("provider", "gemini")

	settingKey, err := settingKeyForProvider(provider)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	if err := database.DeleteSetting(settingKey); err != nil {
		log.Printf("Error deleting API key for %s: %v", provider, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete API key"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": fmt.Sprintf("%s API key deleted", provider)})
}
