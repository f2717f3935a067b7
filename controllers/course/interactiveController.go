package controllers

import (
	"log"

	"lms/database"
	"lms/engine"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// UpdateInteractiveState stores one key of interaction state for the user on
// an interactive content item and appends the interaction to the event log
func UpdateInteractiveState(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	contentID := c.Locals("contentID").(int)

	reqData := new(struct {
		StateKey  string      `json:"state_key"`
		Value     interface{} `json:"value"`
		EventType string      `json:"event_type"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if reqData.StateKey == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "state_key is required!", nil)
	}
	// The interaction log has its own append path
	if reqData.StateKey == courseModels.StateKeyInteractionHistory {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This state key is managed by the server!", nil)
	}

	if err := requireEnrollmentForContent(c, userID, uint(contentID)); err != nil {
		return nil // response already written
	}

	db := database.Database.Db

	// Pick the storage slot from the submitted value's type
	var err error
	switch value := reqData.Value.(type) {
	case float64:
		err = engine.SetNumericState(db, userID, uint(contentID), reqData.StateKey, value)
	case string:
		err = engine.SetTextState(db, userID, uint(contentID), reqData.StateKey, value)
	default:
		err = engine.SetStructuredState(db, userID, uint(contentID), reqData.StateKey, value)
	}
	if err != nil {
		log.Printf("Failed to store state %q for user %d content %d: %v", reqData.StateKey, userID, contentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store state!", nil)
	}

	if reqData.EventType != "" {
		if err := engine.RecordInteraction(db, userID, uint(contentID), engine.InteractionEvent{
			Type: reqData.EventType,
			Data: map[string]interface{}{"state_key": reqData.StateKey},
		}); err != nil {
			log.Printf("Failed to record interaction for user %d content %d: %v", userID, contentID, err)
		}
	}

	// Re-check completion after every state change so progress stays live
	verified, reason := engine.VerifyCompletion(db, userID, uint(contentID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "State updated.", fiber.Map{
		"completed": verified,
		"reason":    reason,
	})
}

// VerifyContentCompletion evaluates the completion criteria of an
// interactive content item for the user
func VerifyContentCompletion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	contentID := c.Locals("contentID").(int)

	if err := requireEnrollmentForContent(c, userID, uint(contentID)); err != nil {
		return nil // response already written
	}

	verified, reason := engine.VerifyCompletion(database.Database.Db, userID, uint(contentID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion verified.", fiber.Map{
		"completed": verified,
		"reason":    reason,
	})
}

// GetInteractiveState returns every state key the user has on a content item
// plus the interaction history
func GetInteractiveState(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	contentID := c.Locals("contentID").(int)

	states, err := engine.GetAllStates(database.Database.Db, userID, uint(contentID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch state!", nil)
	}

	values := make(map[string]interface{}, len(states))
	for key, state := range states {
		if key == courseModels.StateKeyInteractionHistory {
			continue
		}
		values[key] = engine.StateValue(state)
	}

	history := engine.InteractionHistory(database.Database.Db, userID, uint(contentID))
	if history == nil {
		history = []engine.InteractionEvent{}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Interactive state.", fiber.Map{
		"states":  values,
		"history": history,
	})
}
