package engine

import (
	"encoding/json"
	"time"

	courseModels "lms/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InteractionEvent is one entry in a content item's interaction history,
// stored as a structured ContentState row under "interaction_history".
type InteractionEvent struct {
	Type      string                 `json:"type"`
	Attempt   int                    `json:"attempt,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// GetState fetches one state row for (user, content, key). Returns nil when
// the row does not exist.
func GetState(db *gorm.DB, userID, contentID uint, key string) *courseModels.ContentState {
	var state courseModels.ContentState
	err := db.Where("user_id = ? AND content_id = ? AND state_key = ? AND is_deleted = ?",
		userID, contentID, key, false).First(&state).Error
	if err != nil {
		return nil
	}
	return &state
}

// GetAllStates fetches every state row for (user, content), keyed by state key
func GetAllStates(db *gorm.DB, userID, contentID uint) (map[string]courseModels.ContentState, error) {
	var rows []courseModels.ContentState
	if err := db.Where("user_id = ? AND content_id = ? AND is_deleted = ?",
		userID, contentID, false).Find(&rows).Error; err != nil {
		return nil, err
	}
	states := make(map[string]courseModels.ContentState, len(rows))
	for _, row := range rows {
		states[row.StateKey] = row
	}
	return states, nil
}

// SetNumericState upserts a numeric state value
func SetNumericState(db *gorm.DB, userID, contentID uint, key string, value float64) error {
	state := GetState(db, userID, contentID, key)
	if state == nil {
		return db.Create(&courseModels.ContentState{
			UserID:       userID,
			ContentID:    contentID,
			StateKey:     key,
			ValueKind:    courseModels.StateKindNumeric,
			NumericValue: &value,
		}).Error
	}
	state.ValueKind = courseModels.StateKindNumeric
	state.NumericValue = &value
	state.StructuredValue = nil
	state.TextValue = nil
	return db.Save(state).Error
}

// SetStructuredState upserts a structured (JSON) state value
func SetStructuredState(db *gorm.DB, userID, contentID uint, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	state := GetState(db, userID, contentID, key)
	if state == nil {
		return db.Create(&courseModels.ContentState{
			UserID:          userID,
			ContentID:       contentID,
			StateKey:        key,
			ValueKind:       courseModels.StateKindStructured,
			StructuredValue: datatypes.JSON(raw),
		}).Error
	}
	state.ValueKind = courseModels.StateKindStructured
	state.StructuredValue = datatypes.JSON(raw)
	state.NumericValue = nil
	state.TextValue = nil
	return db.Save(state).Error
}

// SetTextState upserts a text state value
func SetTextState(db *gorm.DB, userID, contentID uint, key string, value string) error {
	state := GetState(db, userID, contentID, key)
	if state == nil {
		return db.Create(&courseModels.ContentState{
			UserID:    userID,
			ContentID: contentID,
			StateKey:  key,
			ValueKind: courseModels.StateKindText,
			TextValue: &value,
		}).Error
	}
	state.ValueKind = courseModels.StateKindText
	state.TextValue = &value
	state.NumericValue = nil
	state.StructuredValue = nil
	return db.Save(state).Error
}

// StateValue unwraps the populated slot of a state row into a plain value
func StateValue(state courseModels.ContentState) interface{} {
	switch state.ValueKind {
	case courseModels.StateKindNumeric:
		if state.NumericValue != nil {
			return *state.NumericValue
		}
	case courseModels.StateKindText:
		if state.TextValue != nil {
			return *state.TextValue
		}
	case courseModels.StateKindStructured:
		if len(state.StructuredValue) > 0 {
			var v interface{}
			if err := json.Unmarshal(state.StructuredValue, &v); err == nil {
				return v
			}
		}
	}
	return nil
}

// InteractionHistory returns the recorded interaction events for a user on a
// content item, oldest first. Missing history is an empty slice.
func InteractionHistory(db *gorm.DB, userID, contentID uint) []InteractionEvent {
	state := GetState(db, userID, contentID, courseModels.StateKeyInteractionHistory)
	if state == nil || len(state.StructuredValue) == 0 {
		return nil
	}
	var events []InteractionEvent
	if err := json.Unmarshal(state.StructuredValue, &events); err != nil {
		return nil
	}
	return events
}

// RecordInteraction appends one event to the interaction history
func RecordInteraction(db *gorm.DB, userID, contentID uint, event InteractionEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	events := InteractionHistory(db, userID, contentID)
	events = append(events, event)
	return SetStructuredState(db, userID, contentID, courseModels.StateKeyInteractionHistory, events)
}
