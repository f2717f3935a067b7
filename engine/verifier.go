package engine

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Custom criteria variants. Only steps counting is defined today; unknown
// values fail closed with an unmet message.
const CustomStepsCompleted = "steps_completed"

// VerificationCriteria is the data-described completion rule tree attached to
// INTERACTIVE content. All branches are optional and AND-combined.
type VerificationCriteria struct {
	RequiredStates map[string]interface{} `json:"required_states,omitempty"`
	RequiredEvents []string               `json:"required_events,omitempty"`
	CustomCriteria string                 `json:"custom_criteria,omitempty"`
	TotalSteps     float64                `json:"total_steps,omitempty"`
}

func (c VerificationCriteria) empty() bool {
	return len(c.RequiredStates) == 0 && len(c.RequiredEvents) == 0 && c.CustomCriteria == ""
}

// VerifyCompletion evaluates a content item's verification criteria against
// the user's accumulated state. Full success persists 100%/COMPLETED; partial
// success persists a proportional percentage capped at 99 and returns the
// unmet criteria joined with "; ".
func VerifyCompletion(db *gorm.DB, userID, contentID uint) (bool, string) {
	var item courseModels.ContentItem
	if err := db.Where("id = ? AND is_deleted = ?", contentID, false).First(&item).Error; err != nil {
		return false, "Content not found"
	}

	states, err := GetAllStates(db, userID, contentID)
	if err != nil {
		log.Printf("[ENGINE] verify: failed to fetch states for user %d content %d: %v", userID, contentID, err)
		return false, "Unable to verify completion"
	}

	criteria := parseCriteria(item.VerificationCriteria)
	if criteria.empty() {
		return verifyByCompletionFlag(db, userID, contentID, states)
	}

	total := 0
	var unmet []string

	for _, key := range sortedKeys(criteria.RequiredStates) {
		total++
		expected := criteria.RequiredStates[key]
		state, present := states[key]
		if !present {
			unmet = append(unmet, fmt.Sprintf("Missing required state: %s", key))
			continue
		}
		if !valuesEqual(StateValue(state), expected) {
			unmet = append(unmet, fmt.Sprintf("State %s does not match the expected value", key))
		}
	}

	if len(criteria.RequiredEvents) > 0 {
		seen := make(map[string]bool)
		for _, event := range InteractionHistory(db, userID, contentID) {
			seen[event.Type] = true
		}
		for _, eventType := range criteria.RequiredEvents {
			total++
			if !seen[eventType] {
				unmet = append(unmet, fmt.Sprintf("Required event not recorded: %s", eventType))
			}
		}
	}

	if criteria.CustomCriteria != "" {
		total++
		switch criteria.CustomCriteria {
		case CustomStepsCompleted:
			current := 0.0
			if state, ok := states[courseModels.StateKeyCurrentStep]; ok && state.NumericValue != nil {
				current = *state.NumericValue
			}
			if current < criteria.TotalSteps {
				unmet = append(unmet, fmt.Sprintf("Steps completed: %.0f of %.0f", current, criteria.TotalSteps))
			}
		default:
			unmet = append(unmet, fmt.Sprintf("Unknown completion criteria: %s", criteria.CustomCriteria))
		}
	}

	if len(unmet) == 0 {
		markVerified(db, userID, contentID, true, 100)
		return true, "All completion criteria met"
	}

	percentage := 100 * (1 - float64(len(unmet))/float64(total))
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 99 {
		percentage = 99
	}
	markVerified(db, userID, contentID, false, percentage)
	return false, strings.Join(unmet, "; ")
}

// verifyByCompletionFlag is the fallback when no criteria are configured: a
// standalone completion_status state decides.
func verifyByCompletionFlag(db *gorm.DB, userID, contentID uint, states map[string]courseModels.ContentState) (bool, string) {
	if state, ok := states[courseModels.StateKeyCompletionStatus]; ok {
		if flags, ok := StateValue(state).(map[string]interface{}); ok {
			if done, _ := flags["is_completed"].(bool); done {
				markVerified(db, userID, contentID, true, 100)
				return true, "All completion criteria met"
			}
		}
	}
	markVerified(db, userID, contentID, false, 0)
	return false, "Activity not completed"
}

func parseCriteria(raw []byte) VerificationCriteria {
	var criteria VerificationCriteria
	if len(raw) == 0 {
		return criteria
	}
	if err := json.Unmarshal(raw, &criteria); err != nil {
		log.Printf("[ENGINE] verify: malformed verification criteria: %v", err)
	}
	return criteria
}

// markVerified upserts the user's content progress with the verification
// outcome. Completed content never moves backwards: a failed re-verification
// leaves an existing COMPLETED record untouched.
func markVerified(db *gorm.DB, userID, contentID uint, completed bool, percentage float64) {
	status := courseModels.StatusInProgress
	if completed {
		status = courseModels.StatusCompleted
	} else {
		var existing courseModels.UserContentProgress
		if err := db.Where("user_id = ? AND content_id = ? AND is_deleted = ?",
			userID, contentID, false).First(&existing).Error; err == nil &&
			existing.Status == courseModels.StatusCompleted {
			return
		}
	}
	if err := SaveContentProgress(db, userID, contentID, status, percentage, 0); err != nil {
		log.Printf("[ENGINE] verify: failed to persist verification for user %d content %d: %v", userID, contentID, err)
	}
}

// SaveContentProgress upserts the (user, content) progress record
func SaveContentProgress(db *gorm.DB, userID, contentID uint, status string, percentage, score float64) error {
	now := time.Now()
	var record courseModels.UserContentProgress
	err := db.Where("user_id = ? AND content_id = ? AND is_deleted = ?",
		userID, contentID, false).First(&record).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return db.Create(&courseModels.UserContentProgress{
			UserID:          userID,
			ContentID:       contentID,
			Status:          status,
			Percentage:      percentage,
			Score:           score,
			LastInteraction: &now,
		}).Error
	}
	record.Status = status
	record.Percentage = percentage
	if score > 0 {
		record.Score = score
	}
	record.LastInteraction = &now
	return db.Save(&record).Error
}

// sortedKeys keeps unmet-state messages in a stable order
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
