package engine

import (
	"encoding/json"
	"log"
	"time"

	courseModels "lms/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Interaction event types written by the assessment session manager
const (
	EventAssessmentStart    = "assessment_start"
	EventAnswerSubmitted    = "answer_submitted"
	EventAssessmentComplete = "assessment_complete"
)

// StartResult describes a freshly started assessment attempt
type StartResult struct {
	AttemptNumber   int        `json:"attempt_number"`
	AttemptsAllowed int        `json:"attempts_allowed"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	QuestionCount   int        `json:"question_count"`
}

// QuestionOutcome is the per-question grading result of a completed attempt
type QuestionOutcome struct {
	QuestionID   uint `json:"question_id"`
	Answered     bool `json:"answered"`
	IsCorrect    bool `json:"is_correct"`
	PointsEarned int  `json:"points_earned"`
	Points       int  `json:"points"`
}

// AssessmentResult summarizes a completed attempt
type AssessmentResult struct {
	Score            float64           `json:"score"`
	Passed           bool              `json:"passed"`
	EarnedPoints     int               `json:"earned_points"`
	MaxPoints        int               `json:"max_points"`
	Questions        []QuestionOutcome `json:"questions"`
	CourseCompleted  bool              `json:"course_completed"`
	CoursePercentage float64           `json:"course_percentage"`
}

// Attempt is one start-to-complete cycle reconstructed from the interaction
// event log
type Attempt struct {
	Number      int        `json:"number"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Score       *float64   `json:"score,omitempty"`
	Passed      *bool      `json:"passed,omitempty"`
}

// StartAssessment opens a new attempt. The attempt counter increments
// eagerly through a conditional update guarded by attempts_allowed, so a
// started-but-never-finished attempt is still consumed and two concurrent
// starts cannot oversubscribe the limit.
func StartAssessment(db *gorm.DB, userID, contentID uint) (*StartResult, error) {
	assessment, err := loadAssessment(db, contentID)
	if err != nil {
		return nil, err
	}

	attemptNumber, err := consumeAttempt(db, userID, contentID, assessment.AttemptsAllowed)
	if err != nil {
		return nil, err
	}

	// The open-attempt marker is what CompleteAssessment requires; starting
	// again before finishing replaces the open attempt with the new one
	if err := SetNumericState(db, userID, contentID, courseModels.StateKeyOpenAttempt, float64(attemptNumber)); err != nil {
		return nil, err
	}

	var endTime *time.Time
	if assessment.TimeLimitMinutes > 0 {
		t := time.Now().Add(time.Duration(assessment.TimeLimitMinutes) * time.Minute)
		endTime = &t
		if err := SetNumericState(db, userID, contentID, courseModels.StateKeyDeadline, float64(t.Unix())); err != nil {
			log.Printf("[ENGINE] assessment: failed to store deadline for user %d content %d: %v", userID, contentID, err)
		}
	}

	if err := RecordInteraction(db, userID, contentID, InteractionEvent{
		Type:    EventAssessmentStart,
		Attempt: attemptNumber,
	}); err != nil {
		log.Printf("[ENGINE] assessment: failed to record start for user %d content %d: %v", userID, contentID, err)
	}

	if err := SaveContentProgress(db, userID, contentID, courseModels.StatusInProgress, 0, 0); err != nil {
		log.Printf("[ENGINE] assessment: failed to mark in progress for user %d content %d: %v", userID, contentID, err)
	}

	var questionCount int64
	db.Model(&courseModels.Question{}).
		Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).Count(&questionCount)

	return &StartResult{
		AttemptNumber:   attemptNumber,
		AttemptsAllowed: assessment.AttemptsAllowed,
		EndTime:         endTime,
		QuestionCount:   int(questionCount),
	}, nil
}

// consumeAttempt atomically increments the attempts_used counter while it is
// below the limit. A limit of zero means unlimited attempts.
func consumeAttempt(db *gorm.DB, userID, contentID uint, allowed int) (int, error) {
	counter := GetState(db, userID, contentID, courseModels.StateKeyAttemptsUsed)
	if counter == nil {
		if err := SetNumericState(db, userID, contentID, courseModels.StateKeyAttemptsUsed, 1); err == nil {
			return 1, nil
		}
		// Creation lost a race with another start; fall through to the
		// conditional increment against the existing row
	}

	query := db.Model(&courseModels.ContentState{}).
		Where("user_id = ? AND content_id = ? AND state_key = ? AND is_deleted = ?",
			userID, contentID, courseModels.StateKeyAttemptsUsed, false)
	if allowed > 0 {
		query = query.Where("numeric_value < ?", float64(allowed))
	}
	result := query.UpdateColumn("numeric_value", gorm.Expr("numeric_value + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrAttemptsExhausted
	}

	counter = GetState(db, userID, contentID, courseModels.StateKeyAttemptsUsed)
	if counter == nil || counter.NumericValue == nil {
		return 0, ErrNotFound
	}
	return int(*counter.NumericValue), nil
}

// SubmitAnswer grades one question and persists the user's answer. The last
// submission for a question wins.
func SubmitAnswer(db *gorm.DB, userID, contentID, questionID uint, answer interface{}) (*courseModels.UserAnswer, error) {
	assessment, err := loadAssessment(db, contentID)
	if err != nil {
		return nil, err
	}

	var question courseModels.Question
	if err := db.Where("id = ? AND assessment_id = ? AND is_deleted = ?",
		questionID, assessment.ID, false).First(&question).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	isCorrect, pointsEarned := EvaluateAnswer(question, answer)

	raw, err := json.Marshal(answer)
	if err != nil {
		return nil, err
	}

	record := courseModels.UserAnswer{
		UserID:       userID,
		QuestionID:   questionID,
		Answer:       datatypes.JSON(raw),
		IsCorrect:    isCorrect,
		PointsEarned: pointsEarned,
	}

	var existing courseModels.UserAnswer
	if err := db.Where("user_id = ? AND question_id = ? AND is_deleted = ?",
		userID, questionID, false).First(&existing).Error; err == nil {
		existing.Answer = record.Answer
		existing.IsCorrect = isCorrect
		existing.PointsEarned = pointsEarned
		if err := db.Save(&existing).Error; err != nil {
			return nil, err
		}
		record = existing
	} else {
		if err := db.Create(&record).Error; err != nil {
			return nil, err
		}
	}

	if err := RecordInteraction(db, userID, contentID, InteractionEvent{
		Type: EventAnswerSubmitted,
		Data: map[string]interface{}{
			"question_id": questionID,
			"is_correct":  isCorrect,
		},
	}); err != nil {
		log.Printf("[ENGINE] assessment: failed to record answer event for user %d content %d: %v", userID, contentID, err)
	}

	return &record, nil
}

// CompleteAssessment grades the whole attempt. Unanswered questions count
// their full points toward the maximum and zero toward earned. Submissions
// after the recorded end_time are rejected.
func CompleteAssessment(db *gorm.DB, policy WeightPolicy, userID, contentID uint) (*AssessmentResult, error) {
	assessment, err := loadAssessment(db, contentID)
	if err != nil {
		return nil, err
	}

	// Completion is only legal for the attempt StartAssessment opened
	open := GetState(db, userID, contentID, courseModels.StateKeyOpenAttempt)
	if open == nil || open.NumericValue == nil || *open.NumericValue <= 0 {
		return nil, ErrNoOpenAttempt
	}
	attemptNumber := int(*open.NumericValue)

	if deadline := GetState(db, userID, contentID, courseModels.StateKeyDeadline); deadline != nil && deadline.NumericValue != nil {
		if time.Now().Unix() > int64(*deadline.NumericValue) {
			return nil, ErrDeadlinePassed
		}
	}

	var questions []courseModels.Question
	if err := db.Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).
		Order("order_index asc").Find(&questions).Error; err != nil {
		return nil, err
	}

	answers := make(map[uint]courseModels.UserAnswer)
	if len(questions) > 0 {
		ids := make([]uint, len(questions))
		for i, q := range questions {
			ids[i] = q.ID
		}
		var rows []courseModels.UserAnswer
		if err := db.Where("user_id = ? AND question_id IN ? AND is_deleted = ?",
			userID, ids, false).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			answers[row.QuestionID] = row
		}
	}

	result := &AssessmentResult{Questions: make([]QuestionOutcome, 0, len(questions))}
	for _, question := range questions {
		outcome := QuestionOutcome{QuestionID: question.ID, Points: question.Points}
		result.MaxPoints += question.Points
		if answer, ok := answers[question.ID]; ok {
			outcome.Answered = true
			outcome.IsCorrect = answer.IsCorrect
			outcome.PointsEarned = answer.PointsEarned
			result.EarnedPoints += answer.PointsEarned
		}
		result.Questions = append(result.Questions, outcome)
	}

	if result.MaxPoints > 0 {
		result.Score = float64(result.EarnedPoints) / float64(result.MaxPoints) * 100
	}
	result.Passed = result.Score >= assessment.PassingScore

	if err := RecordInteraction(db, userID, contentID, InteractionEvent{
		Type:    EventAssessmentComplete,
		Attempt: attemptNumber,
		Data: map[string]interface{}{
			"score":  result.Score,
			"passed": result.Passed,
		},
	}); err != nil {
		log.Printf("[ENGINE] assessment: failed to record completion for user %d content %d: %v", userID, contentID, err)
	}

	percentage, courseCompleted, err := SyncContentCompletion(db, policy, userID, contentID, result.Score)
	if err != nil {
		return nil, err
	}
	result.CoursePercentage = percentage
	result.CourseCompleted = courseCompleted

	if err := SetNumericState(db, userID, contentID, courseModels.StateKeyOpenAttempt, 0); err != nil {
		log.Printf("[ENGINE] assessment: failed to close attempt for user %d content %d: %v", userID, contentID, err)
	}

	return result, nil
}

// AttemptHistory rebuilds the attempt list purely from the start/complete
// interaction events. Completions are correlated by attempt number; a single
// completion without one attaches to the most recent start.
func AttemptHistory(db *gorm.DB, userID, contentID uint) []Attempt {
	events := InteractionHistory(db, userID, contentID)

	var attempts []Attempt
	index := make(map[int]int) // attempt number -> position in attempts
	var unnumbered []InteractionEvent

	for _, event := range events {
		switch event.Type {
		case EventAssessmentStart:
			attempts = append(attempts, Attempt{Number: event.Attempt, StartedAt: event.Timestamp})
			index[event.Attempt] = len(attempts) - 1
		case EventAssessmentComplete:
			if pos, ok := index[event.Attempt]; ok && event.Attempt > 0 {
				applyCompletion(&attempts[pos], event)
			} else {
				unnumbered = append(unnumbered, event)
			}
		}
	}

	// A lone completion without an attempt number belongs to the latest start
	if len(unnumbered) == 1 && len(attempts) > 0 {
		applyCompletion(&attempts[len(attempts)-1], unnumbered[0])
	}

	return attempts
}

func applyCompletion(attempt *Attempt, event InteractionEvent) {
	ts := event.Timestamp
	attempt.CompletedAt = &ts
	if score, ok := event.Data["score"].(float64); ok {
		attempt.Score = &score
	}
	if passed, ok := event.Data["passed"].(bool); ok {
		attempt.Passed = &passed
	}
}

// loadAssessment resolves the assessment rules behind a content item
func loadAssessment(db *gorm.DB, contentID uint) (*courseModels.Assessment, error) {
	var item courseModels.ContentItem
	if err := db.Where("id = ? AND is_deleted = ?", contentID, false).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.ContentType != courseModels.ContentAssessment && item.ContentType != courseModels.ContentQuiz {
		return nil, ErrNotAssessment
	}

	var assessment courseModels.Assessment
	if err := db.Where("content_id = ? AND is_deleted = ?", contentID, false).First(&assessment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &assessment, nil
}
