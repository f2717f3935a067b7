package controllers

import (
	"encoding/json"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// ContentPayload is the admin create/update body for a content item
type ContentPayload struct {
	Title                string                 `json:"title" validate:"required,min=3"`
	Description          string                 `json:"description"`
	ContentType          string                 `json:"content_type" validate:"required,oneof=THEORY EXERCISE QUIZ ASSESSMENT INTERACTIVE RESOURCE"`
	TextContent          string                 `json:"text_content"`
	VideoURL             string                 `json:"video_url"`
	ResourceURL          string                 `json:"resource_url"`
	Importance           float64                `json:"importance" validate:"gte=0,lte=10"`
	Points               int                    `json:"points" validate:"gte=0"`
	VerificationCriteria map[string]interface{} `json:"verification_criteria"`
	OrderIndex           int                    `json:"order_index"`
}

// QuestionPayload is the admin body for adding or updating a question
type QuestionPayload struct {
	AnswerType        string      `json:"answer_type" validate:"required,oneof=MULTIPLE_CHOICE TRUE_FALSE OPEN_ENDED MATHEMATICAL MATCHING CODE"`
	Prompt            string      `json:"prompt" validate:"required,min=3"`
	Options           []string    `json:"options"`
	CorrectAnswer     interface{} `json:"correct_answer"`
	AcceptableAnswers []string    `json:"acceptable_answers"`
	Points            int         `json:"points" validate:"gte=1"`
	OrderIndex        int         `json:"order_index"`
}

// AssessmentPayload configures the grading rules of a content item
type AssessmentPayload struct {
	TimeLimitMinutes int     `json:"time_limit_minutes" validate:"gte=0"`
	PassingScore     float64 `json:"passing_score" validate:"gte=0,lte=100"`
	AttemptsAllowed  int     `json:"attempts_allowed" validate:"gte=0"`
}

// AdminCreateContent creates a content item inside a lesson
func AdminCreateContent(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?",
		lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedContent").(*ContentPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Get the next order index if not provided
	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.ContentItem{}).
			Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	importance := reqData.Importance
	if importance == 0 {
		importance = 1.0
	}

	content := courseModels.ContentItem{
		CourseID:    uint(courseID),
		LessonID:    uint(lessonID),
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		ResourceURL: reqData.ResourceURL,
		Importance:  importance,
		Points:      reqData.Points,
		OrderIndex:  orderIndex,
		IsPublished: false,
	}

	if len(reqData.VerificationCriteria) > 0 {
		raw, err := json.Marshal(reqData.VerificationCriteria)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid verification criteria!", nil)
		}
		content.VerificationCriteria = datatypes.JSON(raw)
	}

	if err := database.Database.Db.Create(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", content)
}

// AdminUpdateContent updates a content item
func AdminUpdateContent(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	reqData, ok := c.Locals("validatedContentUpdate").(*ContentPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		content.Title = reqData.Title
	}
	if reqData.Description != "" {
		content.Description = reqData.Description
	}
	if reqData.ContentType != "" {
		content.ContentType = reqData.ContentType
	}
	if reqData.TextContent != "" {
		content.TextContent = reqData.TextContent
	}
	if reqData.VideoURL != "" {
		content.VideoURL = reqData.VideoURL
	}
	if reqData.ResourceURL != "" {
		content.ResourceURL = reqData.ResourceURL
	}
	if reqData.Importance > 0 {
		content.Importance = reqData.Importance
	}
	if reqData.Points > 0 {
		content.Points = reqData.Points
	}
	if reqData.OrderIndex > 0 {
		content.OrderIndex = reqData.OrderIndex
	}
	if len(reqData.VerificationCriteria) > 0 {
		raw, err := json.Marshal(reqData.VerificationCriteria)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid verification criteria!", nil)
		}
		content.VerificationCriteria = datatypes.JSON(raw)
	}

	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully!", content)
}

// AdminDeleteContent soft deletes a content item and its questions
func AdminDeleteContent(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	tx := database.Database.Db.Begin()

	content.IsDeleted = true
	if err := tx.Save(&content).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete content!", nil)
	}

	// Cascade to the grading rules when they exist
	var assessment courseModels.Assessment
	if err := tx.Where("content_id = ? AND is_deleted = ?", contentID, false).First(&assessment).Error; err == nil {
		assessment.IsDeleted = true
		if err := tx.Save(&assessment).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete assessment!", nil)
		}
		if err := tx.Model(&courseModels.Question{}).Where("assessment_id = ?", assessment.ID).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete questions!", nil)
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully!", nil)
}

// AdminPublishContent publishes or unpublishes a content item
func AdminPublishContent(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	contentID := c.Locals("contentID").(int)
	publishStatus := c.Locals("publishStatus").(bool)

	var content courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	// Gradable content needs rules and at least one question before publishing
	if publishStatus && (content.ContentType == courseModels.ContentQuiz || content.ContentType == courseModels.ContentAssessment) {
		var assessment courseModels.Assessment
		if err := database.Database.Db.Where("content_id = ? AND is_deleted = ?", contentID, false).First(&assessment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Configure the assessment before publishing!", nil)
		}

		var questionCount int64
		database.Database.Db.Model(&courseModels.Question{}).
			Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).Count(&questionCount)
		if questionCount == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Assessment must have at least one question before publishing!", nil)
		}
	}

	content.IsPublished = publishStatus
	if err := database.Database.Db.Save(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content!", nil)
	}

	message := "Content unpublished successfully!"
	if publishStatus {
		message = "Content published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, content)
}

// AdminConfigureAssessment creates or updates the grading rules of a
// quiz/assessment content item
func AdminConfigureAssessment(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	if content.ContentType != courseModels.ContentQuiz && content.ContentType != courseModels.ContentAssessment {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an assessment!", nil)
	}

	reqData, ok := c.Locals("validatedAssessment").(*AssessmentPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var assessment courseModels.Assessment
	err := database.Database.Db.Where("content_id = ? AND is_deleted = ?", contentID, false).First(&assessment).Error
	if err == nil {
		assessment.TimeLimitMinutes = reqData.TimeLimitMinutes
		assessment.PassingScore = reqData.PassingScore
		assessment.AttemptsAllowed = reqData.AttemptsAllowed
		if err := database.Database.Db.Save(&assessment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assessment!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment updated successfully!", assessment)
	}

	assessment = courseModels.Assessment{
		ContentID:        uint(contentID),
		TimeLimitMinutes: reqData.TimeLimitMinutes,
		PassingScore:     reqData.PassingScore,
		AttemptsAllowed:  reqData.AttemptsAllowed,
	}
	if err := database.Database.Db.Create(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assessment configured successfully!", assessment)
}

// AdminAddQuestion adds a question to an assessment
func AdminAddQuestion(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	contentID := c.Locals("contentID").(int)

	var assessment courseModels.Assessment
	if err := database.Database.Db.Where("content_id = ? AND is_deleted = ?", contentID, false).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Configure the assessment before adding questions!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*QuestionPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Get the next order index if not provided
	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Question{}).
			Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	question := courseModels.Question{
		AssessmentID: assessment.ID,
		AnswerType:   reqData.AnswerType,
		Prompt:       reqData.Prompt,
		Points:       reqData.Points,
		OrderIndex:   orderIndex,
	}

	if len(reqData.Options) > 0 {
		raw, _ := json.Marshal(reqData.Options)
		question.Options = datatypes.JSON(raw)
	}
	if reqData.CorrectAnswer != nil {
		raw, err := json.Marshal(reqData.CorrectAnswer)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid correct answer!", nil)
		}
		question.CorrectAnswer = datatypes.JSON(raw)
	}
	if len(reqData.AcceptableAnswers) > 0 {
		raw, _ := json.Marshal(reqData.AcceptableAnswers)
		question.AcceptableAnswers = datatypes.JSON(raw)
	}

	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// AdminDeleteQuestion soft deletes a question
func AdminDeleteQuestion(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	questionID := c.Locals("questionID").(int)

	var question courseModels.Question
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	question.IsDeleted = true
	if err := database.Database.Db.Save(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// AdminGetLessonContent lists a lesson's content with grading setup
func AdminGetLessonContent(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?",
		lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var contents []courseModels.ContentItem
	if err := database.Database.Db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).
		Order("order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content!", nil)
	}

	type AdminContent struct {
		courseModels.ContentItem
		Assessment *courseModels.Assessment `json:"assessment,omitempty"`
		Questions  []courseModels.Question  `json:"questions,omitempty"`
	}

	result := make([]AdminContent, len(contents))
	for i, content := range contents {
		result[i] = AdminContent{ContentItem: content}

		if content.ContentType == courseModels.ContentQuiz || content.ContentType == courseModels.ContentAssessment {
			var assessment courseModels.Assessment
			if err := database.Database.Db.Where("content_id = ? AND is_deleted = ?",
				content.ID, false).First(&assessment).Error; err == nil {
				result[i].Assessment = &assessment

				var questions []courseModels.Question
				database.Database.Db.Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).
					Order("order_index asc").Find(&questions)
				result[i].Questions = questions
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully!", fiber.Map{
		"lesson":        lesson,
		"contents":      result,
		"total_content": len(contents),
	})
}
