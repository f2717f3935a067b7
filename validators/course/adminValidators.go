package courseValidator

import (
	"strings"

	controllers "lms/controllers/course"
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// structErrors maps validator.v10 failures into the shared errors response
func structErrors(err error) map[string]string {
	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			field := strings.ToLower(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				errors[field] = "This field is required!"
			case "min":
				errors[field] = "Value is too short!"
			case "oneof":
				errors[field] = "Value must be one of: " + fieldError.Param()
			case "gte":
				errors[field] = "Value must be at least " + fieldError.Param() + "!"
			case "lte":
				errors[field] = "Value must be at most " + fieldError.Param() + "!"
			default:
				errors[field] = "Invalid value!"
			}
		}
	}
	return errors
}

// AdminList validates pagination for admin listings
func AdminList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request!", nil)
		}

		// Admin listings fall back to defaults when pagination is absent
		c.Locals("validatedAdminList", reqData)
		return c.Next()
	}
}

// CreateCourse validates the admin course creation body
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			Author       string `json:"author"`
			Duration     int64  `json:"duration"`
			ThumbnailURL string `json:"thumbnail_url"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the admin course update body
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			Author       string `json:"author"`
			Duration     int64  `json:"duration"`
			ThumbnailURL string `json:"thumbnail_url"`
			Status       string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Status != "" {
			switch strings.ToUpper(reqData.Status) {
			case "DRAFT", "ACTIVE", "INACTIVE":
				reqData.Status = strings.ToUpper(reqData.Status)
			default:
				errors["status"] = "Status must be DRAFT, ACTIVE or INACTIVE!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// PublishStatus validates the publish toggle body
func PublishStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Publish *bool `json:"publish"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Publish == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"publish": "Publish flag is required!",
			})
		}

		c.Locals("publishStatus", *reqData.Publish)
		return c.Next()
	}
}

// CreateLesson validates the admin lesson creation body
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Difficulty  string `json:"difficulty"`
			OrderIndex  int    `json:"order_index"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Difficulty != "" && !isValidDifficulty(reqData.Difficulty) {
			errors["difficulty"] = "Difficulty must be BEGINNER, INTERMEDIATE, ADVANCED or EXPERT!"
		}

		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// UpdateLesson validates the admin lesson update body
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Difficulty  string `json:"difficulty"`
			OrderIndex  int    `json:"order_index"`
			IsPublished *bool  `json:"is_published"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Difficulty != "" && !isValidDifficulty(reqData.Difficulty) {
			errors["difficulty"] = "Difficulty must be BEGINNER, INTERMEDIATE, ADVANCED or EXPERT!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

func isValidDifficulty(difficulty string) bool {
	switch difficulty {
	case "BEGINNER", "INTERMEDIATE", "ADVANCED", "EXPERT":
		return true
	}
	return false
}

// CreateContent validates the admin content creation body
func CreateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.ContentPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

// UpdateContent validates the admin content update body. Only provided
// fields are checked since updates are partial.
func UpdateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.ContentPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.ContentType != "" {
			if err := validate.Var(reqData.ContentType, "oneof=THEORY EXERCISE QUIZ ASSESSMENT INTERACTIVE RESOURCE"); err != nil {
				errors["content_type"] = "Invalid content type!"
			}
		}

		if reqData.Importance < 0 || reqData.Importance > 10 {
			errors["importance"] = "Importance must be between 0 and 10!"
		}

		if reqData.Points < 0 {
			errors["points"] = "Points cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContentUpdate", reqData)
		return c.Next()
	}
}

// ConfigureAssessment validates the assessment configuration body
func ConfigureAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.AssessmentPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedAssessment", reqData)
		return c.Next()
	}
}

// AddQuestion validates the question creation body. Choice based questions
// need options, graded questions need a correct answer.
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.QuestionPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		errors := make(map[string]string)

		switch reqData.AnswerType {
		case "MULTIPLE_CHOICE":
			if len(reqData.Options) < 2 {
				errors["options"] = "Multiple choice questions need at least 2 options!"
			}
			if reqData.CorrectAnswer == nil {
				errors["correct_answer"] = "Correct answer is required!"
			}
		case "TRUE_FALSE", "MATHEMATICAL", "MATCHING", "CODE":
			if reqData.CorrectAnswer == nil {
				errors["correct_answer"] = "Correct answer is required!"
			}
		case "OPEN_ENDED":
			if reqData.CorrectAnswer == nil && len(reqData.AcceptableAnswers) == 0 {
				errors["correct_answer"] = "Provide a correct answer or acceptable answers!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// QuestionID validates the :questionId route parameter
func QuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "questionId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
		}
		c.Locals("questionID", id)
		return c.Next()
	}
}

// RequestID validates the :requestId route parameter
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "requestId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request ID!", nil)
		}
		c.Locals("requestID", id)
		return c.Next()
	}
}

// AchievementID validates the :achievementId route parameter
func AchievementID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "achievementId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid achievement ID!", nil)
		}
		c.Locals("achievementID", id)
		return c.Next()
	}
}

// StudentID validates the :studentId route parameter
func StudentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "studentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student ID!", nil)
		}
		c.Locals("studentID", id)
		return c.Next()
	}
}

// CreateAchievement validates the achievement creation body
func CreateAchievement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.AchievementPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedAchievement", reqData)
		return c.Next()
	}
}

// UpdateAchievement validates the achievement update body. Partial updates
// only check provided fields.
func UpdateAchievement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.AchievementPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name != "" && len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}

		if reqData.CriteriaType != "" {
			if err := validate.Var(reqData.CriteriaType, "oneof=COURSE_COMPLETION POINTS STREAK TIME PERFECT_SCORE"); err != nil {
				errors["criteria_type"] = "Invalid criteria type!"
			}
		}

		if reqData.Points < 0 {
			errors["points"] = "Points cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAchievementUpdate", reqData)
		return c.Next()
	}
}
