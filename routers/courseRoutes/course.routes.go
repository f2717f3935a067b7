package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (published courses only)
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.ListCourses(), controllers.GetAllCourses)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:courseId/enroll", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("enroll-course"), validators.CourseID(), controllers.EnrollInCourse)

	// Lesson content (enrolled learners only)
	courseGroup.Get("/:courseId/lesson/:lessonId/content", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), controllers.GetLessonContent)

	// Progress tracking
	courseGroup.Get("/:courseId/progress", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("track-progress"), validators.CourseID(), controllers.GetUserProgress)
	courseGroup.Post("/content/:contentId/complete", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("track-progress"), validators.ContentID(), controllers.MarkContentComplete)
	courseGroup.Post("/:courseId/study-time", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("track-progress"), validators.CourseID(), controllers.AddStudyTime)

	// Reviews
	courseGroup.Post("/review", middleware.JWTMiddleware, validators.CreateReview(), controllers.CreateCourseReview)
	courseGroup.Get("/:courseId/reviews", middleware.JWTMiddleware, validators.ListReviews(), controllers.GetCourseReviews)

	// Certificate request
	courseGroup.Post("/:courseId/certificate/request", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("request-certificate"), validators.CourseID(), controllers.RequestCertificate)

	// Assessment lifecycle
	assessmentGroup := app.Group("/assessment")
	assessmentGroup.Post("/:contentId/start", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("take-assessment"), validators.ContentID(), controllers.StartAssessment)
	assessmentGroup.Post("/:contentId/answer", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("take-assessment"), validators.ContentID(), controllers.SubmitAnswer)
	assessmentGroup.Post("/:contentId/complete", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("take-assessment"), validators.ContentID(), controllers.CompleteAssessment)
	assessmentGroup.Get("/:contentId/attempts", middleware.JWTMiddleware, validators.ContentID(), controllers.GetAttemptHistory)

	// Interactive content state
	interactiveGroup := app.Group("/interactive")
	interactiveGroup.Patch("/:contentId/state", middleware.JWTMiddleware, validators.ContentID(), controllers.UpdateInteractiveState)
	interactiveGroup.Get("/:contentId/state", middleware.JWTMiddleware, validators.ContentID(), controllers.GetInteractiveState)
	interactiveGroup.Get("/:contentId/verify", middleware.JWTMiddleware, validators.ContentID(), controllers.VerifyContentCompletion)
}
