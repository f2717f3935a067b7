package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up course management routes for admins and instructors
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware)

	// Dashboard
	adminGroup.Get("/dashboard", middleware.CheckPermissionMiddleware("view-dashboard"), controllers.AdminDashboardStats)
	adminGroup.Get("/course/:courseId/enrollments", middleware.CheckPermissionMiddleware("view-dashboard"), validators.CourseID(), controllers.AdminGetCourseEnrollments)
	adminGroup.Get("/student/:studentId/progress", middleware.CheckPermissionMiddleware("view-dashboard"), validators.StudentID(), controllers.AdminGetStudentProgress)

	// Courses
	adminGroup.Get("/course/list", middleware.CheckPermissionMiddleware("manage-courses"), validators.AdminList(), controllers.AdminGetCourses)
	adminGroup.Post("/course", middleware.CheckPermissionMiddleware("manage-courses"), validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Patch("/course/:courseId", middleware.CheckPermissionMiddleware("manage-courses"), validators.CourseID(), validators.UpdateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/course/:courseId", middleware.CheckPermissionMiddleware("manage-courses"), validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Patch("/course/:courseId/publish", middleware.CheckPermissionMiddleware("manage-courses"), validators.CourseID(), validators.PublishStatus(), controllers.AdminPublishCourse)

	// Lessons
	adminGroup.Post("/course/:courseId/lesson", middleware.CheckPermissionMiddleware("manage-courses"), validators.CourseID(), validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Patch("/course/:courseId/lesson/:lessonId", middleware.CheckPermissionMiddleware("manage-courses"), validators.CourseID(), validators.LessonID(), validators.UpdateLesson(), controllers.AdminUpdateLesson)
	adminGroup.Delete("/course/:courseId/lesson/:lessonId", middleware.CheckPermissionMiddleware("manage-courses"), validators.CourseID(), validators.LessonID(), controllers.AdminDeleteLesson)
	adminGroup.Get("/course/:courseId/lesson/:lessonId/content", middleware.CheckPermissionMiddleware("manage-content"), validators.CourseID(), validators.LessonID(), controllers.AdminGetLessonContent)

	// Content
	adminGroup.Post("/course/:courseId/lesson/:lessonId/content", middleware.CheckPermissionMiddleware("manage-content"), validators.CourseID(), validators.LessonID(), validators.CreateContent(), controllers.AdminCreateContent)
	adminGroup.Patch("/content/:contentId", middleware.CheckPermissionMiddleware("manage-content"), validators.ContentID(), validators.UpdateContent(), controllers.AdminUpdateContent)
	adminGroup.Delete("/content/:contentId", middleware.CheckPermissionMiddleware("manage-content"), validators.ContentID(), controllers.AdminDeleteContent)
	adminGroup.Patch("/content/:contentId/publish", middleware.CheckPermissionMiddleware("manage-content"), validators.ContentID(), validators.PublishStatus(), controllers.AdminPublishContent)

	// Assessment configuration
	adminGroup.Put("/content/:contentId/assessment", middleware.CheckPermissionMiddleware("manage-content"), validators.ContentID(), validators.ConfigureAssessment(), controllers.AdminConfigureAssessment)
	adminGroup.Post("/content/:contentId/question", middleware.CheckPermissionMiddleware("manage-content"), validators.ContentID(), validators.AddQuestion(), controllers.AdminAddQuestion)
	adminGroup.Delete("/question/:questionId", middleware.CheckPermissionMiddleware("manage-content"), validators.QuestionID(), controllers.AdminDeleteQuestion)

	// Achievements
	adminGroup.Get("/achievement/list", middleware.CheckPermissionMiddleware("manage-achievements"), controllers.AdminListAchievements)
	adminGroup.Post("/achievement", middleware.CheckPermissionMiddleware("manage-achievements"), validators.CreateAchievement(), controllers.AdminCreateAchievement)
	adminGroup.Patch("/achievement/:achievementId", middleware.CheckPermissionMiddleware("manage-achievements"), validators.AchievementID(), validators.UpdateAchievement(), controllers.AdminUpdateAchievement)
	adminGroup.Delete("/achievement/:achievementId", middleware.CheckPermissionMiddleware("manage-achievements"), validators.AchievementID(), controllers.AdminDeleteAchievement)

	// Certificates
	adminGroup.Get("/certificate/pending", middleware.CheckPermissionMiddleware("view-dashboard"), controllers.AdminGetPendingCertificates)
	adminGroup.Get("/certificate/issued", middleware.CheckPermissionMiddleware("view-dashboard"), controllers.AdminGetIssuedCertificates)
	adminGroup.Patch("/certificate/:requestId/approve", middleware.CheckPermissionMiddleware("view-dashboard"), validators.RequestID(), controllers.ApproveCertificateRequest)
	adminGroup.Patch("/certificate/:requestId/reject", middleware.CheckPermissionMiddleware("view-dashboard"), validators.RequestID(), controllers.RejectCertificateRequest)
}
