package userProfileRoutes

import (
	controllers "lms/controllers/course"
	userProfileController "lms/controllers/userControllers"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("view-profile"), userProfileController.GetProfile)
	userGroup.Patch("/profile", middleware.JWTMiddleware, userProfileController.UpdateProfile)
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userGroup.Get("/achievements", middleware.JWTMiddleware, controllers.GetUserAchievements)
	userGroup.Get("/achievements/all", middleware.JWTMiddleware, controllers.GetAchievements)
}
