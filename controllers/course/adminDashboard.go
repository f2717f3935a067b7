package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboardStats returns platform wide counters for the admin dashboard
func AdminDashboardStats(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	var totalCourses int64
	database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ?", false).Count(&totalCourses)

	var publishedCourses int64
	database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)

	var totalStudents int64
	database.Database.Db.Model(&models.User{}).
		Where("is_deleted = ? AND role = ?", false, "USER").Count(&totalStudents)

	var totalEnrollments int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("is_deleted = ?", false).Count(&totalEnrollments)

	var completedCourses int64
	database.Database.Db.Model(&courseModels.Progress{}).
		Where("is_deleted = ? AND is_completed = ?", false, true).Count(&completedCourses)

	var pendingCertificates int64
	database.Database.Db.Model(&courseModels.CertificateRequest{}).
		Where("is_deleted = ? AND status = ?", false, "PENDING").Count(&pendingCertificates)

	var issuedCertificates int64
	database.Database.Db.Model(&courseModels.Certificate{}).
		Where("is_deleted = ?", false).Count(&issuedCertificates)

	var achievementsEarned int64
	database.Database.Db.Model(&courseModels.UserAchievement{}).Count(&achievementsEarned)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"total_courses":        totalCourses,
		"published_courses":    publishedCourses,
		"total_students":       totalStudents,
		"total_enrollments":    totalEnrollments,
		"completed_courses":    completedCourses,
		"pending_certificates": pendingCertificates,
		"issued_certificates":  issuedCertificates,
		"achievements_earned":  achievementsEarned,
	})
}

// AdminGetCourseEnrollments lists all learners enrolled in a course together
// with their current progress
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrolledStudent struct {
		UserID      uint    `json:"user_id"`
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		Status      string  `json:"status"`
		Percentage  float64 `json:"percentage"`
		Points      int     `json:"points"`
		TimeSpent   int64   `json:"time_spent"`
		IsCompleted bool    `json:"is_completed"`
	}

	result := make([]EnrolledStudent, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?",
			enrollment.UserID, false).First(&user).Error; err != nil {
			continue
		}

		student := EnrolledStudent{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Status: enrollment.Status,
		}

		var progress courseModels.Progress
		if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
			enrollment.UserID, courseID, false).First(&progress).Error; err == nil {
			student.Percentage = progress.Percentage
			student.Points = progress.Points
			student.TimeSpent = progress.TimeSpent
			student.IsCompleted = progress.IsCompleted
		}

		result = append(result, student)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course enrollments fetched successfully!", fiber.Map{
		"course":      course.Title,
		"enrollments": result,
		"total":       len(result),
	})
}

// AdminGetStudentProgress lists a single learner's progress across every
// enrolled course
func AdminGetStudentProgress(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	studentID := c.Locals("studentID").(int)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", studentID, false).
		First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var progressRows []courseModels.Progress
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", studentID, false).
		Find(&progressRows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	type CourseProgress struct {
		CourseID    uint    `json:"course_id"`
		CourseTitle string  `json:"course_title"`
		Percentage  float64 `json:"percentage"`
		Points      int     `json:"points"`
		TimeSpent   int64   `json:"time_spent"`
		IsCompleted bool    `json:"is_completed"`
	}

	result := make([]CourseProgress, 0, len(progressRows))
	for _, progress := range progressRows {
		var course courseModels.Course
		if err := database.Database.Db.First(&course, progress.CourseID).Error; err != nil {
			continue
		}
		result = append(result, CourseProgress{
			CourseID:    progress.CourseID,
			CourseTitle: course.Title,
			Percentage:  progress.Percentage,
			Points:      progress.Points,
			TimeSpent:   progress.TimeSpent,
			IsCompleted: progress.IsCompleted,
		})
	}

	var achievements int64
	database.Database.Db.Model(&courseModels.UserAchievement{}).
		Where("user_id = ?", studentID).Count(&achievements)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"student": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"courses":      result,
		"achievements": achievements,
	})
}

// AdminGetPendingCertificates lists certificate requests awaiting review
func AdminGetPendingCertificates(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	var requests []courseModels.CertificateRequest
	if err := database.Database.Db.Where("status = ? AND is_deleted = ?", "PENDING", false).
		Order("requested_at asc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate requests!", nil)
	}

	type PendingRequest struct {
		courseModels.CertificateRequest
		StudentName string `json:"student_name"`
		CourseTitle string `json:"course_title"`
	}

	result := make([]PendingRequest, 0, len(requests))
	for _, request := range requests {
		item := PendingRequest{CertificateRequest: request}
		var user models.User
		if database.Database.Db.First(&user, request.UserID).Error == nil {
			item.StudentName = user.Name
		}
		var course courseModels.Course
		if database.Database.Db.First(&course, request.CourseID).Error == nil {
			item.CourseTitle = course.Title
		}
		result = append(result, item)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending certificate requests fetched successfully!", fiber.Map{
		"requests": result,
		"total":    len(result),
	})
}

// AdminGetIssuedCertificates lists all issued certificates
func AdminGetIssuedCertificates(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	type IssuedCertificate struct {
		courseModels.Certificate
		StudentName string `json:"student_name"`
		CourseTitle string `json:"course_title"`
	}

	result := make([]IssuedCertificate, 0, len(certificates))
	for _, cert := range certificates {
		item := IssuedCertificate{Certificate: cert}
		var user models.User
		if database.Database.Db.First(&user, cert.UserID).Error == nil {
			item.StudentName = user.Name
		}
		var course courseModels.Course
		if database.Database.Db.First(&course, cert.CourseID).Error == nil {
			item.CourseTitle = course.Title
		}
		result = append(result, item)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Issued certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}
