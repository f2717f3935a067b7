package controllers

import (
	"fmt"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestCertificate requests a certificate for a completed course
func RequestCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Completion is judged by the progress aggregate, not the enrollment flag
	var progress courseModels.Progress
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "No progress found for this course!", nil)
	}

	if !progress.IsCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please complete the course before requesting a certificate!", nil)
	}

	// Check if certificate already requested
	var existingRequest courseModels.CertificateRequest
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&existingRequest).Error; err == nil {
		if existingRequest.Status == "PENDING" {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already pending!", nil)
		}
		if existingRequest.Status == "APPROVED" {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already issued!", nil)
		}
	}

	// Check if certificate already exists
	var existingCert courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&existingCert).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already exists!", fiber.Map{
			"certificate": existingCert,
		})
	}

	request := courseModels.CertificateRequest{
		UserID:      userID,
		CourseID:    uint(courseID),
		ProgressID:  progress.ID,
		Status:      "PENDING",
		RequestedAt: time.Now(),
	}

	if err := database.Database.Db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit certificate request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate request submitted successfully!", request)
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseName string `json:"course_name"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseName:  course.Title,
		}
	}

	// Also get pending requests
	var pendingRequests []courseModels.CertificateRequest
	database.Database.Db.Where("user_id = ? AND status = ? AND is_deleted = ?",
		userID, "PENDING", false).Find(&pendingRequests)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates":     result,
		"pending_requests": len(pendingRequests),
	})
}

// ApproveCertificateRequest issues a certificate for a pending request.
// Admin only.
func ApproveCertificateRequest(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}
	if request.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already processed!", nil)
	}

	now := time.Now()
	certificate := courseModels.Certificate{
		UserID:            request.UserID,
		CourseID:          request.CourseID,
		CertificateNumber: fmt.Sprintf("CERT-%s", uuid.New().String()),
		IssuedAt:          now,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&certificate).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	request.Status = "APPROVED"
	request.ApprovedAt = &now
	request.ApprovedBy = &adminID
	if err := tx.Save(&request).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update request!", nil)
	}
	tx.Commit()

	var user models.User
	var course courseModels.Course
	if database.Database.Db.First(&user, request.UserID).Error == nil &&
		database.Database.Db.First(&course, request.CourseID).Error == nil {
		go utils.SendCertificateEmail(user.Email, user.Name, course.Title, certificate.CertificateNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", certificate)
}

// RejectCertificateRequest rejects a pending request with a reason. Admin only.
func RejectCertificateRequest(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)

	reqData := new(struct {
		Reason string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}
	if request.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already processed!", nil)
	}

	request.Status = "REJECTED"
	request.RejectionReason = reqData.Reason
	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request rejected.", request)
}
