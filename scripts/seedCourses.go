package main

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"

	"gorm.io/datatypes"
)

// Imports courses from Courses.csv and seeds the default achievement set.
// Safe to run more than once, existing rows are updated in place.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	seedAchievements()

	// Open CSV file
	file, err := os.Open("Courses.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	// Skip header row
	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	inserted := 0
	updated := 0
	skipped := 0

	for _, row := range records[1:] {
		course := courseModels.Course{
			Title:        getField(row, headerIndex, "title"),
			Description:  getField(row, headerIndex, "description"),
			Author:       getField(row, headerIndex, "author"),
			Duration:     int64(parseInt(getField(row, headerIndex, "duration"))),
			ThumbnailURL: getField(row, headerIndex, "thumbnailUrl"),
			Status:       "DRAFT",
		}

		if course.Title == "" {
			skipped++
			continue
		}

		var existing courseModels.Course
		result := database.Database.Db.Where("title = ? AND is_deleted = ?", course.Title, false).First(&existing)

		if result.Error != nil {
			if err := database.Database.Db.Create(&course).Error; err != nil {
				log.Printf("Error inserting course %s: %v", course.Title, err)
				continue
			}
			inserted++
		} else {
			existing.Description = course.Description
			existing.Author = course.Author
			existing.Duration = course.Duration
			existing.ThumbnailURL = course.ThumbnailURL

			if err := database.Database.Db.Save(&existing).Error; err != nil {
				log.Printf("Error updating course %s: %v", course.Title, err)
				continue
			}
			updated++
		}
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Updated: %d", updated)
	log.Printf("Skipped: %d", skipped)
	log.Printf("Total processed: %d", inserted+updated+skipped)
}

// seedAchievements creates the default achievement set if missing
func seedAchievements() {
	type seed struct {
		Name         string
		Description  string
		CriteriaType string
		Requirements map[string]interface{}
		Points       int
	}

	seeds := []seed{
		{
			Name:         "First Steps",
			Description:  "Complete your first course",
			CriteriaType: courseModels.CriteriaCourseCompletion,
			Requirements: map[string]interface{}{}, // any course qualifies
			Points:       50,
		},
		{
			Name:         "Point Collector",
			Description:  "Earn 500 points across all courses",
			CriteriaType: courseModels.CriteriaPoints,
			Requirements: map[string]interface{}{"points_required": 500},
			Points:       100,
		},
		{
			Name:         "Week Warrior",
			Description:  "Study 7 days in a row",
			CriteriaType: courseModels.CriteriaStreak,
			Requirements: map[string]interface{}{"days_required": 7},
			Points:       75,
		},
		{
			Name:         "Dedicated Learner",
			Description:  "Spend 10 hours studying",
			CriteriaType: courseModels.CriteriaTime,
			Requirements: map[string]interface{}{"time_required": 36000}, // 10 hours in seconds
			Points:       100,
		},
		{
			Name:         "Perfectionist",
			Description:  "Score 100% on any assessment",
			CriteriaType: courseModels.CriteriaPerfectScore,
			Requirements: map[string]interface{}{},
			Points:       150,
		},
	}

	for _, s := range seeds {
		var existing courseModels.Achievement
		if err := database.Database.Db.Where("name = ? AND is_deleted = ?", s.Name, false).
			First(&existing).Error; err == nil {
			continue
		}

		requirements, err := json.Marshal(s.Requirements)
		if err != nil {
			log.Printf("Error marshaling requirements for %s: %v", s.Name, err)
			continue
		}

		achievement := courseModels.Achievement{
			Name:         s.Name,
			Description:  s.Description,
			CriteriaType: s.CriteriaType,
			Requirements: datatypes.JSON(requirements),
			Points:       s.Points,
			IsActive:     true,
		}
		if err := database.Database.Db.Create(&achievement).Error; err != nil {
			log.Printf("Error seeding achievement %s: %v", s.Name, err)
			continue
		}
		log.Printf("Seeded achievement: %s", s.Name)
	}
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseInt converts string to int
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}
