package main

import (
	"log"
	"os"

	"research-link-be/internal/model"
	"research-link-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding colleges...")
	seedColleges(db)

	color.Cyan("Seeding project categories...")
	seedCategories(db)

	color.Cyan("Seeding plans...")
	seedPlans(db)

	color.Cyan("Seeding notification types...")
	SeedNotificationTypes(db)

	color.Green("Seeding completed!")
}

func seedColleges(db *gorm.DB) {
	colleges := []model.College{
		{Name: "Indian Institute of Technology Bombay", City: "Mumbai", Website: "https://www.iitb.ac.in"},
		{Name: "Indian Institute of Technology Delhi", City: "New Delhi", Website: "https://home.iitd.ac.in"},
		{Name: "Indian Institute of Science", City: "Bengaluru", Website: "https://iisc.ac.in"},
		{Name: "Birla Institute of Technology and Science", City: "Pilani", Website: "https://www.bits-pilani.ac.in"},
		{Name: "Vellore Institute of Technology", City: "Vellore", Website: "https://vit.ac.in"},
	}

	for _, c := range colleges {
		var existing model.College
		if err := db.Where("name = ?", c.Name).First(&existing).Error; err == nil {
			log.Printf("College '%s' already exists, skipping...", c.Name)
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			log.Printf("Error creating college '%s': %v", c.Name, err)
		} else {
			color.Green("Created college: %s", c.Name)
		}
	}
}

func seedCategories(db *gorm.DB) {
	categories := []model.ProjectCategory{
		{Name: "Machine Learning"},
		{Name: "Robotics"},
		{Name: "Biotechnology"},
		{Name: "Materials Science"},
		{Name: "Quantum Computing"},
		{Name: "Renewable Energy"},
	}

	for _, c := range categories {
		var existing model.ProjectCategory
		if err := db.Where("name = ?", c.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			log.Printf("Error creating category '%s': %v", c.Name, err)
		} else {
			color.Green("Created category: %s", c.Name)
		}
	}
}

func seedPlans(db *gorm.DB) {
	plans := []model.Plan{
		{
			Name:         "Free",
			Slug:         "free",
			Description:  "Browse and apply to projects from your own college",
			Price:        0,
			BillingCycle: "free",
			IsActive:     true,
			SortOrder:    1,
		},
		{
			Name:          "Campus Plus",
			Slug:          "campus-plus",
			Description:   "Unlock research projects from partner colleges in your region",
			Price:         299,
			TaxRate:       0.18,
			BillingCycle:  "monthly",
			IsMostPopular: true,
			IsActive:      true,
			SortOrder:     2,
		},
		{
			Name:         "National Access",
			Slug:         "national-access",
			Description:  "A full year of access to every participating college",
			Price:        2499,
			TaxRate:      0.18,
			BillingCycle: "yearly",
			IsActive:     true,
			SortOrder:    3,
		},
	}

	for _, p := range plans {
		var existing model.Plan
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			log.Printf("Plan '%s' already exists, skipping...", p.Slug)
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Printf("Error creating plan '%s': %v", p.Slug, err)
			continue
		}
		color.Green("Created plan: %s", p.Name)

		// Paid plans grant every seeded college by default. Adjust the
		// plan_colleges rows to narrow a plan's reach.
		if p.BillingCycle != "free" {
			var colleges []*model.College
			if err := db.Find(&colleges).Error; err != nil {
				log.Printf("Error loading colleges for plan '%s': %v", p.Slug, err)
				continue
			}
			if err := db.Model(&p).Association("Colleges").Append(colleges); err != nil {
				log.Printf("Error linking colleges to plan '%s': %v", p.Slug, err)
			}
		}
	}
}
