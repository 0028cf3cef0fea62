package database

import (
	"fmt"
	"log"
	"os"

	"github.com/Niwatda/softwareshop/model"
	"github.com/Niwatda/softwareshop/utils/auth"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
		log.Println("ADMIN_PASSWORD not set, using default (change it immediately)")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:         "Admin",
		Email:        getSeedEnv("ADMIN_EMAIL", "admin@softwareshop.com"),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin user %s", admin.Email)
	return nil
}

// SeedProducts creates the default catalog when it is empty
func (s *Seeder) SeedProducts() error {
	var count int64
	if err := s.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Products already exist, skipping")
		return nil
	}

	comparePrice := func(v int64) *int64 { return &v }

	products := []model.Product{
		{
			Name:         "Starter Plan",
			Slug:         "starter",
			Description:  "แพ็คเกจเริ่มต้น เหมาะสำหรับผู้ใช้งานคนเดียว พร้อมฟีเจอร์พื้นฐานครบครัน",
			Price:        149000,
			ComparePrice: comparePrice(199000),
			Features: pq.StringArray{
				"ใช้งานได้ 1 เครื่อง",
				"อัปเดตฟรี 6 เดือน",
				"Community Support",
				"Basic Features",
			},
			Version:  "2.0.0",
			IsActive: true,
		},
		{
			Name:         "Professional Plan",
			Slug:         "professional",
			Description:  "แพ็คเกจยอดนิยม สำหรับทีมและธุรกิจ พร้อมฟีเจอร์ครบทุกอย่าง",
			Price:        349000,
			ComparePrice: comparePrice(499000),
			Features: pq.StringArray{
				"ใช้งานได้ 5 เครื่อง",
				"อัปเดตฟรีตลอดชีพ",
				"Priority Support",
				"All Features",
				"API Access",
				"Custom Reports",
			},
			Version:  "2.0.0",
			IsActive: true,
		},
		{
			Name:        "Enterprise Plan",
			Slug:        "enterprise",
			Description: "แพ็คเกจสำหรับองค์กรขนาดใหญ่ พร้อม Dedicated Support และ SLA",
			Price:       999000,
			Features: pq.StringArray{
				"ใช้งานได้ไม่จำกัด",
				"อัปเดตฟรีตลอดชีพ",
				"Dedicated Support",
				"All Features",
				"API Access",
				"Custom Reports",
				"On-premise Deploy",
				"SLA 99.9%",
			},
			Version:  "2.0.0",
			IsActive: true,
		},
	}

	if err := s.db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("Created %d products", len(products))
	return nil
}

// getSeedEnv returns the environment variable value or a default
func getSeedEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
