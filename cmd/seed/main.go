package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shopcore/internal/config"
	"shopcore/internal/db"
	"shopcore/internal/model"
	"shopcore/internal/repository"
)

const bcryptCost = 10

// Seeds a bootstrap admin user and a starter catalog. Safe to run more
// than once: existing rows are reused.
func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.OTP{},
		&model.Category{},
		&model.Product{},
		&model.ProductImage{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	adminPhone := getEnv("ADMIN_PHONE", "9990000001")
	admin := &model.User{
		Phone:  adminPhone,
		Name:   "Admin",
		Role:   model.RoleAdmin,
		Active: true,
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		admin.PasswordHash = string(hash)
	}

	seeded, err := userRepo.FindByPhoneOrCreate(ctx, admin)
	if err != nil {
		log.Fatalf("seed admin user: %v", err)
	}
	if seeded.Role != model.RoleAdmin {
		seeded.Role = model.RoleAdmin
		if err := userRepo.Update(ctx, seeded); err != nil {
			log.Fatalf("promote admin user: %v", err)
		}
	}
	log.Printf("admin user ready: phone=%s id=%d", seeded.Phone, seeded.ID)

	if err := seedCatalog(gormDB); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	log.Println("catalog fixtures ready")
}

func seedCatalog(gormDB *gorm.DB) error {
	fixtures := map[string][]model.Product{
		"Electronics": {
			{Name: "Wireless Earbuds", Description: "Bluetooth 5.3, 24h battery", Stock: 120},
			{Name: "USB-C Charger 65W", Description: "GaN fast charger", Stock: 300},
		},
		"Home & Kitchen": {
			{Name: "French Press", Description: "Stainless steel, 1L", Stock: 45},
		},
	}

	for name, products := range fixtures {
		var category model.Category
		err := gormDB.Where("name = ?", name).First(&category).Error
		if err == gorm.ErrRecordNotFound {
			category = model.Category{Name: name}
			if err := gormDB.Create(&category).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, p := range products {
			var existing model.Product
			err := gormDB.Where("category_id = ? AND name = ?", category.ID, p.Name).First(&existing).Error
			if err == gorm.ErrRecordNotFound {
				p.CategoryID = category.ID
				if err := gormDB.Create(&p).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
