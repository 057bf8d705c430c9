package services

import (
	"log"
	"os"

	"defensoria_app_go/models"

	"gorm.io/gorm"
)

// SeedAdminFromEnv creates an administrador user from environment
// variables. Only runs if ADMIN_EMAIL and ADMIN_PASSWORD are set and no
// administrador exists yet.
func SeedAdminFromEnv(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" || password == "" {
		return nil
	}
	if name == "" {
		name = "Administrador"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdministrador).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("[SEED] Administrador user already exists, skipping seed")
		return nil
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("[SEED] User with email %s already exists, skipping administrador seed", email)
		return nil
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleAdministrador,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		return err
	}

	log.Printf("[SEED] Created administrador user %s", email)
	return nil
}

// SeedDefaultDefensoria ensures at least one defensoria exists so the
// office can start registering users and cases
func SeedDefaultDefensoria(db *gorm.DB) (*models.Defensoria, error) {
	var count int64
	if err := db.Model(&models.Defensoria{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	name := os.Getenv("DEFENSORIA_NAME")
	if name == "" {
		name = "Defensoría Central"
	}

	defensoria := &models.Defensoria{Name: name}
	if err := db.Create(defensoria).Error; err != nil {
		return nil, err
	}

	log.Printf("[SEED] Created defensoria %q", name)
	return defensoria, nil
}
