package database

import (
	"errors"

	"github.com/Payphone-Digital/demonlist/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAdmin defines the default admin member credentials
type DefaultAdmin struct {
	Name     string
	Password string
}

// GetDefaultAdmin returns the default admin member
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		Name:     "admin",
		Password: "Admin@123", // Change this in production!
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedMembers(db, GetDefaultAdmin())
}

// SeedMembers creates the administrator member if it does not exist
func SeedMembers(db *gorm.DB, admin DefaultAdmin) error {
	var existing model.Member
	result := db.Where("name = ?", admin.Name).First(&existing)

	if result.Error == nil {
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	member := model.Member{
		Name:         admin.Name,
		PasswordHash: string(hashedPassword),
		Permissions:  model.PermAdministrator | model.PermListAdministrator,
		TokenVersion: 1,
	}

	return db.Create(&member).Error
}
