// Package users provides database operations for borrower management.
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfmark/circulation/internal/database"
	"github.com/shelfmark/circulation/internal/entities"
)

// Repository handles all borrower database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOrCreateByName returns the borrower with the given name, creating
// one if none exists. Names are not unique: when several borrowers share
// a name the earliest row wins, with no disambiguation between them.
func (r *Repository) FindOrCreateByName(name string) (*entities.User, error) {
	if name == "" {
		return nil, database.ErrInvalidInput
	}

	var user entities.User
	err := r.db.Where("name = ?", name).Order("id ASC").First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = entities.User{Name: name}
	if err := r.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a borrower by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountUsers returns the number of registered borrowers.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
