package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
)

type PetGormRepository struct {
	db *gorm.DB
}

func NewPetGormRepository(db *gorm.DB) *PetGormRepository {
	return &PetGormRepository{db: db}
}

func (r *PetGormRepository) CreatePet(
	ctx context.Context,
	pet *models.Pet,
) error {
	return r.db.WithContext(ctx).Omit("Tutor").Create(pet).Error
}

func (r *PetGormRepository) GetPetByCode(
	ctx context.Context,
	code string,
) (*models.Pet, error) {

	var pet models.Pet
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&pet).Error; err != nil {
		return nil, notFound(err)
	}
	return &pet, nil
}

func (r *PetGormRepository) UpdatePetPhoto(
	ctx context.Context,
	id uuid.UUID,
	photoURL string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"photo_url":  photoURL,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
