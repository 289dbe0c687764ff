package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadtracker/internal/domain"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns the business profile, or an empty one when none was saved yet.
func (r *ProfileRepository) Get(ctx context.Context) (domain.BusinessProfile, error) {
	var m profileModel
	err := r.db.WithContext(ctx).Where("id = ?", profileRowID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BusinessProfile{}, nil
	}
	if err != nil {
		return domain.BusinessProfile{}, wrapErr("get profile", err)
	}

	return domain.BusinessProfile{
		Name:             m.Name,
		Type:             m.Type,
		Website:          m.Website,
		Description:      m.Description,
		AvgContractValue: m.AvgContractValue,
		MinContractValue: m.MinContractValue,
		MaxContractValue: m.MaxContractValue,
		TargetMarket:     m.TargetMarket,
		ServiceArea:      m.ServiceArea,
		EmployeeCount:    m.EmployeeCount,
		YearFounded:      m.YearFounded,
		CustomJobTitles:  m.CustomJobTitles,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

func (r *ProfileRepository) Save(ctx context.Context, p domain.BusinessProfile) error {
	m := profileModel{
		ID:               profileRowID,
		Name:             p.Name,
		Type:             p.Type,
		Website:          p.Website,
		Description:      p.Description,
		AvgContractValue: p.AvgContractValue,
		MinContractValue: p.MinContractValue,
		MaxContractValue: p.MaxContractValue,
		TargetMarket:     p.TargetMarket,
		ServiceArea:      p.ServiceArea,
		EmployeeCount:    p.EmployeeCount,
		YearFounded:      p.YearFounded,
		CustomJobTitles:  p.CustomJobTitles,
		UpdatedAt:        p.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&m).Error
	return wrapErr("save profile", err)
}
