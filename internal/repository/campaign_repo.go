package repository

import (
	"context"

	"gorm.io/gorm"

	"leadtracker/internal/domain"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func toCampaignModel(c domain.Campaign) campaignModel {
	return campaignModel{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Targeting:   c.Targeting,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toDomainCampaign(m campaignModel) domain.Campaign {
	return domain.Campaign{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Targeting:   m.Targeting,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	m := toCampaignModel(*c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return wrapErr("create campaign", err)
	}
	*c = toDomainCampaign(m)
	return nil
}

func (r *CampaignRepository) Update(ctx context.Context, c domain.Campaign) error {
	m := toCampaignModel(c)
	tx := r.db.WithContext(ctx).Model(&campaignModel{}).Where("id = ?", c.ID).
		Select("name", "description", "targeting", "updated_at").
		Updates(&m)
	if tx.Error != nil {
		return wrapErr("update campaign", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return wrapErr("update campaign", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *CampaignRepository) Get(ctx context.Context, id string) (domain.Campaign, error) {
	var m campaignModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return domain.Campaign{}, wrapErr("get campaign", err)
	}
	return toDomainCampaign(m), nil
}

func (r *CampaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	var rows []campaignModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrapErr("list campaigns", err)
	}

	out := make([]domain.Campaign, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainCampaign(m))
	}
	return out, nil
}
