package repository

import (
	"context"
	"errors"

	"bulag/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for content reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	ListByStatus(ctx context.Context, status models.ReportStatus, page, limit int) ([]models.Report, int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error
	HasOpenReport(ctx context.Context, reporterID uint, targetType models.VoteTarget, targetID uint) (bool, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Preload("Reporter").First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

func (r *reportRepository) ListByStatus(ctx context.Context, status models.ReportStatus, page, limit int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Report{}).Where("status = ?", status)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return reports, total, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Report", id)
	}
	return nil
}

// HasOpenReport reports whether the user already has an unresolved report on
// the target, to keep duplicate filings out of the moderation queue.
func (r *reportRepository) HasOpenReport(ctx context.Context, reporterID uint, targetType models.VoteTarget, targetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("reporter_id = ? AND target_type = ? AND target_id = ? AND status = ?",
			reporterID, targetType, targetID, models.ReportStatusOpen).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
