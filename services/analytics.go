package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"credit-dashboard/logger"
	"credit-dashboard/models"
)

// ErrCompanyNotFound signals an unknown company id. Every read checks
// existence first instead of silently computing against empty rows.
var ErrCompanyNotFound = errors.New("company not found")

const (
	baseScore = 50.0
	minScore  = 1.0
	maxScore  = 100.0

	dateLayout = "2006-01-02"
)

// FeatureImportanceReport holds parallel slices in feature storage order.
type FeatureImportanceReport struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ScoreSeries holds parallel slices ordered by date ascending.
type ScoreSeries struct {
	Dates  []string `json:"dates"`
	Scores []int    `json:"scores"`
}

type AnalyticsService interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, companyID uint) (*models.Company, error)
	CalculateScore(ctx context.Context, companyID uint) (int, error)
	FeatureImportance(ctx context.Context, companyID uint) (*FeatureImportanceReport, error)
	HistoricalSeries(ctx context.Context, companyID uint, start, end time.Time) (*ScoreSeries, error)
	RecentNews(ctx context.Context, companyID uint, limit int) ([]models.NewsItem, error)
}

type analyticsService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsService(db *gorm.DB, log *logger.Logger) AnalyticsService {
	serviceLog := log.With("service", "AnalyticsService")
	return &analyticsService{db: db, log: serviceLog}
}

func (as *analyticsService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies := []models.Company{}
	if err := as.db.WithContext(ctx).Order("id ASC").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

func (as *analyticsService) GetCompany(ctx context.Context, companyID uint) (*models.Company, error) {
	var company models.Company
	if err := as.db.WithContext(ctx).First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return &company, nil
}

// CalculateScore computes the live weighted score: base 50, plus
// value*importance*100 per feature, clamped to [1,100] and then rounded
// half away from zero. Clamp before round is deliberate; the order matters
// at the boundaries.
func (as *analyticsService) CalculateScore(ctx context.Context, companyID uint) (int, error) {
	if err := as.requireCompany(ctx, companyID); err != nil {
		return 0, err
	}

	var features []models.Feature
	if err := as.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&features).Error; err != nil {
		return 0, fmt.Errorf("failed to load features: %w", err)
	}

	score := baseScore
	for _, f := range features {
		score += f.Value * f.Importance * 100
	}

	score = math.Min(maxScore, math.Max(minScore, score))
	return int(math.Round(score)), nil
}

// FeatureImportance returns feature names and weights in storage order,
// not sorted by magnitude.
func (as *analyticsService) FeatureImportance(ctx context.Context, companyID uint) (*FeatureImportanceReport, error) {
	if err := as.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	var features []models.Feature
	if err := as.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id ASC").
		Find(&features).Error; err != nil {
		return nil, fmt.Errorf("failed to load features: %w", err)
	}

	report := &FeatureImportanceReport{
		Labels: make([]string, 0, len(features)),
		Values: make([]float64, 0, len(features)),
	}
	for _, f := range features {
		report.Labels = append(report.Labels, f.Name)
		report.Values = append(report.Values, f.Importance)
	}
	return report, nil
}

// HistoricalSeries returns the scores whose date falls within [start, end],
// inclusive on both ends. Dates are compared as stored YYYY-MM-DD strings,
// which matches calendar order.
func (as *analyticsService) HistoricalSeries(ctx context.Context, companyID uint, start, end time.Time) (*ScoreSeries, error) {
	if err := as.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	var rows []models.HistoricalScore
	if err := as.db.WithContext(ctx).
		Where("company_id = ? AND date BETWEEN ? AND ?",
			companyID, start.Format(dateLayout), end.Format(dateLayout)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load historical scores: %w", err)
	}

	series := &ScoreSeries{
		Dates:  make([]string, 0, len(rows)),
		Scores: make([]int, 0, len(rows)),
	}
	for _, row := range rows {
		series.Dates = append(series.Dates, row.Date)
		series.Scores = append(series.Scores, row.Score)
	}
	return series, nil
}

// RecentNews returns up to limit items, most recent first. Ordering between
// items sharing a date follows storage order and is not guaranteed.
func (as *analyticsService) RecentNews(ctx context.Context, companyID uint, limit int) ([]models.NewsItem, error) {
	if err := as.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	news := []models.NewsItem{}
	if limit <= 0 {
		return news, nil
	}

	if err := as.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("date DESC").
		Limit(limit).
		Find(&news).Error; err != nil {
		return nil, fmt.Errorf("failed to load news: %w", err)
	}
	return news, nil
}

func (as *analyticsService) requireCompany(ctx context.Context, companyID uint) error {
	var count int64
	if err := as.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", companyID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check company: %w", err)
	}
	if count == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
