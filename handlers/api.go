package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"credit-dashboard/logger"
	"credit-dashboard/services"
)

const (
	defaultLookbackDays = 30
	defaultNewsLimit    = 5
)

type APIHandler struct {
	log       *logger.Logger
	analytics services.AnalyticsService
}

func NewAPIHandler(log *logger.Logger, analytics services.AnalyticsService) *APIHandler {
	return &APIHandler{log: log.With("handler", "APIHandler"), analytics: analytics}
}

// Scores serves the chart series:
// GET /api/scores/:company_id?days=N -> {"dates": [...], "scores": [...]}
func (ah *APIHandler) Scores(c *gin.Context) {
	companyID, ok := ah.companyID(c)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(defaultLookbackDays)))
	if err != nil {
		days = defaultLookbackDays
	}

	// days<=0 degenerates to a single-day range of today.
	end := time.Now()
	start := end
	if days > 0 {
		start = end.AddDate(0, 0, -days)
	}

	series, err := ah.analytics.HistoricalSeries(c.Request.Context(), companyID, start, end)
	if err != nil {
		ah.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// FeatureImportance serves
// GET /api/feature_importance/:company_id -> {"labels": [...], "values": [...]}
func (ah *APIHandler) FeatureImportance(c *gin.Context) {
	companyID, ok := ah.companyID(c)
	if !ok {
		return
	}

	report, err := ah.analytics.FeatureImportance(c.Request.Context(), companyID)
	if err != nil {
		ah.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Score serves GET /api/score/:company_id -> {"score": n}, the live
// calculation as opposed to the cached Company.CurrentScore.
func (ah *APIHandler) Score(c *gin.Context) {
	companyID, ok := ah.companyID(c)
	if !ok {
		return
	}

	score, err := ah.analytics.CalculateScore(c.Request.Context(), companyID)
	if err != nil {
		ah.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// News serves GET /api/news/:company_id?limit=N -> most recent items first.
func (ah *APIHandler) News(c *gin.Context) {
	companyID, ok := ah.companyID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNewsLimit)))
	if err != nil {
		limit = defaultNewsLimit
	}
	if limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must not be negative"})
		return
	}

	news, err := ah.analytics.RecentNews(c.Request.Context(), companyID, limit)
	if err != nil {
		ah.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}

// Companies serves GET /api/companies.
func (ah *APIHandler) Companies(c *gin.Context) {
	companies, err := ah.analytics.ListCompanies(c.Request.Context())
	if err != nil {
		ah.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (ah *APIHandler) companyID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("company_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

func (ah *APIHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrCompanyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}
	ah.log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
}
