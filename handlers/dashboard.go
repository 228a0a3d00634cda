package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"credit-dashboard/logger"
	"credit-dashboard/models"
	"credit-dashboard/services"
)

type PageHandler struct {
	log       *logger.Logger
	analytics services.AnalyticsService
}

func NewPageHandler(log *logger.Logger, analytics services.AnalyticsService) *PageHandler {
	return &PageHandler{log: log.With("handler", "PageHandler"), analytics: analytics}
}

type CompanyPageData struct {
	UserName string
	Company  *models.Company
	News     []models.NewsItem
	Score    int
	Now      time.Time
}

func (ph *PageHandler) Dashboard(c *gin.Context) {
	companies, err := ph.analytics.ListCompanies(c.Request.Context())
	if err != nil {
		ph.log.Error("Failed to load companies", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"UserName":  c.GetString("user_name"),
		"Companies": companies,
		"Now":       time.Now(),
	})
}

func (ph *PageHandler) Companies(c *gin.Context) {
	companies, err := ph.analytics.ListCompanies(c.Request.Context())
	if err != nil {
		ph.log.Error("Failed to load companies", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}
	c.HTML(http.StatusOK, "companies.html", gin.H{
		"UserName":  c.GetString("user_name"),
		"Companies": companies,
		"Now":       time.Now(),
	})
}

func (ph *PageHandler) CompanyDetail(c *gin.Context) {
	companyID, err := strconv.ParseUint(c.Param("company_id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": "Invalid company id"})
		return
	}

	ctx := c.Request.Context()
	company, err := ph.analytics.GetCompany(ctx, uint(companyID))
	if err != nil {
		if errors.Is(err, services.ErrCompanyNotFound) {
			c.HTML(http.StatusNotFound, "404.html", nil)
			return
		}
		ph.log.Error("Failed to load company", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}

	news, err := ph.analytics.RecentNews(ctx, company.ID, 5)
	if err != nil {
		ph.log.Error("Failed to load news", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}

	score, err := ph.analytics.CalculateScore(ctx, company.ID)
	if err != nil {
		ph.log.Error("Failed to calculate score", "error", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}

	c.HTML(http.StatusOK, "company.html", CompanyPageData{
		UserName: c.GetString("user_name"),
		Company:  company,
		News:     news,
		Score:    score,
		Now:      time.Now(),
	})
}

func (ph *PageHandler) Trends(c *gin.Context) {
	c.HTML(http.StatusOK, "trends.html", gin.H{
		"UserName":  c.GetString("user_name"),
		"Sectors":   []string{"Technology", "Financial", "Retail", "Automotive", "Healthcare"},
		"AvgScores": []int{86, 79, 84, 72, 81},
		"Now":       time.Now(),
	})
}

func (ph *PageHandler) Accuracy(c *gin.Context) {
	// Static sample metrics for the model accuracy page.
	c.HTML(http.StatusOK, "accuracy.html", gin.H{
		"UserName":    c.GetString("user_name"),
		"NumSamples":  10000,
		"NumFeatures": 25,
		"Accuracy":    0.87,
		"Precision":   0.85,
		"Recall":      0.89,
		"F1Score":     0.87,
		"Now":         time.Now(),
	})
}

func (ph *PageHandler) Settings(c *gin.Context) {
	c.HTML(http.StatusOK, "settings.html", gin.H{
		"UserName": c.GetString("user_name"),
		"Now":      time.Now(),
	})
}

func (ph *PageHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", nil)
}
