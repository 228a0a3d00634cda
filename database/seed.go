package database

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"credit-dashboard/models"
)

var seedFeatureNames = []string{
	"P/E Ratio", "Volatility", "Debt-to-Equity",
	"Revenue Growth", "Profit Margin", "News Sentiment",
}

type seedNews struct {
	headline  string
	sentiment string
	impact    int
}

var seedNewsItems = map[int][]seedNews{
	1: {
		{"Apple announces record quarterly earnings", "positive", 5},
		{"New iPhone sales exceed expectations", "positive", 4},
		{"Supply chain issues may affect production", "negative", -3},
	},
	2: {
		{"Microsoft Azure continues strong growth", "positive", 4},
		{"New security vulnerabilities discovered", "negative", -2},
	},
	3: {
		{"Tesla recalls vehicles for software update", "negative", -4},
		{"New factory opening ahead of schedule", "positive", 3},
	},
	4: {
		{"Amazon expands logistics network", "positive", 3},
		{"Labor disputes affecting operations", "negative", -3},
	},
	5: {
		{"JPMorgan increases dividend", "positive", 4},
		{"Regulatory scrutiny increases", "negative", -4},
	},
}

// Seed populates demo data once. The "insert only if table empty" guard keeps
// it idempotent; it runs at startup before the server accepts requests.
func (s *SQLiteService) Seed() error {
	s.log.Info("Seeding demo data if needed...")
	return s.db.Transaction(func(tx *gorm.DB) error {
		var companyCount int64
		if err := tx.Model(&models.Company{}).Count(&companyCount).Error; err != nil {
			return fmt.Errorf("failed to count companies: %w", err)
		}
		if companyCount == 0 {
			if err := seedCompanies(tx); err != nil {
				return err
			}
		}

		var userCount int64
		if err := tx.Model(&models.User{}).Count(&userCount).Error; err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if userCount == 0 {
			if err := seedDemoUser(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedCompanies(tx *gorm.DB) error {
	companies := []models.Company{
		{Name: "Apple Inc.", Ticker: "AAPL", Sector: "Technology", CurrentScore: 85},
		{Name: "Microsoft Corp.", Ticker: "MSFT", Sector: "Technology", CurrentScore: 88},
		{Name: "Tesla Inc.", Ticker: "TSLA", Sector: "Automotive", CurrentScore: 72},
		{Name: "Amazon.com Inc.", Ticker: "AMZN", Sector: "Retail", CurrentScore: 84},
		{Name: "JPMorgan Chase & Co.", Ticker: "JPM", Sector: "Financial", CurrentScore: 79},
	}
	if err := tx.Create(&companies).Error; err != nil {
		return fmt.Errorf("failed to seed companies: %w", err)
	}

	now := time.Now()
	for _, company := range companies {
		baseScore := 70 + rand.Intn(21)
		for daysAgo := 30; daysAgo > 0; daysAgo-- {
			date := now.AddDate(0, 0, -daysAgo).Format("2006-01-02")
			score := baseScore + rand.Intn(11) - 5
			if score < 1 {
				score = 1
			}
			if score > 100 {
				score = 100
			}
			entry := models.HistoricalScore{CompanyID: company.ID, Date: date, Score: score}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to seed historical scores: %w", err)
			}
		}

		for _, name := range seedFeatureNames {
			feature := models.Feature{
				CompanyID:  company.ID,
				Name:       name,
				Value:      float64(int(rand.Float64()*100)) / 100,
				Importance: float64(int((0.05+rand.Float64()*0.25)*100)) / 100,
			}
			if err := tx.Create(&feature).Error; err != nil {
				return fmt.Errorf("failed to seed features: %w", err)
			}
		}
	}

	for i, company := range companies {
		for _, item := range seedNewsItems[i+1] {
			date := now.AddDate(0, 0, -rand.Intn(8)).Format("2006-01-02")
			news := models.NewsItem{
				CompanyID: company.ID,
				Headline:  item.headline,
				Sentiment: item.sentiment,
				Date:      date,
				Impact:    item.impact,
			}
			if err := tx.Create(&news).Error; err != nil {
				return fmt.Errorf("failed to seed news: %w", err)
			}
		}
	}
	return nil
}

func seedDemoUser(tx *gorm.DB) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	user := models.User{
		Name:     "Demo User",
		Email:    "demo@example.com",
		Password: string(hashed),
	}
	if err := tx.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	return nil
}
