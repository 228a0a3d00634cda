package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"credit-dashboard/logger"
	"credit-dashboard/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared in-memory database so gorm's pooled connections all see
	// the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Feature{},
		&models.HistoricalScore{},
		&models.NewsItem{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newTestAnalytics(t *testing.T) (AnalyticsService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return NewAnalyticsService(db, log), db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to create fixture %T: %v", value, err)
	}
}

func TestCalculateScore(t *testing.T) {
	cases := []struct {
		name     string
		features []models.Feature
		want     int
	}{
		{
			name:     "zero_features_is_base_50",
			features: nil,
			want:     50,
		},
		{
			name: "weighted_sum",
			features: []models.Feature{
				{Name: "Volatility", Value: 0.5, Importance: 0.2},
				{Name: "P/E Ratio", Value: 0.8, Importance: 0.1},
			},
			// 50 + 0.5*0.2*100 + 0.8*0.1*100 = 68
			want: 68,
		},
		{
			name: "clamped_to_100",
			features: []models.Feature{
				{Name: "Revenue Growth", Value: 1.0, Importance: 1.0},
			},
			want: 100,
		},
		{
			name: "clamped_to_1",
			features: []models.Feature{
				{Name: "Debt-to-Equity", Value: -1.0, Importance: 1.0},
			},
			want: 1,
		},
		{
			name: "duplicate_feature_names_are_summed",
			features: []models.Feature{
				{Name: "Volatility", Value: 0.5, Importance: 0.2},
				{Name: "Volatility", Value: 0.5, Importance: 0.2},
			},
			want: 70,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, db := newTestAnalytics(t)
			company := models.Company{Name: "Test Co"}
			mustCreate(t, db, &company)
			for i := range tc.features {
				tc.features[i].CompanyID = company.ID
				mustCreate(t, db, &tc.features[i])
			}

			got, err := svc.CalculateScore(context.Background(), company.ID)
			if err != nil {
				t.Fatalf("CalculateScore returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("CalculateScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCalculateScoreStaysInRange(t *testing.T) {
	pathological := [][2]float64{
		{1e9, 1e9},
		{-1e9, 1e9},
		{1e9, -1e9},
		{0.0001, 0.0001},
	}
	for _, pair := range pathological {
		svc, db := newTestAnalytics(t)
		company := models.Company{Name: "Edge Co"}
		mustCreate(t, db, &company)
		mustCreate(t, db, &models.Feature{CompanyID: company.ID, Name: "X", Value: pair[0], Importance: pair[1]})

		got, err := svc.CalculateScore(context.Background(), company.ID)
		if err != nil {
			t.Fatalf("CalculateScore(%v) returned error: %v", pair, err)
		}
		if got < 1 || got > 100 {
			t.Fatalf("CalculateScore(%v) = %d, outside [1,100]", pair, got)
		}
	}
}

func TestCalculateScoreUnknownCompany(t *testing.T) {
	svc, _ := newTestAnalytics(t)
	if _, err := svc.CalculateScore(context.Background(), 999); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("CalculateScore(999) error = %v, want ErrCompanyNotFound", err)
	}
}

func TestFeatureImportance(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "Ordered Co"}
	mustCreate(t, db, &company)

	// Insertion order is storage order; importance magnitudes deliberately
	// out of order to prove results are not sorted.
	features := []models.Feature{
		{CompanyID: company.ID, Name: "P/E Ratio", Value: 0.4, Importance: 0.1},
		{CompanyID: company.ID, Name: "Volatility", Value: 0.6, Importance: 0.3},
		{CompanyID: company.ID, Name: "Profit Margin", Value: 0.2, Importance: 0.05},
	}
	for i := range features {
		mustCreate(t, db, &features[i])
	}

	report, err := svc.FeatureImportance(context.Background(), company.ID)
	if err != nil {
		t.Fatalf("FeatureImportance returned error: %v", err)
	}
	if len(report.Labels) != len(report.Values) {
		t.Fatalf("parallel slices differ in length: %d labels, %d values", len(report.Labels), len(report.Values))
	}
	if len(report.Labels) != len(features) {
		t.Fatalf("got %d features, want %d", len(report.Labels), len(features))
	}
	for i, f := range features {
		if report.Labels[i] != f.Name {
			t.Errorf("Labels[%d] = %q, want %q", i, report.Labels[i], f.Name)
		}
		if report.Values[i] != f.Importance {
			t.Errorf("Values[%d] = %v, want %v", i, report.Values[i], f.Importance)
		}
	}
}

func TestFeatureImportanceNoFeatures(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "Empty Co"}
	mustCreate(t, db, &company)

	report, err := svc.FeatureImportance(context.Background(), company.ID)
	if err != nil {
		t.Fatalf("FeatureImportance returned error: %v", err)
	}
	if len(report.Labels) != 0 || len(report.Values) != 0 {
		t.Fatalf("expected empty report, got %d labels, %d values", len(report.Labels), len(report.Values))
	}
}

func TestFeatureImportanceUnknownCompany(t *testing.T) {
	svc, _ := newTestAnalytics(t)
	if _, err := svc.FeatureImportance(context.Background(), 999); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("FeatureImportance(999) error = %v, want ErrCompanyNotFound", err)
	}
}

func TestHistoricalSeries(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "History Co"}
	mustCreate(t, db, &company)

	now := time.Now()
	// Ten days of stored history against a thirty-day query window.
	for daysAgo := 10; daysAgo >= 1; daysAgo-- {
		entry := models.HistoricalScore{
			CompanyID: company.ID,
			Date:      now.AddDate(0, 0, -daysAgo).Format("2006-01-02"),
			Score:     60 + daysAgo,
		}
		mustCreate(t, db, &entry)
	}

	start := now.AddDate(0, 0, -30)
	series, err := svc.HistoricalSeries(context.Background(), company.ID, start, now)
	if err != nil {
		t.Fatalf("HistoricalSeries returned error: %v", err)
	}
	if len(series.Dates) != len(series.Scores) {
		t.Fatalf("parallel slices differ in length: %d dates, %d scores", len(series.Dates), len(series.Scores))
	}
	if len(series.Dates) != 10 {
		t.Fatalf("got %d entries, want 10", len(series.Dates))
	}

	startStr := start.Format("2006-01-02")
	endStr := now.Format("2006-01-02")
	for i, date := range series.Dates {
		if date < startStr || date > endStr {
			t.Errorf("Dates[%d] = %q outside [%q, %q]", i, date, startStr, endStr)
		}
		if i > 0 && series.Dates[i-1] > date {
			t.Errorf("Dates not ascending at %d: %q after %q", i, date, series.Dates[i-1])
		}
	}
}

func TestHistoricalSeriesBoundsInclusive(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "Bounds Co"}
	mustCreate(t, db, &company)

	now := time.Now()
	inWindow := []int{0, 3, 7} // days ago, all at window edges or inside
	outWindow := []int{8, 15}
	for _, daysAgo := range append(append([]int{}, inWindow...), outWindow...) {
		entry := models.HistoricalScore{
			CompanyID: company.ID,
			Date:      now.AddDate(0, 0, -daysAgo).Format("2006-01-02"),
			Score:     50,
		}
		mustCreate(t, db, &entry)
	}

	series, err := svc.HistoricalSeries(context.Background(), company.ID, now.AddDate(0, 0, -7), now)
	if err != nil {
		t.Fatalf("HistoricalSeries returned error: %v", err)
	}
	if len(series.Dates) != len(inWindow) {
		t.Fatalf("got %d entries, want %d (inclusive bounds)", len(series.Dates), len(inWindow))
	}
}

func TestHistoricalSeriesSingleDayRange(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "Today Co"}
	mustCreate(t, db, &company)

	now := time.Now()
	today := now.Format("2006-01-02")
	mustCreate(t, db, &models.HistoricalScore{CompanyID: company.ID, Date: today, Score: 77})
	mustCreate(t, db, &models.HistoricalScore{
		CompanyID: company.ID,
		Date:      now.AddDate(0, 0, -1).Format("2006-01-02"),
		Score:     55,
	})

	// start == end is the days<=0 degenerate range.
	series, err := svc.HistoricalSeries(context.Background(), company.ID, now, now)
	if err != nil {
		t.Fatalf("HistoricalSeries returned error: %v", err)
	}
	if len(series.Dates) != 1 || series.Dates[0] != today || series.Scores[0] != 77 {
		t.Fatalf("single-day range = %+v, want just today's entry", series)
	}
}

func TestHistoricalSeriesEmpty(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "Fresh Co"}
	mustCreate(t, db, &company)

	now := time.Now()
	series, err := svc.HistoricalSeries(context.Background(), company.ID, now.AddDate(0, 0, -30), now)
	if err != nil {
		t.Fatalf("HistoricalSeries returned error: %v", err)
	}
	if len(series.Dates) != 0 || len(series.Scores) != 0 {
		t.Fatalf("expected empty series, got %+v", series)
	}
}

func TestRecentNews(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "News Co"}
	mustCreate(t, db, &company)

	now := time.Now()
	for daysAgo := 6; daysAgo >= 0; daysAgo-- {
		item := models.NewsItem{
			CompanyID: company.ID,
			Headline:  fmt.Sprintf("Headline %d", daysAgo),
			Sentiment: "neutral",
			Date:      now.AddDate(0, 0, -daysAgo).Format("2006-01-02"),
			Impact:    1,
		}
		mustCreate(t, db, &item)
	}

	news, err := svc.RecentNews(context.Background(), company.ID, 5)
	if err != nil {
		t.Fatalf("RecentNews returned error: %v", err)
	}
	if len(news) != 5 {
		t.Fatalf("got %d items, want 5", len(news))
	}
	for i := 1; i < len(news); i++ {
		if news[i-1].Date < news[i].Date {
			t.Errorf("dates not descending at %d: %q before %q", i, news[i-1].Date, news[i].Date)
		}
	}
}

func TestRecentNewsFewerThanLimit(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "Quiet Co"}
	mustCreate(t, db, &company)

	now := time.Now()
	for i := 0; i < 3; i++ {
		item := models.NewsItem{
			CompanyID: company.ID,
			Headline:  fmt.Sprintf("Headline %d", i),
			Sentiment: "positive",
			Date:      now.AddDate(0, 0, -i).Format("2006-01-02"),
		}
		mustCreate(t, db, &item)
	}

	news, err := svc.RecentNews(context.Background(), company.ID, 5)
	if err != nil {
		t.Fatalf("RecentNews returned error: %v", err)
	}
	if len(news) != 3 {
		t.Fatalf("got %d items, want all 3 available", len(news))
	}
}

func TestRecentNewsZeroLimit(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "Muted Co"}
	mustCreate(t, db, &company)
	mustCreate(t, db, &models.NewsItem{CompanyID: company.ID, Headline: "Ignored", Date: "2024-01-01"})

	news, err := svc.RecentNews(context.Background(), company.ID, 0)
	if err != nil {
		t.Fatalf("RecentNews returned error: %v", err)
	}
	if len(news) != 0 {
		t.Fatalf("limit=0 returned %d items, want 0", len(news))
	}
}

func TestRecentNewsUnknownCompany(t *testing.T) {
	svc, _ := newTestAnalytics(t)
	if _, err := svc.RecentNews(context.Background(), 999, 5); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("RecentNews(999) error = %v, want ErrCompanyNotFound", err)
	}
}

func TestGetCompany(t *testing.T) {
	svc, db := newTestAnalytics(t)
	company := models.Company{Name: "Lookup Co", Ticker: "LOOK", Sector: "Technology", CurrentScore: 81}
	mustCreate(t, db, &company)

	got, err := svc.GetCompany(context.Background(), company.ID)
	if err != nil {
		t.Fatalf("GetCompany returned error: %v", err)
	}
	if got.Name != company.Name || got.CurrentScore != 81 {
		t.Fatalf("GetCompany = %+v, want %+v", got, company)
	}

	if _, err := svc.GetCompany(context.Background(), company.ID+1); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("GetCompany(unknown) error = %v, want ErrCompanyNotFound", err)
	}
}
