package models

// Company is read-only after seeding. CurrentScore is the last score written
// at seed time and is not reconciled with a live calculation.
type Company struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null"`
	Ticker       string `json:"ticker"`
	Sector       string `json:"sector"`
	CurrentScore int    `json:"current_score"`
}

// Feature is one weighted scoring input. Duplicate names per company are
// legal and are simply summed by the calculator.
type Feature struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	CompanyID  uint    `json:"company_id" gorm:"index"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Importance float64 `json:"importance"`
}

// HistoricalScore holds one day's score. Date is stored as YYYY-MM-DD text so
// lexicographic comparison matches calendar order.
type HistoricalScore struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID uint   `json:"company_id" gorm:"index"`
	Date      string `json:"date"`
	Score     int    `json:"score"`
}

type NewsItem struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID uint   `json:"company_id" gorm:"index"`
	Headline  string `json:"headline"`
	Sentiment string `json:"sentiment"`
	Date      string `json:"date"`
	Impact    int    `json:"impact"`
}
