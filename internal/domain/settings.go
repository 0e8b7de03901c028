package domain

// Settings holds the samity-wide configuration. A single record is
// persisted; reset restores the defaults below.
type Settings struct {
	ID                   uint    `json:"-" gorm:"primaryKey"`
	InterestRate         float64 `json:"interest_rate"`          // percent, applied monthly to outstanding principal
	MonthlySavingsAmount float64 `json:"monthly_savings_amount"` // default deposit for bulk monthly collection
}

// DefaultSettings returns the settings seeded at first use and after reset.
func DefaultSettings() Settings {
	return Settings{
		InterestRate:         5.0,
		MonthlySavingsAmount: 100,
	}
}
