package config

const (
	// DefaultDatabasePath is the default path for the circulation database
	DefaultDatabasePath = "./library.db"

	// DefaultLoanPeriodDays is how long a book may be borrowed before it is due
	DefaultLoanPeriodDays = 14
)
