package config

const (
	// DefaultDatabasePath is the default SQLite database file
	DefaultDatabasePath = "./words.db"

	// DefaultItemsPerPage is the page size for every paginated listing
	DefaultItemsPerPage = 100

	// DefaultSearchMaxLength caps free-text word search queries
	DefaultSearchMaxLength = 100
)
