// Package config provides configuration loading and defaults for teamlens.
package config

// DefaultLogDir is the default location of the date-partitioned usage logs.
const DefaultLogDir = "~/.teamlens/logs"

// DefaultDataDir is the default location for caches and derived data.
const DefaultDataDir = "~/.teamlens/data"

// DefaultConfigDir is the default location for teamlens configuration.
const DefaultConfigDir = "~/.config/teamlens"

// DefaultDBName is the filename for the SQLite snapshot database.
const DefaultDBName = "teamlens.db"

// DefaultFetchTimeoutSec bounds one full log load.
const DefaultFetchTimeoutSec = 30

// DefaultInsights holds the default insight-cache settings.
var DefaultInsights = Insights{
	TTLSec:   3600,
	MaxCards: 5,
}

// DefaultGemini holds the default external-generator settings. The API key
// has no default; it comes from config or the GEMINI_API_KEY environment
// variable.
var DefaultGemini = Gemini{
	Model:      "gemini-2.0-flash",
	TimeoutSec: 60,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
