package database

import (
	coreconfig "github.com/m3rciful/foodbot/core/config"
)

// Config holds database connection settings.
type Config = coreconfig.DatabaseConfig
