package config

import (
	"log/slog"
	"os"

	"github.com/guichet-bot/guichet/pkg/dataaccess"
	"github.com/joho/godotenv"
)

// Parse loads the configuration from a .env file (if present) and the
// environment. It exits when the required values are missing.
func Parse(l *slog.Logger) {
	if err := godotenv.Load(); err == nil {
		l.Debug("Loaded configuration from .env file")
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		MonitoringPort = envMonitoringPort
	} else {
		// Default to 8080 if not provided.
		MonitoringPort = "8080"

		l.Info("No monitoring port provided in environment, defaulting to 8080", slog.String("key", EnvMonitoringPort))
	}

	if envDriver := os.Getenv(EnvGuildStoreDriver); envDriver != "" {
		l.Debug("Found guild store driver in environment", slog.String("key", EnvGuildStoreDriver))
		GuildStoreDriver = envDriver
	} else {
		// Default to the json file store if not provided.
		GuildStoreDriver = dataaccess.DriverJSONFile

		l.Info("No guild store driver provided in environment, defaulting to the json file store",
			slog.String("key", EnvGuildStoreDriver))
	}

	GuildsFile = os.Getenv(EnvGuildsFile)
	SqlitePath = os.Getenv(EnvSqlitePath)
	MongoUri = os.Getenv(EnvMongoUri)

	if BotToken == "" || ApplicationId == "" {
		l.Error("Not all required environment variables have been provided",
			slog.String("missing", EnvBotToken+" and/or "+EnvApplicationId))
		os.Exit(1)
	}

	if GuildStoreDriver == dataaccess.DriverMongo && MongoUri == "" {
		l.Error("MongoDB selected as the guild store but no URI provided",
			slog.String("missing", EnvMongoUri))
		os.Exit(1)
	}

	l.Debug("All required environment variables have been provided")
}

// StoreConfig builds the guild store configuration from the parsed values.
func StoreConfig() *dataaccess.Config {
	return &dataaccess.Config{
		Driver:     GuildStoreDriver,
		JSONPath:   GuildsFile,
		SQLitePath: SqlitePath,
		MongoURI:   MongoUri,
	}
}
