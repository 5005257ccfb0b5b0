package config

const (
	// AppName is the name of the application.
	AppName = "guichet"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvGuildStoreDriver is the environment variable selecting the guild
	// store backend.
	EnvGuildStoreDriver = `GUILD_STORE_DRIVER`

	// EnvGuildsFile is the environment variable for the json store path.
	EnvGuildsFile = `GUILDS_FILE`

	// EnvSqlitePath is the environment variable for the sqlite store path.
	EnvSqlitePath = `SQLITE_PATH`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// GuildStoreDriver is the guild store backend to use.
	GuildStoreDriver string

	// GuildsFile is the path of the json guild store.
	GuildsFile string

	// SqlitePath is the path of the sqlite guild store.
	SqlitePath string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string
)
