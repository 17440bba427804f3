package config

const (
	// AppName is the name of the application.
	AppName = "concierge"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvSupportRoleIds is the environment variable for the ordered,
	// comma-separated list of support role IDs. An empty list makes
	// ticket channels fall back to granting every role that can manage
	// channels.
	EnvSupportRoleIds = `SUPPORT_ROLE_IDS`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// SupportRoleIds is the ordered list of support role IDs.
	SupportRoleIds []string
)
