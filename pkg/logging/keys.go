package logging

const (
	// KeyError is the key for an error.
	KeyError = "err"

	// KeyAppName is the key for the application name.
	KeyAppName = "app"

	// KeyDal is the key for a data access layer.
	KeyDal = "dal"

	// KeyGuild is the key for a guild ID.
	KeyGuild = "guild_id"

	// KeyChannel is the key for a channel ID.
	KeyChannel = "channel_id"

	// KeyUser is the key for a user ID.
	KeyUser = "user_id"
)
