package logging

const (
	// KeyAppName is the attribute key for the application name.
	KeyAppName = "app"

	// KeyError is the attribute key for errors.
	KeyError = "err"

	// KeyDal is the attribute key for the data access layer in use.
	KeyDal = "dal"

	// KeyGuild is the attribute key for a guild ID.
	KeyGuild = "guild"

	// KeyChannel is the attribute key for a channel ID.
	KeyChannel = "channel"

	// KeyUser is the attribute key for a user ID.
	KeyUser = "user"

	// KeyTicketType is the attribute key for a ticket type ID.
	KeyTicketType = "ticket_type"

	// KeyCustomID is the attribute key for an interaction component custom ID.
	KeyCustomID = "custom_id"

	// KeySignal is the attribute key for OS signals.
	KeySignal = "signal"
)
