package constant

const (
	// SessionArchivedTopic is the in-process bus topic fired once per sealed
	// session record.
	SessionArchivedTopic = "session.archived"
)
