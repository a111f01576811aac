package activity

type Type string

const (
	TypeReportLost     Type = "REPORT_LOST"
	TypeReportFound    Type = "REPORT_FOUND"
	TypeReportClosed   Type = "REPORT_CLOSED"
	TypeMatchFound     Type = "MATCH_FOUND"
	TypeMatchConfirmed Type = "MATCH_CONFIRMED"
)

type ActorType string

const (
	// ActorTypeUser: acción disparada por una persona (owner o reporter).
	ActorTypeUser ActorType = "USER"
	// ActorTypeSystem: acción del scanner u otro job.
	ActorTypeSystem ActorType = "SYSTEM"
)
