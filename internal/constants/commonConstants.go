package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixActor CachePrefix = "ACTOR_"
)

// SystemActorID marks audit rows written by scheduled jobs.
const SystemActorID = "system"
