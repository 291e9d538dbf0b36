package storage

// Mirror states of a chore log.
const (
	MirrorPending  = "pending"
	MirrorMirrored = "mirrored"
	MirrorError    = "error"
)

type Chore struct {
	ID         string
	Name       string
	Category   string
	Points     int64
	IsNegative bool
}

type ChoreLog struct {
	ID           string
	ChoreID      string
	Partner      string
	LogDate      string
	Points       int64
	MirrorStatus string
}
