package dto

type StatsResult struct {
	TotalAttempts       int64
	UniqueEntries       int64
	DuplicatesPrevented int64
	Efficiency          string
}

type ClearResult struct {
	RecordsRemoved  int64
	AttemptsRemoved int64
}
