package model

// Stats is one mode's score track for a user. Ranks are 1-based; 0 means
// unranked (absent from the leaderboard).
type Stats struct {
	TotalScore  int64
	RankedScore int64
	PP          int32
	Accuracy    float32
	MaxCombo    int32
	TotalHits   int32
	Playcount   int32
	Playtime    int32
	GlobalRank  int32
	CountryRank int32
}
