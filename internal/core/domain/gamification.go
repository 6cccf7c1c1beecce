package domain

// Gamification is the purchase-rewards progress of the current user.
// Points roll over into a level every 100; levels map to ranks.
type Gamification struct {
	Level           int    `json:"level"`
	Points          int    `json:"points"`
	ProgressPercent int    `json:"progress_percent"`
	RankName        string `json:"rank_name"`
	RankLogo        string `json:"rank_logo"`
}

// Mission is one weekly challenge. Completed is only populated on the
// per-user missions listing.
type Mission struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PointsReward int    `json:"points_reward"`
	Completed    bool   `json:"completed,omitempty"`
}
