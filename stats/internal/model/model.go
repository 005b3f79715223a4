package model

import "time"

type Stats struct {
	UserID        string    `json:"userId" db:"user_id"`
	UserName      string    `json:"userName" db:"user_name"`
	Borrowed      int       `json:"borrowed" db:"borrowed"`
	Returned      int       `json:"returned" db:"returned"`
	Overdue       int       `json:"overdue" db:"overdue"`
	Active        int       `json:"active" db:"active"`
	FeesCollected float64   `json:"feesCollected" db:"fees_collected"`
	LateFees      float64   `json:"lateFees" db:"late_fees"`
	LastActivity  time.Time `json:"lastActivity" db:"last_activity"`
}

type StatsInfo struct {
	Data []Stats `json:"data"`
}
