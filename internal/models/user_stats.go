package models

import "time"

type UserStats struct {
	Total       int       `json:"total"`
	GeneratedAt time.Time `json:"generated_at"`
}
