package dto

import "time"

type DiagnosisResponse struct {
	Report       string    `json:"report"`
	SessionCount int       `json:"session_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type WordCountDTO struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type WordStatsResponse struct {
	SessionCount int            `json:"session_count"`
	TotalWords   int            `json:"total_words"`
	TopWords     []WordCountDTO `json:"top_words"`
	ComputedAt   time.Time      `json:"computed_at"`
}
