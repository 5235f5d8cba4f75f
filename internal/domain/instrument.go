package domain

import "time"

type Instrument struct {
	ID        string    `json:"id"`
	Maker     string    `json:"maker"`
	Type      string    `json:"type"`
	Year      int       `json:"year"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
