package orders

import "time"

type LetterOrder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FileName  string    `json:"fileName"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
