package entity

// Player is a user's seat in their active game. ID is the username.
type Player struct {
	ID     string `json:"id"`
	Mark   Cell   `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}
