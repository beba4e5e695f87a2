package models

// Question is the single active question of a room.
type Question struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
