package users

import "time"

type User struct {
	ID         string    `json:"id"`
	GoogleID   string    `json:"googleId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
