package models

// UserProfile is a user's public profile. The avatar glyph shown when
// ProfilePicture is empty is derived at projection time, never stored.
type UserProfile struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Description    string `json:"description"`
	ProfilePicture string `json:"profile_picture"`
}
