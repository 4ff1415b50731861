package models

// User is the identity record returned by the profile API
type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// Avatar returns the avatar URL or an empty string when none is set
func (u User) Avatar() string {
	if u.AvatarURL == nil {
		return ""
	}
	return *u.AvatarURL
}

// Provider is a service provider shown on the dashboard
type Provider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
