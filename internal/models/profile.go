package models

import "io"

// ProfileFormInput is what the user submitted on the profile screen.
// The password fields may be empty; they only matter when OldPassword is set.
type ProfileFormInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	OldPassword          string `json:"old_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// PasswordChangeRequested reports whether the user asked to change the password
func (in ProfileFormInput) PasswordChangeRequested() bool {
	return in.OldPassword != ""
}

// UpdateProfileRequest is the body of PUT /profile.
// Password fields are omitted entirely when no password change was requested.
type UpdateProfileRequest struct {
	Name                 string `json:"name" binding:"required,max=100"`
	Email                string `json:"email" binding:"required,email,max=255"`
	OldPassword          string `json:"old_password,omitempty" binding:"required_with=Password,max=100"`
	Password             string `json:"password,omitempty" binding:"required_with=OldPassword,max=100"`
	PasswordConfirmation string `json:"password_confirmation,omitempty" binding:"required_with=OldPassword,eqfield=Password"`
}

// HasPasswordChange reports whether the payload carries the password triple
func (r *UpdateProfileRequest) HasPasswordChange() bool {
	return r.OldPassword != ""
}

// AvatarAsset is the result of a successful image capture
type AvatarAsset struct {
	URI      string
	MimeType string
	FileName string
}

// ErrorResponse is the error body returned by the profile API
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// AvatarUpload is the multipart body of PATCH /users/avatar
type AvatarUpload struct {
	FileName string
	MimeType string
	Content  io.Reader
}
