package entity

import "time"

// UserView is what the account owner sees about themselves.
type UserView struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// ProfileView is the projection of a user shown to another viewer.
type ProfileView struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     string  `json:"image"`
	Following bool    `json:"following"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FormatAsUserJSON builds the self view. A new token is signed on every call.
func (u *User) FormatAsUserJSON(signer TokenSigner, now time.Time) (UserView, error) {
	tok, err := u.GenerateToken(signer, now)
	if err != nil {
		return UserView{}, err
	}
	return UserView{
		Username: u.Username,
		Email:    u.Email,
		Token:    tok,
		Bio:      nullable(u.Bio),
		Image:    nullable(u.Image),
	}, nil
}

// FormatAsProfileJSON builds the profile of u as seen by viewer. Following is
// true only when viewer is present and viewer follows u.
func (u *User) FormatAsProfileJSON(viewer *User) ProfileView {
	image := u.Image
	if image == "" {
		image = DefaultImageURL
	}
	return ProfileView{
		Username:  u.Username,
		Bio:       nullable(u.Bio),
		Image:     image,
		Following: viewer != nil && viewer.IsFollowing(u.ID),
	}
}
