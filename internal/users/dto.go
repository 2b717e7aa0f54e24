package users

import "time"

type profileResponse struct {
	Age    int    `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

type userResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       string          `json:"role"`
	PictureURL string          `json:"pictureUrl,omitempty"`
	Profile    profileResponse `json:"profile"`
	CreatedAt  time.Time       `json:"createdAt"`
	LastLogin  *time.Time      `json:"lastLogin,omitempty"`
}

type sessionResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		PictureURL: u.PictureURL,
		Profile:    profileResponse{Age: u.Age, Gender: u.Gender},
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}
