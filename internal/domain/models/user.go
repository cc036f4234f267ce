package models

import "time"

// Location is the administrative address shared by users, listings and tools.
type Location struct {
	State    string `json:"state" binding:"required,max=100"`
	District string `json:"district" binding:"required,max=100"`
	Village  string `json:"village" binding:"required,max=100"`
}

type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Location     Location   `json:"location"`
	FarmSize     string     `json:"farmSize,omitempty"`
	CropTypes    []string   `json:"cropTypes,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// PublicUser is the user summary returned by auth endpoints.
type PublicUser struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Role      string   `json:"role"`
	Location  Location `json:"location"`
	FarmSize  string   `json:"farmSize,omitempty"`
	CropTypes []string `json:"cropTypes,omitempty"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Location:  u.Location,
		FarmSize:  u.FarmSize,
		CropTypes: u.CropTypes,
	}
}

// Owner is the populated summary of a resource owner. Fields are empty when
// the referenced user no longer exists.
type Owner struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	State    string `json:"state,omitempty"`
	District string `json:"district,omitempty"`
}

// ProfileUpdate supports PATCH-style updates via pointer presence.
type ProfileUpdate struct {
	Name     *string   `json:"name" binding:"omitempty,min=2,max=50"`
	Phone    *string   `json:"phone" binding:"omitempty,numeric,len=10"`
	Location *Location `json:"location"`
	FarmSize *string   `json:"farmSize" binding:"omitempty,max=50"`
}

// RegisterInput is the registration request. Username is optional; when
// present it must be unique like the email.
type RegisterInput struct {
	Name      string   `json:"name" binding:"required,min=2,max=50"`
	Username  string   `json:"username" binding:"omitempty,alphanum,min=3,max=30"`
	Email     string   `json:"email" binding:"required,email,max=255"`
	Password  string   `json:"password" binding:"required,min=6,max=72"`
	Phone     string   `json:"phone" binding:"required,numeric,len=10"`
	Role      string   `json:"role" binding:"required,oneof=farmer buyer seller both service_provider"`
	Location  Location `json:"location"`
	FarmSize  string   `json:"farmSize" binding:"omitempty,max=50"`
	CropTypes []string `json:"cropTypes" binding:"omitempty,max=20,dive,max=50"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}
