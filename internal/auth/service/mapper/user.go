package mapper

import (
	authdto "github.com/AlibekovAA/auth-api/internal/auth/service/dto"
	userdomain "github.com/AlibekovAA/auth-api/internal/user/domain"
)

func UserToDTO(user userdomain.User) authdto.User {
	return authdto.User{
		ID:        string(user.ID),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}
