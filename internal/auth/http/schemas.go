package http

type registerRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Username  string  `json:"username" validate:"required,max=50"`
	Password  string  `json:"password" validate:"required,maxbytes=72"`
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=1"`
}

func (loginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email.required": "Invalid Email",
		"email.email":    "Invalid Email",
		"password.min":   "Password Required",
	}
}
