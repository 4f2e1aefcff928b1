package dto

// CreateUserRequest entrada del CRUD de usuarios del panel admin.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff customer"`
}

// UpdateUserRequest entrada para actualizar un usuario (campos opcionales).
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin staff customer"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
