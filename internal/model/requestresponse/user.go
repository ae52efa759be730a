package requestresponse

import "social-scheduler/internal/model"

// CreateUserRequest : создание пользователя администратором
type CreateUserRequest struct {
	Name        string     `json:"name" example:"operator"`
	Email       string     `json:"email" example:"operator@example.com"`
	Password    string     `json:"password" example:"P@ssw0rd123"`
	Role        model.Role `json:"role" example:"admin"`
	Permissions []string   `json:"permissions" example:"users:read"`
}

// UpdateUserRequest : смена роли и прав. Отсутствующие поля не меняются.
type UpdateUserRequest struct {
	Role        model.Role `json:"role,omitempty" example:"admin"`
	Permissions *[]string  `json:"permissions,omitempty"`
}

// ListUsersResponse : страница пользователей
type ListUsersResponse struct {
	Success    bool          `json:"success" example:"true"`
	Users      []*model.User `json:"users"`
	NextCursor string        `json:"next_cursor,omitempty" example:"MjAyNC0wMS0wMVQwMDowMDowMFp8MGI2ZjNjM2UtNGE4ZS00ZDBlLTlhNTctMWYyYzNkNGU1ZjYw"`
}
