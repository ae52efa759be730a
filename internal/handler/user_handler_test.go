package handler_test

import (
	"net/http"
	"testing"

	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model"
	"social-scheduler/internal/model/requestresponse"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	plainUser  = &model.User{UUID: "u-1", Role: model.RoleUser, Permissions: pq.StringArray{model.PermissionUsersRead}}
	readAdmin  = &model.User{UUID: "a-1", Role: model.RoleAdmin, Permissions: pq.StringArray{model.PermissionUsersRead}}
	superadmin = &model.User{UUID: "s-1", Role: model.RoleSuperadmin}
)

func TestAdminRoutes_Access(t *testing.T) {
	tests := []struct {
		name   string
		actor  *model.User
		method string
		path   string
		status int
	}{
		{"без токена", nil, http.MethodGet, "/admin/users", http.StatusUnauthorized},
		{"обычный пользователь", plainUser, http.MethodGet, "/admin/users", http.StatusForbidden},
		{"админ без права удаления", readAdmin, http.MethodDelete, "/admin/users/u-1", http.StatusForbidden},
		{"админ с правом чтения", readAdmin, http.MethodGet, "/admin/users", http.StatusOK},
		{"суперадмин без явных прав", superadmin, http.MethodDelete, "/admin/users/u-1", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.users.On("ListUsers", mock.Anything, "", 0).Return([]*model.User{plainUser}, "", nil)
			s.users.On("DeleteUser", mock.Anything, mock.Anything, "u-1").Return(nil)

			var cookies []*http.Cookie
			if tt.actor != nil {
				cookies = append(cookies, s.sessionFor(t, tt.actor))
			}

			rec := s.do(t, tt.method, tt.path, nil, cookies...)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestUserHandler_ListUsers(t *testing.T) {
	t.Run("курсор и лимит передаются сервису", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("ListUsers", mock.Anything, "MjAyNHwx", 5).Return([]*model.User{plainUser}, "next", nil)

		rec := s.do(t, http.MethodGet, "/admin/users?cursor=MjAyNHwx&limit=5", nil, s.sessionFor(t, readAdmin))
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[requestresponse.ListUsersResponse](t, rec)
		assert.Len(t, resp.Users, 1)
		assert.Equal(t, "next", resp.NextCursor)
	})

	t.Run("пустая страница - пустой массив", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("ListUsers", mock.Anything, "", 0).Return(nil, "", nil)

		rec := s.do(t, http.MethodGet, "/admin/users", nil, s.sessionFor(t, readAdmin))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"users":[]`)
	})

	t.Run("некорректный лимит", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodGet, "/admin/users?limit=abc", nil, s.sessionFor(t, readAdmin))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, "u-1").Return(plainUser, nil)
	s.users.On("GetUser", mock.Anything, "u-404").Return(nil, apperror.NotFound("User not found"))
	session := s.sessionFor(t, readAdmin)

	rec := s.do(t, http.MethodGet, "/admin/users/u-1", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", decode[requestresponse.UserResponse](t, rec).User.UUID)

	rec = s.do(t, http.MethodGet, "/admin/users/u-404", nil, session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserHandler_CreateUser(t *testing.T) {
	s := newTestServer(t)
	input := model.NewUser{Name: "editor", Email: "editor@example.com", Password: "secret1", Role: model.RoleAdmin, Permissions: []string{model.PermissionUsersRead}}
	s.users.On("CreateUser", mock.Anything, superadmin, input).Return(&model.User{UUID: "u-2", IsVerified: true}, nil).Once()
	s.users.On("CreateUser", mock.Anything, superadmin, input).Return(nil, apperror.Conflict("User with this email or name already exists")).Once()
	session := s.sessionFor(t, superadmin)

	body := requestresponse.CreateUserRequest{
		Name:        "editor",
		Email:       "editor@example.com",
		Password:    "secret1",
		Role:        model.RoleAdmin,
		Permissions: []string{model.PermissionUsersRead},
	}

	rec := s.do(t, http.MethodPost, "/admin/users", body, session)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decode[requestresponse.UserResponse](t, rec).User.IsVerified)

	rec = s.do(t, http.MethodPost, "/admin/users", body, session)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserHandler_UpdateUser(t *testing.T) {
	t.Run("отсутствующие поля не передаются", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("UpdateRoleAndPermissions", mock.Anything, superadmin, "u-1", model.RoleAdmin, (*[]string)(nil)).
			Return(&model.User{UUID: "u-1", Role: model.RoleAdmin}, nil)

		rec := s.do(t, http.MethodPut, "/admin/users/u-1", `{"role":"admin"}`, s.sessionFor(t, superadmin))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.RoleAdmin, decode[requestresponse.UserResponse](t, rec).User.Role)
	})

	t.Run("пустой список прав передается", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("UpdateRoleAndPermissions", mock.Anything, superadmin, "u-1", model.Role(""), mock.MatchedBy(func(p *[]string) bool {
			return p != nil && len(*p) == 0
		})).Return(&model.User{UUID: "u-1"}, nil)

		rec := s.do(t, http.MethodPut, "/admin/users/u-1", `{"permissions":[]}`, s.sessionFor(t, superadmin))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("суперадмин защищен", func(t *testing.T) {
		s := newTestServer(t)
		s.users.On("UpdateRoleAndPermissions", mock.Anything, superadmin, "s-2", model.RoleUser, (*[]string)(nil)).
			Return(nil, apperror.Authorization(apperror.CodeForbidden, "Cannot modify or delete a superadmin account"))

		rec := s.do(t, http.MethodPut, "/admin/users/s-2", `{"role":"user"}`, s.sessionFor(t, superadmin))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
