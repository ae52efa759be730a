package handler

import (
	"net/http"
	"strconv"

	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model"
	"social-scheduler/internal/model/requestresponse"
	"social-scheduler/internal/ports"
	"social-scheduler/internal/security"
	"social-scheduler/internal/util"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// ListUsers godoc
// @Summary Список пользователей
// @Description Постраничный вывод (cursor-based). Требуется роль admin и право users:read.
// @Tags Admin
// @Produce json
// @Param cursor query string false "Курсор для пагинации"
// @Param limit query int false "Размер страницы" default(20) minimum(1) maximum(100)
// @Success 200 {object} requestresponse.ListUsersResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 422 {object} requestresponse.ErrorResponse "Некорректный курсор"
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			util.WriteError(w, apperror.Validation("Invalid limit", apperror.FieldError{Path: "limit", Msg: "Limit must be a positive integer"}))
			return
		}
		limit = parsed
	}

	users, nextCursor, err := h.UserService.ListUsers(r.Context(), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	if users == nil {
		users = []*model.User{}
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.ListUsersResponse{
		Success:    true,
		Users:      users,
		NextCursor: nextCursor,
	})
}

// GetUser godoc
// @Summary Пользователь по UUID
// @Tags Admin
// @Produce json
// @Param userId path string true "UUID пользователя"
// @Success 200 {object} requestresponse.UserResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{userId} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.UserResponse{Success: true, User: user})
}

// CreateUser godoc
// @Summary Создание пользователя администратором
// @Description Созданная учетная запись сразу подтверждена. Роль superadmin назначает только superadmin.
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateUserRequest true "Тело запроса"
// @Success 201 {object} requestresponse.UserResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Email или имя заняты"
// @Failure 422 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req requestresponse.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.UserService.CreateUser(r.Context(), actor, model.NewUser{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.UserResponse{
		Success: true,
		Message: "User created successfully",
		User:    user,
	})
}

// UpdateUser godoc
// @Summary Смена роли и прав пользователя
// @Description Отсутствующие в теле поля не меняются. Суперадмина изменить нельзя.
// @Tags Admin
// @Accept json
// @Produce json
// @Param userId path string true "UUID пользователя"
// @Param body body requestresponse.UpdateUserRequest true "Тело запроса"
// @Success 200 {object} requestresponse.UserResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 422 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{userId} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req requestresponse.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.UserService.UpdateRoleAndPermissions(r.Context(), actor, chi.URLParam(r, "userId"), req.Role, req.Permissions)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.UserResponse{
		Success: true,
		Message: "User updated successfully",
		User:    user,
	})
}

// DeleteUser godoc
// @Summary Удаление пользователя
// @Description Суперадмина удалить нельзя
// @Tags Admin
// @Param userId path string true "UUID пользователя"
// @Success 204 "Пользователь удален"
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{userId} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), actor, chi.URLParam(r, "userId")); err != nil {
		util.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// actorFromRequest : учетная запись вызывающего, положенная JWTMiddleware
func actorFromRequest(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	identity, ok := security.IdentityFromContext(r.Context())
	if !ok {
		util.WriteError(w, apperror.ErrNoToken)
		return nil, false
	}
	return identity.User, true
}
