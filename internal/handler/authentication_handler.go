package handler

import (
	"encoding/json"
	"net/http"

	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model"
	"social-scheduler/internal/model/requestresponse"
	"social-scheduler/internal/ports"
	"social-scheduler/internal/security"
	"social-scheduler/internal/util"

	"github.com/go-chi/chi/v5"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
	cookies *security.CookieManager
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService, cookies *security.CookieManager) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService, cookies}
}

// Signup godoc
// @Summary Регистрация пользователя
// @Description Создает учетную запись с неподтвержденной почтой и отправляет письмо со ссылкой подтверждения
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.SignupRequest true "Тело запроса"
// @Success 201 {object} requestresponse.UserResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} requestresponse.ErrorResponse "Ошибка валидации или занятый email/имя"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /signup [post]
func (h *AuthenticationHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.AuthenticationService.Signup(r.Context(), model.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.UserResponse{
		Success: true,
		Message: "User registered successfully. Please check your email to verify your account.",
		User:    user,
	})
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Проверяет email и пароль, выставляет куки token и refreshToken
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный email или пароль"
// @Failure 403 {object} requestresponse.ErrorResponse "Почта не подтверждена"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	result, err := h.AuthenticationService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	h.cookies.SetAccessToken(w, result.Tokens.AccessToken)
	h.cookies.SetRefreshToken(w, result.Tokens.RefreshToken)

	util.WriteJSON(w, http.StatusOK, requestresponse.LoginResponse{
		Success:     true,
		AccessToken: result.Tokens.AccessToken,
		User:        result.User,
	})
}

// Logout godoc
// @Summary Завершение сессии
// @Description Очищает обе auth-куки. Токены без состояния, на сервере ничего не инвалидируется.
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.MessageResponse
// @Router /logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	util.WriteJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Me godoc
// @Summary Текущий пользователь
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.UserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь удален"
// @Security ApiKeyAuth
// @Router /me [get]
func (h *AuthenticationHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := security.IdentityFromContext(r.Context())
	if !ok {
		util.WriteError(w, apperror.ErrNoToken)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.UserResponse{
		Success: true,
		User:    identity.User,
	})
}

// Refresh godoc
// @Summary Обновление access токена
// @Description Выдает новый access токен по refresh токену из куки refreshToken
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.RefreshTokenResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Нет или невалидный refresh токен"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /refresh [post]
func (h *AuthenticationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.AuthenticationService.Refresh(r.Context(), h.cookies.RefreshToken(r))
	if err != nil {
		util.WriteError(w, err)
		return
	}

	h.cookies.SetAccessToken(w, tokens.AccessToken)
	if tokens.RefreshToken != "" {
		h.cookies.SetRefreshToken(w, tokens.RefreshToken)
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.RefreshTokenResponse{
		Success: true,
		Token:   tokens.AccessToken,
	})
}

// VerifyEmail godoc
// @Summary Подтверждение почты
// @Tags Authentication
// @Produce json
// @Param token path string true "Токен из письма"
// @Success 200 {object} requestresponse.UserResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Неверный или истекший токен"
// @Router /verify-email/{token} [get]
func (h *AuthenticationHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.AuthenticationService.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.UserResponse{
		Success: true,
		Message: "Email verified successfully",
		User:    user,
	})
}

// ResendVerificationEmail godoc
// @Summary Повторная отправка письма подтверждения
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.EmailRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 422 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse "Письмо не отправлено"
// @Router /resend-verification-email [post]
func (h *AuthenticationHandler) ResendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.AuthenticationService.ResendVerificationEmail(r.Context(), req.Email); err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Success: true,
		Message: "Verification email sent",
	})
}

// ForgotPassword godoc
// @Summary Запрос на сброс пароля
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.EmailRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 422 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse "Письмо не отправлено"
// @Router /forgot-password [post]
func (h *AuthenticationHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.AuthenticationService.ForgotPassword(r.Context(), req.Email); err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Success: true,
		Message: "Password reset email sent",
	})
}

// ResetPassword godoc
// @Summary Установка нового пароля
// @Tags Authentication
// @Accept json
// @Produce json
// @Param token path string true "Токен из письма"
// @Param body body requestresponse.ResetPasswordRequest true "Тело запроса"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный или истекший токен"
// @Failure 422 {object} requestresponse.ErrorResponse "Пароли не совпадают или слишком короткие"
// @Router /reset-password/{token} [post]
func (h *AuthenticationHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	err := h.AuthenticationService.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password, req.PasswordConfirmation)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.MessageResponse{
		Success: true,
		Message: "Password has been reset successfully",
	})
}

// VerifyResetToken godoc
// @Summary Проверка токена сброса пароля
// @Tags Authentication
// @Produce json
// @Param token path string true "Токен из письма"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Неверный или истекший токен"
// @Router /verify-reset-token/{token} [get]
func (h *AuthenticationHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthenticationService.VerifyResetToken(r.Context(), chi.URLParam(r, "token")); err != nil {
		util.WriteError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.MessageResponse{Success: true})
}

// decodeJSON : при ошибке сам отвечает 400
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		util.WriteError(w, apperror.BadRequest("Invalid request body"))
		return err
	}
	return nil
}
