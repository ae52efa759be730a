package util

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"social-scheduler/internal/apperror"
	"social-scheduler/internal/model/requestresponse"
)

func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Util] ошибка записи ответа: %v", err)
	}
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, requestresponse.ErrorResponse{
		Success: false,
		Message: message,
	})
}

// WriteError : ответ по ошибке сервиса. Неизвестные ошибки логируются и отдаются как 500.
func WriteError(w http.ResponseWriter, err error) {
	appErr := apperror.As(err)
	if appErr == nil || appErr.Kind == apperror.KindInternal {
		log.Printf("[Util] внутренняя ошибка: %v", err)
		HandleError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := requestresponse.ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
	}
	for _, field := range appErr.Fields {
		resp.Errors = append(resp.Errors, requestresponse.FieldError{Path: field.Path, Msg: field.Msg})
	}

	WriteJSON(w, appErr.Status(), resp)
}
