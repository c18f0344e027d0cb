package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"pos/internal/domain/model"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 状態遷移エラーは409にして遷移内容をそのまま返す
func transitionError(err error) error {
	var ite *model.InvalidTransitionError
	if errors.As(err, &ite) {
		return NewHTTPError(http.StatusConflict, ite.Error())
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
