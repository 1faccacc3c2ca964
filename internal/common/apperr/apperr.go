package apperr

import (
	"errors"
	"net/http"
)

// 业务错误按固定的分类收敛，传输层只认这几个哨兵：
// - InvalidCredentials 对 “用户不存在” 和 “密码错误” 必须是同一个错误（避免泄露账号存在性）
// - NotFound 对 “记录不存在” 和 “记录属于他人” 必须是同一个错误（防枚举）
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
)

// HTTPStatus 错误分类到 HTTP 状态码的唯一映射。
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message 对外可见的错误文案。5xx 一律返回固定文案，细节只进日志。
func Message(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "server error"
	}
	return err.Error()
}
