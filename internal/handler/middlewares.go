package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/service"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		ctx := context.WithValue(r.Context(), RequestIDCtx, requestID)
		next.ServeHTTP(rw, r.WithContext(ctx))
		duration := time.Since(start)
		slog.Info("已处理请求", "request_id", requestID, "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// auth 解析会话 cookie，并把当前用户的完整记录附在 context 中
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			h.internalServerError(w, r, err)
			return
		}
		if cookie != nil {
			tokenString = cookie.Value
		}

		myInfo, err := h.sessions.Resolve(r.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingToken):
				h.errorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
			case errors.Is(err, service.ErrInvalidToken):
				h.errorResponse(w, r, http.StatusUnauthorized, "Invalid token")
			case errors.Is(err, service.ErrUnknownSubject):
				h.errorResponse(w, r, http.StatusUnauthorized, "User not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequiredRole 依据从存储中读取的角色判断，而不是令牌中的角色
func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
			if !slices.Contains(roles, myInfo.Role) {
				h.errorResponse(w, r, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
