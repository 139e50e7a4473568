package handler

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/taskflow-dev/taskflow/backend/internal/config"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/service"
)

const (
	APIPrefix       = "/api/v1"
	TokenCookieName = "access_token"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Sessions *service.SessionResolver
	Auth     *service.AuthService
	Tasks    *service.TaskService
	Users    *service.UserService
	Health   HealthChecker
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	translator  ut.Translator
	sessions    *service.SessionResolver
	authService *service.AuthService
	taskService *service.TaskService
	userService *service.UserService
	health      HealthChecker

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, svc Services) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 校验错误中使用 json 字段名
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterCustomTypeFunc(optionalValue, domain.Optional[string]{}, domain.Optional[domain.TaskStatus]{})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		translator:  trans,
		sessions:    svc.Sessions,
		authService: svc.Auth,
		taskService: svc.Tasks,
		userService: svc.Users,
		health:      svc.Health,

		Mux: chi.NewRouter(),
	}, nil
}

// optionalValue 让 validator 校验 Optional 中的值，未提供时视为空
func optionalValue(field reflect.Value) interface{} {
	if o, ok := field.Interface().(interface{ Interface() any }); ok {
		return o.Interface()
	}
	return nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.config.CORS.AllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h.Mux.Get("/healthz", h.Health)

	h.Mux.Route(APIPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(h.auth).Get("/me", h.Me)
		})

		// 以下 API 必须要在登录后才允许调用
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Route("/tasks", func(r chi.Router) {
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateTask)
				r.Get("/", h.GetTasks)
				r.Route("/{taskID}", func(r chi.Router) {
					r.Patch("/", h.UpdateTask)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteTask)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/", h.GetUsers)
			})
		})
	})
}
