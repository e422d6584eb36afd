// Package mypedia предоставляет маршруты для основного приложения.
package mypedia

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/mypedia/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/mypedia/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/mypedia/internal/http/handlers/auth/register"
	coursecreate "github.com/magabrotheeeer/mypedia/internal/http/handlers/course/create"
	courselist "github.com/magabrotheeeer/mypedia/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/mypedia/internal/http/handlers/course/read"
	courseremove "github.com/magabrotheeeer/mypedia/internal/http/handlers/course/remove"
	courseupdate "github.com/magabrotheeeer/mypedia/internal/http/handlers/course/update"
	"github.com/magabrotheeeer/mypedia/internal/http/handlers/health"
	lessoncreate "github.com/magabrotheeeer/mypedia/internal/http/handlers/lesson/create"
	lessonlist "github.com/magabrotheeeer/mypedia/internal/http/handlers/lesson/list"
	lessonread "github.com/magabrotheeeer/mypedia/internal/http/handlers/lesson/read"
	lessonremove "github.com/magabrotheeeer/mypedia/internal/http/handlers/lesson/remove"
	lessonupdate "github.com/magabrotheeeer/mypedia/internal/http/handlers/lesson/update"
	"github.com/magabrotheeeer/mypedia/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/mypedia/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/mypedia/internal/http/handlers/payment/paymentread"
	"github.com/magabrotheeeer/mypedia/internal/http/handlers/payment/paymentremove"
	"github.com/magabrotheeeer/mypedia/internal/http/handlers/payment/paymentupdate"
	subcreate "github.com/magabrotheeeer/mypedia/internal/http/handlers/subscription/create"
	sublist "github.com/magabrotheeeer/mypedia/internal/http/handlers/subscription/list"
	subread "github.com/magabrotheeeer/mypedia/internal/http/handlers/subscription/read"
	subremove "github.com/magabrotheeeer/mypedia/internal/http/handlers/subscription/remove"
	subupdate "github.com/magabrotheeeer/mypedia/internal/http/handlers/subscription/update"
	userlist "github.com/magabrotheeeer/mypedia/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/mypedia/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/mypedia/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/mypedia/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/mypedia/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/mypedia/internal/services/auth"
	courseservice "github.com/magabrotheeeer/mypedia/internal/services/course"
	lessonservice "github.com/magabrotheeeer/mypedia/internal/services/lesson"
	paymentservice "github.com/magabrotheeeer/mypedia/internal/services/payment"
	subscriptionservice "github.com/magabrotheeeer/mypedia/internal/services/subscription"
	userservice "github.com/magabrotheeeer/mypedia/internal/services/user"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// Services объединяет сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth          *authservice.AuthService
	Courses       *courseservice.CourseService
	Lessons       *lessonservice.LessonService
	Subscriptions *subscriptionservice.SubscriptionService
	Payments      *paymentservice.PaymentService
	Users         *userservice.UserService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, jwtMaker middlewarectx.Maker, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Post("/token/refresh", refresh.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/courses", coursecreate.New(logger, svc.Courses).ServeHTTP)
			r.Get("/courses", courselist.New(logger, svc.Courses).ServeHTTP)
			r.Get("/courses/{id}", courseread.New(logger, svc.Courses).ServeHTTP)
			r.Put("/courses/{id}", courseupdate.New(logger, svc.Courses).ServeHTTP)
			r.Delete("/courses/{id}", courseremove.New(logger, svc.Courses).ServeHTTP)

			r.Post("/lessons", lessoncreate.New(logger, svc.Lessons).ServeHTTP)
			r.Get("/lessons", lessonlist.New(logger, svc.Lessons).ServeHTTP)
			r.Get("/lessons/{id}", lessonread.New(logger, svc.Lessons).ServeHTTP)
			r.Put("/lessons/{id}", lessonupdate.New(logger, svc.Lessons).ServeHTTP)
			r.Delete("/lessons/{id}", lessonremove.New(logger, svc.Lessons).ServeHTTP)

			r.Post("/subscriptions", subcreate.New(logger, svc.Subscriptions).ServeHTTP)
			r.Get("/subscriptions", sublist.New(logger, svc.Subscriptions).ServeHTTP)
			r.Get("/subscriptions/{id}", subread.New(logger, svc.Subscriptions).ServeHTTP)
			r.Put("/subscriptions/{id}", subupdate.New(logger, svc.Subscriptions).ServeHTTP)
			r.Delete("/subscriptions/{id}", subremove.New(logger, svc.Subscriptions).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, svc.Payments).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, svc.Payments).ServeHTTP)
			r.Get("/payments/{id}", paymentread.New(logger, svc.Payments).ServeHTTP)
			r.Put("/payments/{id}", paymentupdate.New(logger, svc.Payments).ServeHTTP)
			r.Delete("/payments/{id}", paymentremove.New(logger, svc.Payments).ServeHTTP)

			r.Get("/users", userlist.New(logger, svc.Users).ServeHTTP)
			r.Get("/users/{id}", userread.New(logger, svc.Users).ServeHTTP)
			r.Patch("/users/{id}", userupdate.New(logger, svc.Users).ServeHTTP)
			r.Delete("/users/{id}", userremove.New(logger, svc.Users).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
