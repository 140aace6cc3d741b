package routers

import (
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.With(middlewares.Authentication).Post("/", appointmentController.Book)
	router.With(middlewares.Authentication).Get("/me", appointmentController.FindMine)
	router.With(middlewares.Authentication).Delete("/{appointmentID}", appointmentController.Cancel)
}
