package routers

import (
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachDoctorRoutes(router chi.Router, middlewares *middlewares.Middlewares, doctorController *controllers.DoctorController) {
	router.With(middlewares.Authentication).Post("/", doctorController.Create)
	router.With(middlewares.Authentication).Post("/{doctorID}/slots", doctorController.PublishSlots)
	router.Get("/{doctorID}/slots", doctorController.FindSlots)
}
