package router

import (
	"github.com/subtle-marketing/account-service/internal/application"
	"github.com/subtle-marketing/account-service/internal/container"
	pginfra "github.com/subtle-marketing/account-service/internal/infrastructure/postgres"
	handlers "github.com/subtle-marketing/account-service/internal/interface/http"
	"github.com/subtle-marketing/account-service/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := application.NewService(
		repo,
		container.GetCodes(),
		container.GetMailer(),
		container.GetRabbitPub(),
		container.GetLogger(),
		container.GetConfig(),
	)

	handler := handlers.NewAuthHandler(service, container.GetLogger())

	r.Add(modules.NewAuthModule(handler))
}
