package router

import (
	userapp "github.com/DarieldonMedeiros/santander-bootcamp/internal/application"
	"github.com/DarieldonMedeiros/santander-bootcamp/internal/container"
	pginfra "github.com/DarieldonMedeiros/santander-bootcamp/internal/infrastructure/postgres"
	handlers "github.com/DarieldonMedeiros/santander-bootcamp/internal/interface/http"
	"github.com/DarieldonMedeiros/santander-bootcamp/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := userapp.NewService(
		repo,
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESUsersIndex,
	)

	handler := handlers.NewUserHandler(
		service,
		container.GetLogger(),
		container.GetRabbitPub(),
	)

	return modules.NewUserModule(handler)
}

// InitModules wires every application module into the router registry.
// Called once during startup.
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	r.Add(modules.NewDebugModule())
}
