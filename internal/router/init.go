package router

import (
	"github.com/oksasatya/go-ddd-social-accounts/internal/application"
	"github.com/oksasatya/go-ddd-social-accounts/internal/container"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/repository"
	"github.com/oksasatya/go-ddd-social-accounts/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-social-accounts/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-ddd-social-accounts/internal/interface/http"
	"github.com/oksasatya/go-ddd-social-accounts/internal/router/modules"
)

type accountDeps struct {
	Repo    repository.UserRepository
	Service *application.Service
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Profile *handlers.ProfileHandler
}

// userRepository prefers an explicitly registered repository, then a SQL
// handle, and falls back to the in-memory store.
func userRepository() repository.UserRepository {
	if repo := container.GetUserRepository(); repo != nil {
		return repo
	}
	var repo repository.UserRepository
	if db := container.GetDB(); db != nil {
		repo = pginfra.NewUserRepository(db)
	} else {
		container.GetLogger().Warn("no database configured; using in-memory user store")
		repo = memory.NewUserRepository()
	}
	container.SetUserRepository(repo)
	return repo
}

func buildAccountDeps() accountDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := userRepository()

	service := application.NewService(
		repo,
		container.GetJWT(),
		container.GetAvatarStore(),
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
		application.NewNotifier(container.Publisher(), cfg, logger),
	)

	return accountDeps{
		Repo:    repo,
		Service: service,
		Auth:    handlers.NewAuthHandler(service, logger),
		User:    handlers.NewUserHandler(service, logger),
		Profile: handlers.NewProfileHandler(service, logger),
	}
}

// InitModules wires every feature module into the registry. Call once at
// startup, after the container has been populated.
func InitModules(r *Registry) {
	deps := buildAccountDeps()
	jwt := container.GetJWT()

	r.Add(
		modules.NewHealthModule(container.GetDB(), container.GetRedis()),
		modules.NewAuthModule(deps.Auth),
		modules.NewUserModule(deps.User, jwt),
		modules.NewProfileModule(deps.Profile, jwt),
	)
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
