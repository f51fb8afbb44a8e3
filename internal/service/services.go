package service

import (
	redisx "github.com/kirinyoku/reg-go/internal/redis"
	postgres "github.com/kirinyoku/reg-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/reg-go/internal/repository/redis"
	"github.com/kirinyoku/reg-go/internal/service/admin"
	"github.com/kirinyoku/reg-go/internal/service/query"
	"github.com/kirinyoku/reg-go/internal/service/registration"
	"github.com/kirinyoku/reg-go/internal/uow"
)

type Services struct {
	Registration *registration.Service
	Query        *query.Service
	Admin        *admin.Service
}

type Config struct {
	Registration registration.Config
}

func NewServices(
	store *postgres.Store,
	runner uow.Runner,
	cache *redisrepo.Cache,
	pubsub *redisx.RegistrationsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Registration: registration.New(runner, cache, pubsub, limiter, cfg.Registration),
		Query:        query.New(store, cache),
		Admin:        admin.New(store, runner, cache, pubsub),
	}
}
