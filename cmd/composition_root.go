package cmd

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redisstamp"
	"dispatch/internal/adapters/out/tron"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
)

// CompositionRoot wires adapters into handlers. Every Create method returns
// a ready-to-use handler bound to the shared DB, redis, and optimizer.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	stamps     ports.RunStampStore
	optimizer  ports.OptimizerClient
}

// NewCompositionRoot builds the application graph from its infrastructure
// endpoints.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		stamps:     redisstamp.NewRedisRunStampStore(redisClient),
		optimizer:  tron.NewClient(config.TronURL),
	}
}

func (c *CompositionRoot) CreateIngestOrderCommandHandler() commands.IngestOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewIngestOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateBeginStopCommandHandler() commands.BeginStopCommandHandler {
	var f commands.StopUoWFactory = FuncStopUoWFactory(func() commands.StopUoW {
		return c.uowFactory.Create()
	})
	return commands.NewBeginStopCommandHandler(f, c.stamps)
}

func (c *CompositionRoot) CreateUpdateStopCommandHandler() commands.UpdateStopCommandHandler {
	var f commands.StopUoWFactory = FuncStopUoWFactory(func() commands.StopUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateStopCommandHandler(f, c.stamps)
}

func (c *CompositionRoot) CreateReplanRoutesCommandHandler() commands.ReplanRoutesCommandHandler {
	var f commands.PlanUoWFactory = FuncPlanUoWFactory(func() commands.PlanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReplanRoutesCommandHandler(f, c.optimizer, c.stamps, time.Now)
}

func (c *CompositionRoot) CreateGetActiveCouriersQueryHandler() queries.GetActiveCouriersQueryHandler {
	return queries.NewGetActiveCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOpenOrdersQueryHandler() queries.GetOpenOrdersQueryHandler {
	return queries.NewGetOpenOrdersQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the echo route handlers.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateBeginStopCommandHandler(),
		c.CreateUpdateStopCommandHandler(),
		c.CreateReplanRoutesCommandHandler(),
		c.CreateGetActiveCouriersQueryHandler(),
		c.CreateGetOpenOrdersQueryHandler(),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncPlanUoWFactory func() commands.PlanUoW

func (f FuncPlanUoWFactory) Create() commands.PlanUoW {
	return f()
}

type FuncStopUoWFactory func() commands.StopUoW

func (f FuncStopUoWFactory) Create() commands.StopUoW {
	return f()
}
