package postgres_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/eventrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&courierrepo.CourierDTO{},
		&orderrepo.OrderDTO{},
		&eventrepo.EventDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE couriers, orders, events").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAllRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	c := suite.createTestCourier()
	suite.Require().NoError(uow.CourierRepository().Add(ctx, c))

	o := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))

	event := ports.Event{
		Name:       "order.delivery.en-route-to-pickup",
		OccurredAt: time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC),
		Data:       ports.EventData{Courier: c.Info(), DiffMinutes: 2},
		Scope:      ports.EventScope{Order: o.ID().String()},
	}
	suite.Require().NoError(uow.EventRepository().Add(ctx, event))

	suite.Require().NoError(uow.Commit(ctx))

	suite.assertCount(&courierrepo.CourierDTO{}, 1)
	suite.assertCount(&orderrepo.OrderDTO{}, 1)
	suite.assertCount(&eventrepo.EventDTO{}, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.CourierRepository().Add(ctx, suite.createTestCourier()))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.createTestOrder()))

	suite.Require().NoError(uow.Rollback(ctx))

	suite.assertCount(&courierrepo.CourierDTO{}, 0)
	suite.assertCount(&orderrepo.OrderDTO{}, 0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_AfterCommit_IsNoOp() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, suite.createTestCourier()))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Rollback(ctx))

	suite.assertCount(&courierrepo.CourierDTO{}, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()

	err := uow.Commit(context.Background())

	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_IsIdempotent() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.CourierRepository().Add(ctx, suite.createTestCourier()))
	suite.Require().NoError(uow.Commit(ctx))

	suite.assertCount(&courierrepo.CourierDTO{}, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) assertCount(model any, expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(model).Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestCourier() *courier.Courier {
	location, err := kernel.NewGeoPoint(37.7749, -122.4194)
	suite.Require().NoError(err)

	shiftStart := time.Date(2024, 3, 12, 15, 0, 0, 0, time.UTC)
	shift, err := courier.NewShift(shiftStart, shiftStart.Add(8*time.Hour))
	suite.Require().NoError(err)

	c, err := courier.NewCourier(
		kernel.NewUUID(),
		"Alice",
		"alice@example.com",
		"+14155550100",
		location,
		[]courier.Shift{shift},
	)
	suite.Require().NoError(err)

	return c
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	restaurantLoc, err := kernel.NewGeoPoint(37.7649, -122.4294)
	suite.Require().NoError(err)
	dropoffLoc, err := kernel.NewGeoPoint(37.7849, -122.4094)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		"4821",
		order.Restaurant{
			ID:             kernel.NewUUID(),
			Name:           "Taqueria",
			Phone:          "+14155550122",
			Address:        order.Address{Text: "500 Mission St", Location: restaurantLoc},
			PrepareMinutes: 20,
			Estimate:       order.EstimateWindow{Min: 30, Max: 45},
		},
		order.Customer{ID: kernel.NewUUID(), Phone: "+14155550111", OrderCount: 3},
		order.Address{Text: "123 Valencia St", Location: dropoffLoc},
		"soma",
		[]string{"burrito"},
		time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC),
	)
	suite.Require().NoError(err)

	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
