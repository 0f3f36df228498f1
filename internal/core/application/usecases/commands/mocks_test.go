package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/vrp"
	"dispatch/internal/core/ports"
)

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAll(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllOpen(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Add(ctx context.Context, event ports.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) EventRepository() ports.EventRepository {
	args := m.Called()
	return args.Get(0).(ports.EventRepository)
}

type MockStopUoWFactory struct{ mock.Mock }

func (m *MockStopUoWFactory) Create() commands.StopUoW {
	args := m.Called()
	return args.Get(0).(commands.StopUoW)
}

type MockPlanUoWFactory struct{ mock.Mock }

func (m *MockPlanUoWFactory) Create() commands.PlanUoW {
	args := m.Called()
	return args.Get(0).(commands.PlanUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOptimizerClient struct{ mock.Mock }

func (m *MockOptimizerClient) Solve(ctx context.Context, problem vrp.Problem) (vrp.Output, error) {
	args := m.Called(ctx, problem)
	return args.Get(0).(vrp.Output), args.Error(1)
}

type MockRunStampStore struct{ mock.Mock }

func (m *MockRunStampStore) Current(ctx context.Context, region string) (int64, error) {
	args := m.Called(ctx, region)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRunStampStore) Touch(ctx context.Context, region string) (int64, error) {
	args := m.Called(ctx, region)
	return args.Get(0).(int64), args.Error(1)
}

var testTime = time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC)

func testGeoPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func testOrder(t *testing.T, passcode string, createdAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		passcode,
		order.Restaurant{
			ID:    kernel.NewUUID(),
			Name:  "Thai Basil",
			Phone: "+14155550111",
			Address: order.Address{
				Text:     "2 Market St",
				Location: testGeoPoint(t, 37.771, -122.41),
			},
			PrepareMinutes: 15,
			Estimate:       order.EstimateWindow{Min: 30, Max: 45},
		},
		order.Customer{ID: kernel.NewUUID(), Phone: "+14155550222", OrderCount: 2},
		order.Address{Text: "8 Oak Ave", Location: testGeoPoint(t, 37.781, -122.40)},
		"soma",
		[]string{"pad thai"},
		createdAt,
	)
	require.NoError(t, err)
	return o
}

func testCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()
	start := testTime.Add(-2 * time.Hour)
	end := testTime.Add(6 * time.Hour)
	shift, err := courier.NewShift(start, end)
	require.NoError(t, err)

	c, err := courier.NewCourier(
		kernel.NewUUID(),
		name,
		name+"@dispatch.test",
		"+14155550333",
		testGeoPoint(t, 37.76, -122.42),
		[]courier.Shift{shift},
	)
	require.NoError(t, err)
	c.SetOnCall(true)
	return c
}

func testStop(o *order.Order, leg order.Leg, arriveAt, finishAt time.Time) courier.Stop {
	restaurant := o.Restaurant()
	address := o.DeliveryAddress()
	phone := o.Customer().Phone
	if leg == order.LegPickup {
		address = restaurant.Address
		phone = restaurant.Phone
	}
	return courier.Stop{
		Leg: leg,
		Order: courier.OrderRef{
			ID:             o.ID(),
			Passcode:       o.Passcode(),
			CreatedAt:      o.CreatedAt(),
			Region:         o.Region(),
			RestaurantID:   restaurant.ID,
			RestaurantName: restaurant.Name,
			PrepareMinutes: restaurant.PrepareMinutes,
			Items:          o.Items(),
		},
		Address:  address,
		Phone:    phone,
		ArriveAt: arriveAt,
		FinishAt: finishAt,
	}
}
