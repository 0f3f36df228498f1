package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

var baseTime = time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC)

func mustGeoPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func makeOrder(t *testing.T, passcode string, createdAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		passcode,
		order.Restaurant{
			ID:    kernel.NewUUID(),
			Name:  "Golden Wok",
			Phone: "+14155550101",
			Address: order.Address{
				Text:     "1 Kitchen Way",
				Location: mustGeoPoint(t, 37.7749, -122.4194),
			},
			PrepareMinutes: 20,
			Estimate:       order.EstimateWindow{Min: 30, Max: 45},
		},
		order.Customer{
			ID:         kernel.NewUUID(),
			Phone:      "+14155550202",
			OrderCount: 3,
		},
		order.Address{
			Text:     "9 Home St",
			Location: mustGeoPoint(t, 37.7849, -122.4094),
		},
		"soma",
		[]string{"kung pao chicken"},
		createdAt,
	)
	require.NoError(t, err)
	return o
}

func makeCourier(t *testing.T, name string, onCall bool, shifts []courier.Shift) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(
		kernel.NewUUID(),
		name,
		name+"@dispatch.test",
		"+14155550303",
		mustGeoPoint(t, 37.76, -122.42),
		shifts,
	)
	require.NoError(t, err)
	c.SetOnCall(onCall)
	return c
}

func workingShift(t *testing.T, start, end time.Time) []courier.Shift {
	t.Helper()
	s, err := courier.NewShift(start, end)
	require.NoError(t, err)
	return []courier.Shift{s}
}

func makeStop(leg order.Leg, o *order.Order, arriveAt, finishAt time.Time) courier.Stop {
	restaurant := o.Restaurant()
	address := o.DeliveryAddress()
	if leg == order.LegPickup {
		address = restaurant.Address
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
		ArriveAt: arriveAt,
		FinishAt: finishAt,
	}
}
