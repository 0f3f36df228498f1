package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRestaurant(t *testing.T) order.Restaurant {
	t.Helper()
	location, err := kernel.NewGeoPoint(37.7649, -122.4294)
	require.NoError(t, err)

	return order.Restaurant{
		ID:             kernel.NewUUID(),
		Name:           "Taqueria",
		Phone:          "+14155550122",
		Address:        order.Address{Text: "500 Mission St", Location: location},
		PrepareMinutes: 20,
		Estimate:       order.EstimateWindow{Min: 30, Max: 45},
	}
}

func validDropoff(t *testing.T) order.Address {
	t.Helper()
	location, err := kernel.NewGeoPoint(37.7849, -122.4094)
	require.NoError(t, err)
	return order.Address{Text: "123 Valencia St", Location: location}
}

func validCourierInfo() order.CourierInfo {
	return order.CourierInfo{
		ID:    kernel.NewUUID(),
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: "+14155550100",
	}
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"4821",
		validRestaurant(t),
		order.Customer{ID: kernel.NewUUID(), Phone: "+14155550111", OrderCount: 3},
		validDropoff(t),
		"soma",
		[]string{"burrito"},
		time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	createdAt := time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC)

	t.Run("should create confirmed order with fresh delivery state", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.StatusConfirmed, o.Status())
		assert.Equal(t, order.DeliveryUnset, o.DeliveryStatus())
		assert.Nil(t, o.Courier())
		assert.Nil(t, o.DeliveredAt())
		assert.Nil(t, o.DeliveryFinishAt())
		assert.True(t, o.IsOpenForPlanning())
	})

	t.Run("should default prepare minutes when restaurant has none", func(t *testing.T) {
		restaurant := validRestaurant(t)
		restaurant.PrepareMinutes = 0

		o, err := order.NewOrder(
			kernel.NewUUID(), "4821", restaurant,
			order.Customer{ID: kernel.NewUUID()}, validDropoff(t),
			"soma", nil, createdAt,
		)

		require.NoError(t, err)
		assert.Equal(t, order.DefaultPrepareMinutes, o.PrepareMinutes())
	})

	t.Run("should default the promised estimate window", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, order.EstimateWindow{
			Min: order.DefaultEstimateMinMinutes,
			Max: order.DefaultEstimateMaxMinutes,
		}, o.DeliveryEstimate())
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(
			invalidID, "4821", validRestaurant(t),
			order.Customer{}, validDropoff(t), "soma", nil, createdAt,
		)

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with empty passcode", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), "", validRestaurant(t),
			order.Customer{}, validDropoff(t), "soma", nil, createdAt,
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "passcode")
	})

	t.Run("should fail with zero creation time", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), "4821", validRestaurant(t),
			order.Customer{}, validDropoff(t), "soma", nil, time.Time{},
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "createdAt")
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should fail validation for nil order", func(t *testing.T) {
		var o *order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("should fail validation for zero value order", func(t *testing.T) {
		var o order.Order

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})
}

func TestOrder_Schedule(t *testing.T) {
	t.Run("should advance plannable order to scheduled", func(t *testing.T) {
		o := newTestOrder(t)
		finishAt := o.CreatedAt().Add(40 * time.Minute)

		err := o.Schedule(finishAt)

		require.NoError(t, err)
		assert.Equal(t, order.DeliveryScheduled, o.DeliveryStatus())
		require.NotNil(t, o.DeliveryFinishAt())
		assert.True(t, o.DeliveryFinishAt().Equal(finishAt))
	})

	t.Run("should keep in-progress status on reschedule", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkEnRoute(order.LegPickup, validCourierInfo()))

		err := o.Schedule(o.CreatedAt().Add(50 * time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.DeliveryEnRouteToPickup, o.DeliveryStatus())
	})

	t.Run("should reject scheduling a terminal delivery", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkFailed())

		err := o.Schedule(o.CreatedAt().Add(40 * time.Minute))

		require.ErrorIs(t, err, order.ErrDeliveryIsTerminal)
	})
}

func TestOrder_DeliveryLifecycle(t *testing.T) {
	t.Run("should walk the full pickup then dropoff sequence", func(t *testing.T) {
		o := newTestOrder(t)
		info := validCourierInfo()
		deliveredAt := o.CreatedAt().Add(42 * time.Minute)

		require.NoError(t, o.MarkEnRoute(order.LegPickup, info))
		assert.Equal(t, order.DeliveryEnRouteToPickup, o.DeliveryStatus())
		require.NotNil(t, o.Courier())
		assert.Equal(t, "Alice", o.Courier().Name)
		// An in-progress pickup stays in the planning pool; the snapshot
		// builder collapses it into a pinned waypoint.
		assert.True(t, o.IsOpenForPlanning())

		require.NoError(t, o.MarkArrived(order.LegPickup))
		assert.Equal(t, order.DeliveryAtPickup, o.DeliveryStatus())

		require.NoError(t, o.MarkLegCompleted(order.LegPickup, o.CreatedAt().Add(20*time.Minute)))
		assert.Equal(t, order.DeliveryPickupCompleted, o.DeliveryStatus())
		assert.Nil(t, o.DeliveredAt())

		require.NoError(t, o.MarkEnRoute(order.LegDropoff, info))
		require.NoError(t, o.MarkArrived(order.LegDropoff))

		require.NoError(t, o.MarkLegCompleted(order.LegDropoff, deliveredAt))
		assert.Equal(t, order.DeliveryCompleted, o.DeliveryStatus())
		require.NotNil(t, o.DeliveredAt())
		assert.True(t, o.DeliveredAt().Equal(deliveredAt))
	})

	t.Run("should reject transitions on a completed delivery", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkEnRoute(order.LegDropoff, validCourierInfo()))
		require.NoError(t, o.MarkLegCompleted(order.LegDropoff, o.CreatedAt().Add(40*time.Minute)))

		assert.ErrorIs(t, o.MarkEnRoute(order.LegPickup, validCourierInfo()), order.ErrDeliveryIsTerminal)
		assert.ErrorIs(t, o.MarkArrived(order.LegPickup), order.ErrDeliveryIsTerminal)
		assert.ErrorIs(t, o.MarkFailed(), order.ErrDeliveryIsTerminal)
	})

	t.Run("should reject an invalid leg", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.MarkEnRoute(order.Leg("sideways"), validCourierInfo())

		require.Error(t, err)
	})
}

func TestOrder_MarkFailed(t *testing.T) {
	t.Run("should release the courier", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkEnRoute(order.LegPickup, validCourierInfo()))

		err := o.MarkFailed()

		require.NoError(t, err)
		assert.Equal(t, order.DeliveryFailed, o.DeliveryStatus())
		assert.Nil(t, o.Courier())
		assert.False(t, o.IsOpenForPlanning())
	})
}

func TestOrder_Requeue(t *testing.T) {
	t.Run("should return failed order to the plannable pool with shifted estimates", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkEnRoute(order.LegPickup, validCourierInfo()))
		require.NoError(t, o.MarkFailed())

		err := o.Requeue(35, 15)

		require.NoError(t, err)
		assert.Equal(t, order.DeliveryProcessing, o.DeliveryStatus())
		assert.Nil(t, o.Courier())
		assert.Equal(t, 35, o.PrepareMinutes())
		assert.Equal(t, order.EstimateWindow{Min: 45, Max: 60}, o.Restaurant().Estimate)
		assert.Equal(t, order.EstimateWindow{Min: 45, Max: 60}, o.DeliveryEstimate())
		assert.True(t, o.IsOpenForPlanning())
	})
}

func TestOrder_ResetDelivery(t *testing.T) {
	t.Run("should wipe delivery progress", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.MarkEnRoute(order.LegDropoff, validCourierInfo()))
		require.NoError(t, o.MarkLegCompleted(order.LegDropoff, o.CreatedAt().Add(40*time.Minute)))

		o.ResetDelivery()

		assert.Equal(t, order.DeliveryUnset, o.DeliveryStatus())
		assert.Nil(t, o.Courier())
		assert.Nil(t, o.DeliveredAt())
		assert.Nil(t, o.DeliveryFinishAt())
		assert.True(t, o.IsOpenForPlanning())
	})
}

func TestStatus_StringRoundTrip(t *testing.T) {
	for _, status := range []order.Status{
		order.StatusPending, order.StatusConfirmed, order.StatusCanceled,
	} {
		parsed, err := order.StatusFromString(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	_, err := order.StatusFromString("bogus")
	require.Error(t, err)
}
