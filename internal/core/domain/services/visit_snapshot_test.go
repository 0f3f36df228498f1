package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/vrp"
	"dispatch/internal/core/domain/services"
)

func TestBuildVisits(t *testing.T) {
	now := baseTime

	t.Run("should build pickup and dropoff windows from order times", func(t *testing.T) {
		o := makeOrder(t, "7001", now.Add(-10*time.Minute))

		visits, err := services.BuildVisits([]*order.Order{o}, now)

		require.NoError(t, err)
		require.Contains(t, visits, o.ID().String())
		v := visits[o.ID().String()]

		assert.Equal(t, 1, v.Load)
		assert.Equal(t, vrp.TypeAll, v.Type)
		// Prepare is 20 minutes, so the pickup opens 20 minutes after creation.
		assert.Equal(t, o.CreatedAt().Add(20*time.Minute).Unix(), v.Pickup.Start)
		assert.Equal(t, 4, v.Pickup.Duration)
		assert.Equal(t, "PICKUP#7001", v.Pickup.Location.Name)
		// Returning customer, so the dropoff must close 45 minutes after creation.
		assert.Equal(t, o.CreatedAt().Add(45*time.Minute).Unix(), v.Dropoff.End)
		assert.Equal(t, 2, v.Dropoff.Duration)
		assert.Equal(t, "DROPOFF#7001", v.Dropoff.Location.Name)
	})

	t.Run("should tighten the promise for a first order", func(t *testing.T) {
		o := makeOrder(t, "7002", now)
		restored, err := order.RestoreOrder(
			o.ID(), o.Passcode(), o.Status(), o.Restaurant(),
			order.Customer{ID: o.Customer().ID, Phone: o.Customer().Phone, OrderCount: 0},
			o.DeliveryAddress(), o.Region(), o.Items(), o.CreatedAt(),
			order.DeliveryUnset, nil, nil, nil, order.EstimateWindow{},
		)
		require.NoError(t, err)

		visits, err := services.BuildVisits([]*order.Order{restored}, now)

		require.NoError(t, err)
		assert.Equal(t, restored.CreatedAt().Add(40*time.Minute).Unix(),
			visits[restored.ID().String()].Dropoff.End)
	})

	t.Run("should floor the promise under the feasibility pad", func(t *testing.T) {
		o := makeOrder(t, "7003", now)
		restaurant := o.Restaurant()
		restaurant.PrepareMinutes = 40
		restored, err := order.RestoreOrder(
			o.ID(), o.Passcode(), o.Status(), restaurant, o.Customer(),
			o.DeliveryAddress(), o.Region(), o.Items(), o.CreatedAt(),
			order.DeliveryUnset, nil, nil, nil, order.EstimateWindow{},
		)
		require.NoError(t, err)

		visits, err := services.BuildVisits([]*order.Order{restored}, now)

		require.NoError(t, err)
		// 40 prepare + 15 pad beats the 45-minute promise.
		assert.Equal(t, restored.CreatedAt().Add(55*time.Minute).Unix(),
			visits[restored.ID().String()].Dropoff.End)
	})

	t.Run("should pin an assigned order to its courier", func(t *testing.T) {
		o := makeOrder(t, "7004", now)
		c := makeCourier(t, "alice", true, workingShift(t, now.Add(-time.Hour), now.Add(time.Hour)))
		require.NoError(t, o.MarkEnRoute(order.LegPickup, c.Info()))
		require.NoError(t, o.MarkLegCompleted(order.LegPickup, now))

		visits, err := services.BuildVisits([]*order.Order{o}, now)

		require.NoError(t, err)
		v := visits[o.ID().String()]
		assert.Equal(t, c.ID().String(), v.Type)
		// Completed pickup leg still collapses the pickup onto the dropoff.
		assert.Equal(t, vrp.IgnoreLocationName, v.Pickup.Location.Name)
		assert.Equal(t, v.Dropoff.Location.Lat, v.Pickup.Location.Lat)
		assert.Equal(t, v.Dropoff.Location.Lng, v.Pickup.Location.Lng)
		assert.Equal(t, int64(0), v.Pickup.Start)
		assert.Equal(t, 1, v.Pickup.Duration)
	})

	t.Run("should exclude an order already on its dropoff leg", func(t *testing.T) {
		done := makeOrder(t, "7005", now)
		c := makeCourier(t, "bob", true, workingShift(t, now.Add(-time.Hour), now.Add(time.Hour)))
		require.NoError(t, done.MarkEnRoute(order.LegDropoff, c.Info()))
		open := makeOrder(t, "7006", now)

		visits, err := services.BuildVisits([]*order.Order{done, open}, now)

		require.NoError(t, err)
		assert.NotContains(t, visits, done.ID().String())
		assert.Contains(t, visits, open.ID().String())
	})

	t.Run("should fail on an in-progress order without a courier", func(t *testing.T) {
		o := makeOrder(t, "7007", now)
		orphan, err := order.RestoreOrder(
			o.ID(), o.Passcode(), o.Status(), o.Restaurant(), o.Customer(),
			o.DeliveryAddress(), o.Region(), o.Items(), o.CreatedAt(),
			order.DeliveryAtPickup, nil, nil, nil, order.EstimateWindow{},
		)
		require.NoError(t, err)

		_, err = services.BuildVisits([]*order.Order{orphan}, now)

		assert.ErrorIs(t, err, services.ErrOrphanedInProgressStop)
		assert.ErrorContains(t, err, "7007")
	})

	t.Run("should skip completed and canceled orders", func(t *testing.T) {
		delivered := makeOrder(t, "7008", now)
		c := makeCourier(t, "dave", true, workingShift(t, now.Add(-time.Hour), now.Add(time.Hour)))
		require.NoError(t, delivered.MarkEnRoute(order.LegDropoff, c.Info()))
		require.NoError(t, delivered.MarkLegCompleted(order.LegDropoff, now))

		_, err := services.BuildVisits([]*order.Order{delivered}, now)

		assert.ErrorIs(t, err, services.ErrNoDeliveriesToPlan)
	})

	t.Run("should return error when nothing is plannable", func(t *testing.T) {
		_, err := services.BuildVisits(nil, now)

		assert.ErrorIs(t, err, services.ErrNoDeliveriesToPlan)
	})
}
