package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/vrp"
	"dispatch/internal/core/domain/services"
)

func TestShiftProblem(t *testing.T) {
	reference := baseTime
	now := reference.Add(72 * time.Hour)
	offset := now.Unix() - reference.Unix()

	problem := vrp.Problem{
		Visits: vrp.Visits{
			"o1": {
				Load:    1,
				Pickup:  vrp.Window{Start: reference.Unix(), Duration: 4},
				Dropoff: vrp.Window{End: reference.Add(45 * time.Minute).Unix(), Duration: 2},
				Type:    vrp.TypeAll,
			},
			"o2": {
				Load:    1,
				Pickup:  vrp.Window{Duration: 1},
				Dropoff: vrp.Window{End: reference.Add(30 * time.Minute).Unix(), Duration: 2},
				Type:    "courier-1",
			},
		},
		Fleet: vrp.Fleet{
			"courier-1": {Type: []string{"courier-1"}, ShiftStart: reference.Unix()},
		},
		Options: vrp.DefaultOptions(),
	}

	shifted := services.ShiftProblem(problem, reference, now)

	t.Run("should rebase every non-zero timestamp by the offset", func(t *testing.T) {
		assert.Equal(t, reference.Unix()+offset, shifted.Visits["o1"].Pickup.Start)
		assert.Equal(t, reference.Add(45*time.Minute).Unix()+offset, shifted.Visits["o1"].Dropoff.End)
		assert.Equal(t, reference.Unix()+offset, shifted.Fleet["courier-1"].ShiftStart)
	})

	t.Run("should leave unconstrained window values alone", func(t *testing.T) {
		assert.Equal(t, int64(0), shifted.Visits["o2"].Pickup.Start)
		assert.Equal(t, int64(0), shifted.Visits["o2"].Pickup.End)
	})

	t.Run("should not mutate the input problem", func(t *testing.T) {
		assert.Equal(t, reference.Unix(), problem.Visits["o1"].Pickup.Start)
		assert.Equal(t, reference.Unix(), problem.Fleet["courier-1"].ShiftStart)
	})

	t.Run("should carry options through unchanged", func(t *testing.T) {
		assert.Equal(t, problem.Options, shifted.Options)
	})
}

func TestUnshiftSolution(t *testing.T) {
	reference := baseTime
	now := reference.Add(72 * time.Hour)

	solution := vrp.Solution{
		"courier-1": {
			{LocationName: "start", ArrivalTime: now.Unix(), FinishTime: now.Unix()},
			{
				LocationID:  "o1",
				Type:        "pickup",
				ArrivalTime: now.Add(10 * time.Minute).Unix(),
				FinishTime:  now.Add(14 * time.Minute).Unix(),
			},
		},
	}

	unshifted := services.UnshiftSolution(solution, reference, now)

	require.Len(t, unshifted["courier-1"], 2)
	assert.Equal(t, reference.Unix(), unshifted["courier-1"][0].ArrivalTime)
	assert.Equal(t, reference.Add(10*time.Minute).Unix(), unshifted["courier-1"][1].ArrivalTime)
	assert.Equal(t, reference.Add(14*time.Minute).Unix(), unshifted["courier-1"][1].FinishTime)

	t.Run("round trip with ShiftProblem offsets cancels out", func(t *testing.T) {
		assert.Equal(t, solution["courier-1"][1].ArrivalTime-unshifted["courier-1"][1].ArrivalTime,
			now.Unix()-reference.Unix())
	})
}
