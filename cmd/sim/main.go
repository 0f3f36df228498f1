package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"dispatch/internal/adapters/out/tron"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/sim"
)

// The sim binary replays a recorded day of orders and shifts against a real
// optimizer endpoint, without postgres or redis. It reports, per order, how
// the replayed delivery compares to the promised estimate.

type fixtureAddress struct {
	Text string  `json:"text"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type fixtureShift struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type fixtureCourier struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	OnCall    bool           `json:"on_call"`
	Unskilled bool           `json:"unskilled"`
	Lat       float64        `json:"lat"`
	Lng       float64        `json:"lng"`
	Shifts    []fixtureShift `json:"shifts"`
}

type fixtureOrder struct {
	Passcode   string    `json:"passcode"`
	CreatedAt  time.Time `json:"created_at"`
	Items      []string  `json:"items"`
	Restaurant struct {
		Name           string         `json:"name"`
		Phone          string         `json:"phone"`
		PrepareMinutes int            `json:"prepare_minutes"`
		Address        fixtureAddress `json:"address"`
	} `json:"restaurant"`
	Customer struct {
		Phone      string `json:"phone"`
		OrderCount int    `json:"order_count"`
	} `json:"customer"`
	Dropoff fixtureAddress `json:"dropoff"`
}

type fixtureFile struct {
	Region   string           `json:"region"`
	Couriers []fixtureCourier `json:"couriers"`
	Orders   []fixtureOrder   `json:"orders"`
}

func main() {
	fixturePath := flag.String("fixture", "fixture.json", "path to the replay fixture")
	tronURL := flag.String("tron", "http://localhost:9091", "route optimizer base URL")
	verbose := flag.Bool("v", false, "log every replay event")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		logger.Error("load fixture", "path", *fixturePath, "error", err)
		os.Exit(1)
	}

	store := sim.NewMemoryStore()
	for _, fc := range fixture.Couriers {
		c, err := buildCourier(fc)
		if err != nil {
			logger.Error("fixture courier rejected", "name", fc.Name, "error", err)
			os.Exit(1)
		}
		store.AddCourier(c)
	}

	orders := make([]*order.Order, 0, len(fixture.Orders))
	for _, fo := range fixture.Orders {
		o, err := buildOrder(fo, fixture.Region)
		if err != nil {
			logger.Error("fixture order rejected", "passcode", fo.Passcode, "error", err)
			os.Exit(1)
		}
		orders = append(orders, o)
	}

	loop := sim.NewDispatchLoop(store, tron.NewClient(*tronURL), fixture.Region, orders, logger)

	started := time.Now()
	if err := loop.Run(context.Background()); err != nil {
		logger.Error("replay failed", "error", err)
		os.Exit(1)
	}

	report(orders, store, started)
}

func loadFixture(path string) (fixtureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtureFile{}, err
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fixtureFile{}, fmt.Errorf("parse fixture: %w", err)
	}
	return f, nil
}

func buildCourier(fc fixtureCourier) (*courier.Courier, error) {
	location, err := kernel.NewGeoPoint(fc.Lat, fc.Lng)
	if err != nil {
		return nil, err
	}

	shifts := make([]courier.Shift, 0, len(fc.Shifts))
	for _, fs := range fc.Shifts {
		shift, err := courier.NewShift(fs.Start, fs.End)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	c, err := courier.NewCourier(kernel.NewUUID(), fc.Name, fc.Email, fc.Phone, location, shifts)
	if err != nil {
		return nil, err
	}
	c.SetOnCall(fc.OnCall)
	c.SetUnskilled(fc.Unskilled)
	return c, nil
}

func buildOrder(fo fixtureOrder, region string) (*order.Order, error) {
	restaurantLoc, err := kernel.NewGeoPoint(fo.Restaurant.Address.Lat, fo.Restaurant.Address.Lng)
	if err != nil {
		return nil, err
	}
	dropoffLoc, err := kernel.NewGeoPoint(fo.Dropoff.Lat, fo.Dropoff.Lng)
	if err != nil {
		return nil, err
	}

	return order.NewOrder(
		kernel.NewUUID(),
		fo.Passcode,
		order.Restaurant{
			ID:             kernel.NewUUID(),
			Name:           fo.Restaurant.Name,
			Phone:          fo.Restaurant.Phone,
			PrepareMinutes: fo.Restaurant.PrepareMinutes,
			Address: order.Address{
				Text:     fo.Restaurant.Address.Text,
				Location: restaurantLoc,
			},
		},
		order.Customer{
			Phone:      fo.Customer.Phone,
			OrderCount: fo.Customer.OrderCount,
		},
		order.Address{
			Text:     fo.Dropoff.Text,
			Location: dropoffLoc,
		},
		region,
		fo.Items,
		fo.CreatedAt,
	)
}

func report(orders []*order.Order, store *sim.MemoryStore, started time.Time) {
	late := 0
	for _, o := range orders {
		promised := o.CreatedAt().Add(time.Duration(o.DeliveryEstimate().Max) * time.Minute)

		if o.DeliveredAt() == nil {
			fmt.Printf("#%s  NOT DELIVERED (final state %s)\n", o.Passcode(), o.DeliveryStatus())
			late++
			continue
		}

		diff := o.DeliveredAt().Sub(promised).Round(time.Minute)
		mark := "on time"
		if diff > 0 {
			mark = fmt.Sprintf("late by %s", diff)
			late++
		}
		fmt.Printf("#%s  ordered %s  delivered %s  %s\n",
			o.Passcode(),
			o.CreatedAt().Format("15:04"),
			o.DeliveredAt().Format("15:04"),
			mark)
	}

	fmt.Printf("\n%d orders, %d late or undelivered, %d events, replayed in %s\n",
		len(orders), late, len(store.Events()), time.Since(started).Round(time.Millisecond))
}
