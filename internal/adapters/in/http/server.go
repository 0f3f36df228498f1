// Package http exposes the dispatch API over echo: courier and order views,
// stop transitions reported by couriers, and the manual replan trigger.
package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	beginStopHandler    commands.BeginStopCommandHandler
	updateStopHandler   commands.UpdateStopCommandHandler
	replanRoutesHandler commands.ReplanRoutesCommandHandler

	getActiveCouriersHandler queries.GetActiveCouriersQueryHandler
	getOpenOrdersHandler     queries.GetOpenOrdersQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	beginStopHandler commands.BeginStopCommandHandler,
	updateStopHandler commands.UpdateStopCommandHandler,
	replanRoutesHandler commands.ReplanRoutesCommandHandler,
	getActiveCouriersHandler queries.GetActiveCouriersQueryHandler,
	getOpenOrdersHandler queries.GetOpenOrdersQueryHandler,
) *Server {
	return &Server{
		beginStopHandler:         beginStopHandler,
		updateStopHandler:        updateStopHandler,
		replanRoutesHandler:      replanRoutesHandler,
		getActiveCouriersHandler: getActiveCouriersHandler,
		getOpenOrdersHandler:     getOpenOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/api/v1/couriers", s.GetCouriers)
	e.GET("/api/v1/orders", s.GetOrders)
	e.POST("/api/v1/couriers/:id/stops", s.BeginStop)
	e.PATCH("/api/v1/couriers/:id/stops/next", s.UpdateStop)
	e.POST("/api/v1/regions/:id/replan", s.ReplanRegion)
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CourierResponse is one courier row of GET /api/v1/couriers.
type CourierResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	OnCall bool    `json:"on_call"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// ReplanResponse is the body of POST /api/v1/regions/:id/replan. FreeDriver
// is true when the applied plan left an on-call courier without a route.
type ReplanResponse struct {
	FreeDriver bool `json:"free_driver"`
}

// OrderResponse is one order row of GET /api/v1/orders.
type OrderResponse struct {
	ID             string     `json:"id"`
	Passcode       string     `json:"passcode"`
	Region         string     `json:"region"`
	DeliveryStatus string     `json:"delivery_status"`
	FinishAt       *time.Time `json:"finish_at,omitempty"`
}

// StopUpdateRequest is the body of PATCH /api/v1/couriers/:id/stops/next.
type StopUpdateRequest struct {
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	Description string     `json:"description,omitempty"`
	Time        *time.Time `json:"time,omitempty"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetCouriers handles GET /api/v1/couriers - the courier availability view.
func (s *Server) GetCouriers(ctx echo.Context) error {
	query := queries.NewGetActiveCouriersQuery()

	couriers, err := s.getActiveCouriersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve couriers",
		})
	}

	response := make([]CourierResponse, len(couriers))
	for i, c := range couriers {
		response[i] = CourierResponse{
			ID:     c.ID.String(),
			Name:   c.Name,
			OnCall: c.OnCall,
			Lat:    c.Location.Lat(),
			Lng:    c.Location.Lng(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrders handles GET /api/v1/orders - the in-flight order view.
func (s *Server) GetOrders(ctx echo.Context) error {
	query := queries.NewGetOpenOrdersQuery()

	orders, err := s.getOpenOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		response[i] = OrderResponse{
			ID:             o.ID.String(),
			Passcode:       o.Passcode,
			Region:         o.Region,
			DeliveryStatus: o.DeliveryStatus,
			FinishAt:       o.FinishAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// BeginStop handles POST /api/v1/couriers/:id/stops - the courier departs
// for the next queued stop.
func (s *Server) BeginStop(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid courier id",
		})
	}

	cmd, err := commands.NewBeginStopCommand(courierID, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
	}

	if handleErr := s.beginStopHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateStop handles PATCH /api/v1/couriers/:id/stops/next - the courier
// reports arrival, completion or failure at the active stop.
func (s *Server) UpdateStop(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid courier id",
		})
	}

	var req StopUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	at := time.Now()
	if req.Time != nil {
		at = *req.Time
	}

	cmd, err := commands.NewUpdateStopCommand(
		courierID,
		commands.StopTransition(req.Status),
		req.Reason,
		req.Description,
		at,
	)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
	}

	if handleErr := s.updateStopHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return s.commandError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReplanRegion handles POST /api/v1/regions/:id/replan - a manual replan of
// one region's routes.
func (s *Server) ReplanRegion(ctx echo.Context) error {
	cmd, err := commands.NewReplanRoutesCommand(ctx.Param("id"), time.Now())
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
	}

	freeDriver, handleErr := s.replanRoutesHandler.Handle(ctx.Request().Context(), cmd)
	if handleErr != nil {
		switch {
		case errors.Is(handleErr, services.ErrNoDeliveriesToPlan),
			errors.Is(handleErr, services.ErrNoCouriersAvailable):
			return ctx.NoContent(http.StatusNoContent)
		case errors.Is(handleErr, commands.ErrDuplicateRun):
			return ctx.JSON(http.StatusConflict, ErrorResponse{
				Code:    http.StatusConflict,
				Message: "Routes changed during planning, try again",
			})
		default:
			return s.commandError(ctx, handleErr)
		}
	}

	return ctx.JSON(http.StatusOK, ReplanResponse{FreeDriver: freeDriver})
}

func (s *Server) commandError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrAssignmentConflict),
		errors.Is(err, courier.ErrStopInProgress),
		errors.Is(err, courier.ErrNoMoreWork),
		errors.Is(err, courier.ErrNoActiveStop),
		errors.Is(err, courier.ErrAlreadyArrived),
		errors.Is(err, courier.ErrNotYetArrived):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
	}
}
