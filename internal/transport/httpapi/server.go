// Package httpapi — REST-интерфейс журнала заказов на Echo.
package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/export"
	"github.com/vladislavdragonenkov/pedidos/internal/query"
)

// Ledger — операции журнала, которые нужны HTTP-слою.
type Ledger interface {
	Add(draft domain.Draft) (domain.Order, error)
	ToggleStatus(id int64)
	Remove(id int64)
	Get(id int64) (domain.Order, bool)
	List() []domain.Order
}

// Server обслуживает /api/v1/orders поверх журнала.
type Server struct {
	echo   *echo.Echo
	ledger Ledger
	logger *log.Entry
}

// NewServer собирает Echo с middleware и маршрутами.
func NewServer(ledger Ledger, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, ledger: ledger, logger: logger}

	e.Use(middleware.Recover())
	e.Use(requestID())
	e.Use(requestLogger(logger))

	api := e.Group("/api/v1")
	api.GET("/orders", s.listOrders)
	api.POST("/orders", s.createOrder)
	api.GET("/orders/export", s.exportOrders)
	api.GET("/orders/:id", s.getOrder)
	api.POST("/orders/:id/toggle", s.toggleOrder)
	api.DELETE("/orders/:id", s.removeOrder)

	return s
}

// Handler возвращает http.Handler для http.Server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// listOrders handles GET /api/v1/orders — отфильтрованное представление и итоги.
func (s *Server) listOrders(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	view := query.Apply(s.ledger.List(), filter)
	totals := query.Aggregate(view, c.QueryParam("commission"))
	return c.JSON(http.StatusOK, toListResponse(view, totals))
}

// createOrder handles POST /api/v1/orders.
func (s *Server) createOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := s.ledger.Add(req.draft())
	if err != nil {
		if verrs, ok := domain.AsValidationErrors(err); ok {
			return c.JSON(http.StatusUnprocessableEntity, toValidationErrorResponse(verrs))
		}
		s.logger.WithError(err).Error("failed to add order")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to add order")
	}

	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// getOrder handles GET /api/v1/orders/:id.
func (s *Server) getOrder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	order, found := s.ledger.Get(id)
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// toggleOrder handles POST /api/v1/orders/:id/toggle.
// Неизвестный id — не ошибка, как и в самом журнале.
func (s *Server) toggleOrder(c echo.Context) error {
	if id, ok := parseID(c); ok {
		s.ledger.ToggleStatus(id)
	}
	return c.NoContent(http.StatusNoContent)
}

// removeOrder handles DELETE /api/v1/orders/:id.
func (s *Server) removeOrder(c echo.Context) error {
	if id, ok := parseID(c); ok {
		s.ledger.Remove(id)
	}
	return c.NoContent(http.StatusNoContent)
}

// exportOrders handles GET /api/v1/orders/export — CSV текущего представления.
func (s *Server) exportOrders(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	view := query.Apply(s.ledger.List(), filter)

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, export.ContentType)
	resp.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName))
	resp.WriteHeader(http.StatusOK)
	return export.WriteCSV(resp, view)
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func parseFilter(c echo.Context) (domain.Filter, error) {
	status, err := domain.ParseStatusFilter(c.QueryParam("status"))
	if err != nil {
		return domain.Filter{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filter := domain.Filter{
		Status:    status,
		NameQuery: c.QueryParam("q"),
	}
	if filter.DateFrom, err = parseDateParam(c, "from"); err != nil {
		return domain.Filter{}, err
	}
	if filter.DateTo, err = parseDateParam(c, "to"); err != nil {
		return domain.Filter{}, err
	}
	return filter, nil
}

func parseDateParam(c echo.Context, name string) (domain.Date, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return domain.Date{}, nil
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s: %v", name, err))
	}
	return date, nil
}
