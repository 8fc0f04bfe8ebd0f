package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/ledger"
)

func newTestServer(t *testing.T) (*Server, *ledger.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	store := ledger.New(domain.Snapshot{},
		ledger.WithLogger(logger.WithField("component", "ledger-test")),
		ledger.WithClock(func() time.Time { return time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC) }),
	)
	return NewServer(store, logger.WithField("component", "http-test")), store
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, store *ledger.Store) (ana, bea domain.Order) {
	t.Helper()
	var err error
	ana, err = store.Add(domain.Draft{ClientName: "Ana", ValueAmount: "100", WeightKg: "500", Completed: true})
	require.NoError(t, err)
	bea, err = store.Add(domain.Draft{ClientName: "Bea", ValueAmount: "50", WeightKg: "1000"})
	require.NoError(t, err)
	return ana, bea
}

func TestCreateOrder(t *testing.T) {
	srv, store := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/orders", `{"clientName":" Ana ","valueAmount":100.5,"weightKg":"2.5","description":"caixas"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	var got orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 1, got.Number)
	require.Equal(t, "Ana", got.ClientName)
	require.Equal(t, "100.50", got.ValueAmount)
	require.NotNil(t, got.WeightKg)
	require.Equal(t, "2.50", *got.WeightKg)
	require.Equal(t, "2.50 kg", got.WeightLabel)
	require.Equal(t, "2025-06-01", got.CreatedDate)
	require.False(t, got.Completed)
	require.Equal(t, 1, store.Count())
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	srv, store := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/orders", `{"clientName":"  ","valueAmount":"abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.JSONEq(t, `{"errors":[
		{"field":"clientName","reason":"required"},
		{"field":"valueAmount","reason":"notANumber"}
	]}`, rec.Body.String())
	require.Zero(t, store.Count())
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/orders", `{"clientName":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders_TotalsAndOrdering(t *testing.T) {
	srv, store := newTestServer(t)
	seed(t, store)

	rec := do(t, srv, http.MethodGet, "/api/v1/orders?commission=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 2, got.Count)
	require.Equal(t, "Bea", got.Orders[0].ClientName)
	require.Equal(t, "Ana", got.Orders[1].ClientName)
	require.Equal(t, "150.00", got.Totals.TotalValue)
	require.Equal(t, "1.50 Ton", got.Totals.TotalWeightLabel)
	require.Equal(t, "15.00", got.Totals.CommissionAmount)
}

func TestListOrders_Filters(t *testing.T) {
	srv, store := newTestServer(t)
	seed(t, store)

	var got listResponse
	rec := do(t, srv, http.MethodGet, "/api/v1/orders?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Orders, 1)
	require.Equal(t, "Bea", got.Orders[0].ClientName)

	rec = do(t, srv, http.MethodGet, "/api/v1/orders?q=AN&from=2025-06-01&to=2025-06-01&commission=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Orders, 1)
	require.Equal(t, "Ana", got.Orders[0].ClientName)
	require.Equal(t, "0.00", got.Totals.CommissionAmount)

	rec = do(t, srv, http.MethodGet, "/api/v1/orders?to=2025-05-31", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Empty(t, got.Orders)
	require.Equal(t, "0.00", got.Totals.TotalValue)
}

func TestListOrders_NameQueryIsNotTrimmed(t *testing.T) {
	srv, store := newTestServer(t)
	seed(t, store)
	_, err := store.Add(domain.Draft{ClientName: "Ana Lima", ValueAmount: "10"})
	require.NoError(t, err)

	var got listResponse
	rec := do(t, srv, http.MethodGet, "/api/v1/orders?q=ana%20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Orders, 1)
	require.Equal(t, "Ana Lima", got.Orders[0].ClientName)
}

func TestListOrders_BadQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	require.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/v1/orders?status=archived", "").Code)
	require.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/v1/orders?from=01/06/2025", "").Code)
}

func TestToggleAndRemove(t *testing.T) {
	srv, store := newTestServer(t)
	_, bea := seed(t, store)

	target := "/api/v1/orders/" + jsonID(bea.ID)
	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPost, target+"/toggle", "").Code)
	got, ok := store.Get(bea.ID)
	require.True(t, ok)
	require.True(t, got.Completed)

	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, target, "").Code)
	require.Equal(t, 1, store.Count())

	// Повторное удаление и неизвестные id — тоже 204.
	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, target, "").Code)
	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPost, "/api/v1/orders/999/toggle", "").Code)
	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/v1/orders/abc", "").Code)
	require.Equal(t, 1, store.Count())
}

func TestGetOrder(t *testing.T) {
	srv, store := newTestServer(t)
	ana, _ := seed(t, store)

	rec := do(t, srv, http.MethodGet, "/api/v1/orders/"+jsonID(ana.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Ana", got.ClientName)

	require.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/v1/orders/999", "").Code)
}

func TestExportOrders(t *testing.T) {
	srv, store := newTestServer(t)
	seed(t, store)

	rec := do(t, srv, http.MethodGet, "/api/v1/orders/export?status=completed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, `attachment; filename="pedidos.csv"`, rec.Header().Get(echo.HeaderContentDisposition))
	require.Equal(t,
		"Numero,Nome,Peso (Kg),Valor,Data,Status\n"+
			`1,"Ana",500.00,100.00,2025-06-01,Finalizado`+"\n",
		rec.Body.String())
}

func TestTextValue(t *testing.T) {
	var req createOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"number":7,"weightKg":null,"valueAmount":"12,5"}`), &req))
	require.Equal(t, textValue("7"), req.Number)
	require.Equal(t, textValue(""), req.WeightKg)
	require.Equal(t, textValue("12,5"), req.ValueAmount)

	require.Error(t, json.Unmarshal([]byte(`{"number":true}`), &req))
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
