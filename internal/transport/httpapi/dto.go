package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/query"
)

// textValue принимает в JSON и строку, и число: форма отправляет текст,
// скрипты чаще отправляют числа. Проверка значения остаётся за domain.Draft.
type textValue string

func (v *textValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = textValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*v = textValue(n.String())
	}
	return nil
}

type createOrderRequest struct {
	Number      textValue `json:"number"`
	ClientName  string    `json:"clientName"`
	Description string    `json:"description"`
	WeightKg    textValue `json:"weightKg"`
	ValueAmount textValue `json:"valueAmount"`
	Completed   bool      `json:"completed"`
}

func (r createOrderRequest) draft() domain.Draft {
	return domain.Draft{
		Number:      string(r.Number),
		ClientName:  r.ClientName,
		Description: r.Description,
		WeightKg:    string(r.WeightKg),
		ValueAmount: string(r.ValueAmount),
		Completed:   r.Completed,
	}
}

type orderResponse struct {
	ID          int64   `json:"id"`
	Number      int     `json:"number"`
	ClientName  string  `json:"clientName"`
	Description string  `json:"description,omitempty"`
	WeightKg    *string `json:"weightKg"`
	WeightLabel string  `json:"weightLabel"`
	ValueAmount string  `json:"valueAmount"`
	Completed   bool    `json:"completed"`
	CreatedDate string  `json:"createdDate"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		Number:      o.Number,
		ClientName:  o.ClientName,
		Description: o.Description,
		WeightLabel: query.FormatWeight(o.WeightKg),
		ValueAmount: query.FormatAmount(o.ValueAmount),
		Completed:   o.Completed,
		CreatedDate: o.CreatedDate.String(),
	}
	if o.HasWeight() {
		w := o.WeightKg.Decimal.StringFixed(2)
		resp.WeightKg = &w
	}
	return resp
}

type totalsResponse struct {
	TotalValue       string `json:"totalValue"`
	TotalWeight      string `json:"totalWeight"`
	TotalWeightLabel string `json:"totalWeightLabel"`
	CommissionAmount string `json:"commissionAmount"`
}

type listResponse struct {
	Count  int             `json:"count"`
	Orders []orderResponse `json:"orders"`
	Totals totalsResponse  `json:"totals"`
}

func toListResponse(view []domain.Order, totals query.Totals) listResponse {
	orders := make([]orderResponse, 0, len(view))
	for _, o := range view {
		orders = append(orders, toOrderResponse(o))
	}
	return listResponse{
		Count:  len(view),
		Orders: orders,
		Totals: totalsResponse{
			TotalValue:       query.FormatAmount(totals.TotalValue),
			TotalWeight:      totals.TotalWeight.StringFixed(2),
			TotalWeightLabel: query.FormatWeight(decimal.NewNullDecimal(totals.TotalWeight)),
			CommissionAmount: query.FormatAmount(totals.CommissionAmount),
		},
	}
}

type fieldErrorResponse struct {
	Field  domain.Field  `json:"field"`
	Reason domain.Reason `json:"reason"`
}

type validationErrorResponse struct {
	Errors []fieldErrorResponse `json:"errors"`
}

func toValidationErrorResponse(errs domain.ValidationErrors) validationErrorResponse {
	resp := validationErrorResponse{Errors: make([]fieldErrorResponse, 0, len(errs))}
	for _, fe := range errs {
		resp.Errors = append(resp.Errors, fieldErrorResponse{Field: fe.Field, Reason: fe.Reason})
	}
	return resp
}
