package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func priced(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		DealerID:  1,
		ProductID: 1,
		Quantity:  4,
		Price:     priced("1250.00"),
	}
}

func TestValidateCreateOrder(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*CreateOrderInput)
		field   string
		wantErr bool
	}{
		{name: "ok", mutate: func(in *CreateOrderInput) {}},
		{name: "zero quantity", mutate: func(in *CreateOrderInput) { in.Quantity = 0 }, field: "quantity", wantErr: true},
		{name: "negative quantity", mutate: func(in *CreateOrderInput) { in.Quantity = -2 }, field: "quantity", wantErr: true},
		{name: "missing dealer", mutate: func(in *CreateOrderInput) { in.DealerID = 0 }, field: "dealer_id", wantErr: true},
		{name: "missing product", mutate: func(in *CreateOrderInput) { in.ProductID = 0 }, field: "product_id", wantErr: true},
		{name: "missing price", mutate: func(in *CreateOrderInput) { in.Price = decimal.NullDecimal{} }, field: "price", wantErr: true},
		{name: "negative price", mutate: func(in *CreateOrderInput) { in.Price = priced("-5") }, field: "price", wantErr: true},
		{name: "claim with price", mutate: func(in *CreateOrderInput) {
			in.IsClaim = true
		}, field: "price", wantErr: true},
		{name: "claim without price", mutate: func(in *CreateOrderInput) {
			in.IsClaim = true
			in.Price = decimal.NullDecimal{}
		}},
		{name: "claim with zero price", mutate: func(in *CreateOrderInput) {
			in.IsClaim = true
			in.Price = priced("0")
		}},
		{name: "unknown transport", mutate: func(in *CreateOrderInput) {
			in.TransportationType = "drone"
		}, field: "transportation_type", wantErr: true},
		{name: "transport without charges", mutate: func(in *CreateOrderInput) {
			in.TransportationType = TransportFull
		}, field: "transportation_charges", wantErr: true},
		{name: "transport with negative charges", mutate: func(in *CreateOrderInput) {
			in.TransportationType = TransportBus
			in.TransportationCharges = priced("-10")
		}, field: "transportation_charges", wantErr: true},
		{name: "transport with charges", mutate: func(in *CreateOrderInput) {
			in.TransportationType = TransportFull
			in.TransportationCharges = priced("450")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			err := ValidateCreateOrder(in)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("error field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestClassifyEntry(t *testing.T) {
	cases := []struct {
		name          string
		available     int
		quantity      int
		hasActivePlan bool
		want          EntryStatus
	}{
		{"stock covers quantity", 10, 4, false, EntryDispatch},
		{"stock exactly covers quantity", 4, 4, true, EntryDispatch},
		{"short stock with active plan", 2, 4, true, EntryInProduction},
		{"short stock without plan", 2, 4, false, EntryPending},
		{"zero stock without plan", 0, 1, false, EntryPending},
		{"zero stock with plan", 0, 1, true, EntryInProduction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyEntry(tc.available, tc.quantity, tc.hasActivePlan)
			if got != tc.want {
				t.Errorf("ClassifyEntry(%d, %d, %v) = %s, want %s",
					tc.available, tc.quantity, tc.hasActivePlan, got, tc.want)
			}
		})
	}
}
