package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnpaidOrder() *Order {
	return &Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.BaseEntity{ID: 42}},
		StoreID:           3,
		Items: []Item{
			{ProductID: 10, ProductName: "Shirt", ProductPrice: decimal.RequireFromString("19.99")},
			{ProductID: 11, ProductName: "Cap", ProductPrice: decimal.RequireFromString("5.01")},
			{ProductID: 10, ProductName: "Shirt", ProductPrice: decimal.RequireFromString("19.99")},
		},
	}
}

func TestAddress_Format(t *testing.T) {
	tests := []struct {
		name    string
		address Address
		want    string
	}{
		{
			name:    "skips empty parts",
			address: Address{Line1: "221B Baker St", City: "London", PostalCode: "NW1"},
			want:    "221B Baker St, London, NW1",
		},
		{
			name:    "all parts",
			address: Address{Line1: "1 Main St", Line2: "Apt 2", City: "Springfield", State: "IL", PostalCode: "62701"},
			want:    "1 Main St, Apt 2, Springfield, IL, 62701",
		},
		{
			name:    "whitespace only counts as empty",
			address: Address{Line1: "  ", City: "Paris"},
			want:    "Paris",
		},
		{
			name: "no parts",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.address.Format())
		})
	}
}

func TestOrder_MarkPaid(t *testing.T) {
	t.Run("sets paid flag and shipping fields", func(t *testing.T) {
		o := newUnpaidOrder()
		o.MarkPaid(ShippingDetails{
			Address: Address{Line1: "221B Baker St", City: "London", PostalCode: "NW1"},
			Phone:   "+44 20 7946 0000",
		}, "evt_1")

		assert.True(t, o.IsPaid)
		assert.Equal(t, "221B Baker St, London, NW1", o.Address)
		assert.Equal(t, "+44 20 7946 0000", o.Phone)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		paid, ok := events[0].(*OrderPaidEvent)
		require.True(t, ok)
		assert.Equal(t, EventTypeOrderPaid, paid.EventType())
		assert.Equal(t, int64(42), paid.OrderID)
		assert.Equal(t, int64(3), paid.StoreID)
		assert.Equal(t, []int64{10, 11}, paid.ProductIDs)
		assert.Equal(t, "evt_1", paid.PaymentEventID)
	})

	t.Run("reapplying is idempotent and raises no second event", func(t *testing.T) {
		o := newUnpaidOrder()
		details := ShippingDetails{Address: Address{City: "London"}}

		o.MarkPaid(details, "evt_1")
		o.ClearDomainEvents()
		o.MarkPaid(details, "evt_1")

		assert.True(t, o.IsPaid)
		assert.Equal(t, "London", o.Address)
		assert.Equal(t, "", o.Phone)
		assert.Empty(t, o.GetDomainEvents())
	})
}

func TestOrder_Totals(t *testing.T) {
	o := newUnpaidOrder()

	assert.True(t, o.Total().Equal(decimal.RequireFromString("44.99")))
	assert.Equal(t, []string{"Shirt", "Cap", "Shirt"}, o.ProductNames())
	assert.Equal(t, []int64{10, 11}, o.ProductIDs())
}
