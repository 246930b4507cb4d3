package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTicket(t *testing.T) {
	cases := map[string]string{
		"#0007": "#0007",
		"0007":  "#0007",
		"7":     "#0007",
		"#7":    "#0007",
		" 12 ":  "#0012",
		"99":    "#0099",
	}
	for in, want := range cases {
		got, err := NormalizeTicket(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalizeTicket_Malformed(t *testing.T) {
	for _, in := range []string{"", "#", "abc", "#12a", "-3"} {
		_, err := NormalizeTicket(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestFormatTicket(t *testing.T) {
	assert.Equal(t, "#0001", FormatTicket(1))
	assert.Equal(t, "#0099", FormatTicket(99))
}

func TestOrderStatus_NextIsForwardOnly(t *testing.T) {
	next, ok := StatusQueued.Next()
	require.True(t, ok)
	assert.Equal(t, StatusPreparing, next)

	next, ok = StatusPreparing.Next()
	require.True(t, ok)
	assert.Equal(t, StatusReady, next)

	next, ok = StatusReady.Next()
	require.True(t, ok)
	assert.Equal(t, StatusDelivered, next)

	_, ok = StatusDelivered.Next()
	assert.False(t, ok)
	assert.True(t, StatusDelivered.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus("ready")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, st)

	_, err = ParseOrderStatus("cooking")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClient_CompletePurchaseWraps(t *testing.T) {
	c := Client{PurchaseCount: 4, ActivePrize: &PrizeTable[0]}
	c.CompletePurchase()
	assert.Equal(t, 5, c.PurchaseCount)
	assert.Nil(t, c.ActivePrize)
	assert.True(t, c.FidelityOrder())

	c.CompletePurchase()
	assert.Equal(t, 0, c.PurchaseCount)
	assert.False(t, c.FidelityOrder())
}

func TestPrizeTable(t *testing.T) {
	require.Len(t, PrizeTable, 5)
	kinds := map[PrizeKind]bool{}
	for _, p := range PrizeTable {
		kinds[p.Kind] = true
	}
	assert.Len(t, kinds, 5)
	assert.False(t, Prize{Kind: PrizeTryAgain}.Pending())
	assert.True(t, Prize{Kind: PrizeFollowUs}.Pending())
}

func TestParsePaymentAndDelivery(t *testing.T) {
	p, err := ParsePaymentMethod("cash")
	require.NoError(t, err)
	assert.Equal(t, PaymentCash, p)
	_, err = ParsePaymentMethod("bitcoin")
	assert.ErrorIs(t, err, ErrInvalidInput)

	d, err := ParseDeliveryType("pickup")
	require.NoError(t, err)
	assert.Equal(t, DeliveryPickup, d)
	_, err = ParseDeliveryType("drone")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrdersAhead(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mk := func(id string, minute int, st OrderStatus) Order {
		return Order{ID: id, Status: st, CreatedAt: base.Add(time.Duration(minute) * time.Minute)}
	}
	all := []Order{
		mk("a", 0, StatusQueued),
		mk("b", 1, StatusPreparing),
		mk("c", 2, StatusQueued),
		mk("d", 2, StatusQueued),
		mk("e", 3, StatusQueued),
	}

	assert.Equal(t, 0, OrdersAhead(all[0], all))
	assert.Equal(t, 1, OrdersAhead(all[2], all), "same timestamp is not ahead")
	assert.Equal(t, 1, OrdersAhead(all[3], all))
	assert.Equal(t, 3, OrdersAhead(all[4], all))

	want := map[string]int{}
	for _, o := range all {
		want[o.ID] = OrdersAhead(o, all)
	}
	permute(all, func(p []Order) {
		for _, o := range p {
			assert.Equal(t, want[o.ID], OrdersAhead(o, p), "slice order %v", ids(p))
		}
	})
}

func TestOrdersAhead_EveryTimestampPermutation(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	minutes := []int{0, 1, 2, 3, 4}
	permute(minutes, func(p []int) {
		orders := make([]Order, len(p))
		for i, m := range p {
			orders[i] = Order{ID: string(rune('a' + i)), Status: StatusQueued, CreatedAt: base.Add(time.Duration(m) * time.Minute)}
		}
		for i, o := range orders {
			assert.Equal(t, p[i], OrdersAhead(o, orders), "minutes %v", p)
		}
	})
}

// permute calls fn with every ordering of xs (Heap's algorithm).
func permute[T any](xs []T, fn func([]T)) {
	a := append([]T(nil), xs...)
	var gen func(k int)
	gen = func(k int) {
		if k <= 1 {
			fn(append([]T(nil), a...))
			return
		}
		for i := 0; i < k-1; i++ {
			gen(k - 1)
			if k%2 == 0 {
				a[i], a[k-1] = a[k-1], a[i]
			} else {
				a[0], a[k-1] = a[k-1], a[0]
			}
		}
		gen(k - 1)
	}
	gen(len(a))
}

func ids(orders []Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}
