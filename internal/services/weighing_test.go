package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
)

func TestRecordWeighingConvertsAndCompletes(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "200")
	ctx := context.Background()

	// 0.19 kg net is 190 g, inside [190, 210], so the single line is
	// satisfied and the order completes in the same call.
	w, err := env.weighing.Record(ctx, WeighingInput{
		OrderID:  f.order.ID,
		ItemID:   f.item.ID,
		Operator: "maria",
		TareKg:   decimal.RequireFromString("0.5"),
		NetKg:    decimal.RequireFromString("0.19"),
		LotTag:   "  L-42  ",
	})
	if err != nil {
		t.Fatalf("record weighing: %v", err)
	}

	if !w.LiquidoG.Equal(decimal.RequireFromString("190")) {
		t.Fatalf("liquido = %s g, want 190", w.LiquidoG)
	}
	if !w.BrutoKg.Equal(decimal.RequireFromString("0.69")) {
		t.Fatalf("bruto = %s kg, want 0.69", w.BrutoKg)
	}
	if w.LotTag != "L-42" {
		t.Fatalf("lot tag = %q, want trimmed", w.LotTag)
	}

	item := env.reloadItem(t, f.item.ID)
	if !item.WeighedQtyG.Equal(decimal.RequireFromString("190")) {
		t.Fatalf("accumulator = %s g, want 190", item.WeighedQtyG)
	}

	order := env.reloadOrder(t, f.order.ID)
	if order.Status != types.OrderCompleted {
		t.Fatalf("order status = %s, want completed", order.Status)
	}
	if order.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}
}

func TestRecordWeighingIndependentOrders(t *testing.T) {
	env := newTestEnv(t)
	f1 := seedOrderFixture(t, env, "200")
	f2 := seedOrderFixture(t, env, "200")
	ctx := context.Background()

	if _, err := env.weighing.Record(ctx, WeighingInput{
		OrderID:  f1.order.ID,
		ItemID:   f1.item.ID,
		Operator: "maria",
		NetKg:    decimal.RequireFromString("0.2"),
	}); err != nil {
		t.Fatalf("record weighing: %v", err)
	}

	if got := env.reloadItem(t, f2.item.ID).WeighedQtyG; !got.IsZero() {
		t.Fatalf("second order accumulator = %s g, want 0", got)
	}
	if env.reloadOrder(t, f2.order.ID).Status != types.OrderOpen {
		t.Fatal("second order should stay open")
	}
}

func TestRecordWeighingToleranceCeiling(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	// Band is [95, 105]. Partial totals below the floor are accepted, so
	// three 30 g weighings land at 90 g; the fourth would hit 120 g.
	net := decimal.RequireFromString("0.03")
	for i := 0; i < 3; i++ {
		if _, err := env.weighing.Record(ctx, WeighingInput{
			OrderID:  f.order.ID,
			ItemID:   f.item.ID,
			Operator: "joao",
			NetKg:    net,
		}); err != nil {
			t.Fatalf("weighing %d: %v", i+1, err)
		}
	}

	_, err := env.weighing.Record(ctx, WeighingInput{
		OrderID:  f.order.ID,
		ItemID:   f.item.ID,
		Operator: "joao",
		NetKg:    net,
	})
	if !errors.Is(err, apperrors.ErrToleranceExceeded) {
		t.Fatalf("expected tolerance error, got %v", err)
	}
	var tolErr *apperrors.ToleranceError
	if !errors.As(err, &tolErr) {
		t.Fatalf("expected *ToleranceError, got %T", err)
	}
	if !tolErr.NewTotalG.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("rejected total = %s g, want 120", tolErr.NewTotalG)
	}
	if !tolErr.MaxAllowedG.Equal(decimal.RequireFromString("105")) {
		t.Fatalf("ceiling = %s g, want 105", tolErr.MaxAllowedG)
	}

	item := env.reloadItem(t, f.item.ID)
	if !item.WeighedQtyG.Equal(decimal.RequireFromString("90")) {
		t.Fatalf("accumulator = %s g, want 90", item.WeighedQtyG)
	}
	if got := env.countWeighings(t, f.order.ID); got != 3 {
		t.Fatalf("weighing rows = %d, want 3", got)
	}

	// 90 g is under the 95 g floor, so the order is in progress, not done.
	if env.reloadOrder(t, f.order.ID).Status != types.OrderInProgress {
		t.Fatal("order should be in_progress")
	}
}

func TestRecordWeighingIncoherentReference(t *testing.T) {
	env := newTestEnv(t)
	f1 := seedOrderFixture(t, env, "100")
	f2 := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	_, err := env.weighing.Record(ctx, WeighingInput{
		OrderID:  f1.order.ID,
		ItemID:   f2.item.ID,
		Operator: "maria",
		NetKg:    decimal.RequireFromString("0.05"),
	})
	if !errors.Is(err, apperrors.ErrIncoherentReference) {
		t.Fatalf("expected incoherent reference, got %v", err)
	}

	if got := env.countWeighings(t, f1.order.ID); got != 0 {
		t.Fatalf("weighing rows on order 1 = %d, want 0", got)
	}
	if got := env.countWeighings(t, f2.order.ID); got != 0 {
		t.Fatalf("weighing rows on order 2 = %d, want 0", got)
	}
	if got := env.reloadItem(t, f2.item.ID).WeighedQtyG; !got.IsZero() {
		t.Fatalf("accumulator = %s g, want 0", got)
	}
}

func TestRecordWeighingInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	cases := []struct {
		name string
		in   WeighingInput
	}{
		{"negative tare", WeighingInput{
			OrderID: f.order.ID, ItemID: f.item.ID, Operator: "maria",
			TareKg: decimal.RequireFromString("-0.1"),
			NetKg:  decimal.RequireFromString("0.05"),
		}},
		{"zero net", WeighingInput{
			OrderID: f.order.ID, ItemID: f.item.ID, Operator: "maria",
			NetKg: decimal.Zero,
		}},
		{"missing operator", WeighingInput{
			OrderID: f.order.ID, ItemID: f.item.ID,
			NetKg: decimal.RequireFromString("0.05"),
		}},
	}
	for _, tc := range cases {
		if _, err := env.weighing.Record(ctx, tc.in); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", tc.name, err)
		}
	}
	if got := env.countWeighings(t, f.order.ID); got != 0 {
		t.Fatalf("weighing rows = %d, want 0", got)
	}
}

func TestRecordWeighingConcurrentSameLine(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	// Four concurrent 30 g attempts against one 100 g line. The row lock
	// serializes them; whichever lands fourth sees 120 g and is rejected.
	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.weighing.Record(ctx, WeighingInput{
				OrderID:  f.order.ID,
				ItemID:   f.item.ID,
				Operator: "maria",
				NetKg:    decimal.RequireFromString("0.03"),
			})
		}(i)
	}
	wg.Wait()

	var rejected int
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrToleranceExceeded) {
			t.Fatalf("unexpected error: %v", err)
		}
		rejected++
	}
	if rejected != 1 {
		t.Fatalf("rejected = %d, want exactly 1", rejected)
	}

	item := env.reloadItem(t, f.item.ID)
	if !item.WeighedQtyG.Equal(decimal.RequireFromString("90")) {
		t.Fatalf("final accumulator = %s g, want exactly 90", item.WeighedQtyG)
	}
	if got := env.countWeighings(t, f.order.ID); got != 3 {
		t.Fatalf("weighing rows = %d, want exactly 3", got)
	}
}

func TestRecordWeighingUnknownScale(t *testing.T) {
	env := newTestEnv(t)
	f := seedOrderFixture(t, env, "100")
	ctx := context.Background()

	ghost := f.item.ID // any uuid that is not a scale
	_, err := env.weighing.Record(ctx, WeighingInput{
		OrderID:  f.order.ID,
		ItemID:   f.item.ID,
		Operator: "maria",
		NetKg:    decimal.RequireFromString("0.05"),
		ScaleID:  &ghost,
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := env.countWeighings(t, f.order.ID); got != 0 {
		t.Fatalf("weighing rows = %d, want 0", got)
	}
}
