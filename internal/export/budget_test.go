package export

import (
	"math"
	"testing"
)

func TestBudgetPx(t *testing.T) {
	geo := DefaultGeometry()

	ppm := geo.PixelsPerMm()
	if want := 750.0 / 210.0; math.Abs(ppm-want) > 1e-9 {
		t.Errorf("PixelsPerMm() = %v, want %v", ppm, want)
	}

	// 297 - 20 - 18 - 5 usable mm at the derived density
	want := 254.0 * ppm
	if got := geo.BudgetPx(); math.Abs(got-want) > 1e-9 {
		t.Errorf("BudgetPx() = %v, want %v", got, want)
	}
}

func TestBudgetSafetyMarginShrinks(t *testing.T) {
	geo := DefaultGeometry()
	loose := geo
	loose.SafetyMarginMm = 0
	if geo.BudgetPx() >= loose.BudgetPx() {
		t.Error("safety margin did not reduce the budget")
	}
}

func TestContentWidthMm(t *testing.T) {
	geo := DefaultGeometry()
	if got := geo.ContentWidthMm(); got != 180 {
		t.Errorf("ContentWidthMm() = %v, want 180", got)
	}
}
