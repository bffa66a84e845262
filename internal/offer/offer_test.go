package offer

import (
	"errors"
	"strings"
	"testing"

	"fashion-insider/internal/catalog"
)

func item(id string, price float64) catalog.CanonicalItem {
	return catalog.CanonicalItem{ID: id, Name: "Item " + id, CurrentPrice: price}
}

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name    string
		prices  []float64
		credits int64
		fee     int64
		req     int64
	}{
		{"items worth 1000", []float64{400, 600}, 0, 50, 50},
		{"minimum fee", []float64{100}, 0, 50, 50},
		{"percentage wins", []float64{2850}, 0, 143, 143},
		{"ceil fractional", []float64{1001}, 0, 51, 51},
		{"credits count toward value", []float64{1000}, 500, 75, 575},
		{"credits only", nil, 200, 50, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft(0, 0)
			for i, p := range tt.prices {
				d.AddItem(item(string(rune('a'+i)), p))
			}
			d.Credits = tt.credits
			if got := d.ComputeFee(); got != tt.fee {
				t.Errorf("fee = %d, want %d", got, tt.fee)
			}
			if got := d.Required(); got != tt.req {
				t.Errorf("required = %d, want %d", got, tt.req)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	d := NewDraft(0.05, 50)
	if err := d.Validate(1000); !errors.Is(err, ErrEmptyOffer) {
		t.Fatalf("empty draft err = %v", err)
	}

	d.AddItem(item("p1", 800))
	d.AddCredits(100, 5450)
	if err := d.Validate(150); err != nil {
		t.Errorf("exact balance should pass, got %v", err)
	}
	err := d.Validate(149)
	var need *NeedsMoreCreditsError
	if !errors.As(err, &need) {
		t.Fatalf("err = %v, want NeedsMoreCreditsError", err)
	}
	if need.Required != 150 || need.Fee != 50 || need.Credits != 100 || need.Balance != 149 {
		t.Errorf("details = %+v", need)
	}
	if !strings.Contains(err.Error(), "You need 150 CR") || !strings.Contains(err.Error(), "100 CR offered") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestAddCredits_ClampAndIgnore(t *testing.T) {
	d := NewDraft(0, 0)
	if got := d.AddCredits(-5, 100); got != 0 {
		t.Errorf("negative amount changed credits to %d", got)
	}
	d.AddCredits(60, 100)
	if got := d.AddCredits(60, 100); got != 100 {
		t.Errorf("credits = %d, want clamp to 100", got)
	}
	d.RemoveCredits()
	if d.Credits != 0 {
		t.Error("RemoveCredits did not clear")
	}
	if got := d.AddCredits(10, -3); got != 0 {
		t.Errorf("negative balance clamp = %d, want 0", got)
	}
}

func TestRemoveItem(t *testing.T) {
	d := NewDraft(0, 0)
	d.AddItem(item("a", 1))
	d.AddItem(item("b", 2))
	d.AddItem(item("a", 1))
	if err := d.RemoveItem(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("out of range err = %v", err)
	}
	if err := d.RemoveItem(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative index err = %v", err)
	}
	if err := d.RemoveItem(0); err != nil {
		t.Fatal(err)
	}
	if len(d.Items) != 2 || d.Items[0].ID != "b" || d.Items[1].ID != "a" {
		t.Errorf("items = %+v", d.Items)
	}
}

func TestLeadAndReset(t *testing.T) {
	d := NewDraft(0, 0)
	d.AddCredits(10, 100)
	if name, id := d.Lead(); name != GenericLabel || id != "" {
		t.Errorf("credits-only lead = %q/%q", name, id)
	}
	d.AddItem(item("p7", 14500))
	if name, id := d.Lead(); name != "Item p7" || id != "p7" {
		t.Errorf("lead = %q/%q", name, id)
	}
	d.Reset()
	if !d.Empty() || d.FeePct != 0 {
		t.Errorf("after reset = %+v", d)
	}
}
