package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPriceRangeFor(t *testing.T) {
	tests := []struct {
		price int
		want  string
	}{
		{-5, PriceGratis},
		{0, PriceGratis},
		{1, PriceEconomico},
		{40, PriceEconomico},
		{41, PriceMedio},
		{100, PriceMedio},
		{101, PricePremium},
		{150, PricePremium},
	}

	for _, tt := range tests {
		if got := PriceRangeFor(tt.price); got != tt.want {
			t.Errorf("PriceRangeFor(%d) = %s, want %s", tt.price, got, tt.want)
		}
	}
}

func TestNewEvent_ApplyDefaults(t *testing.T) {
	t.Run("fills currency, price range and tags", func(t *testing.T) {
		e := NewEvent{Title: "Cata de vinos 1", PriceBase: 85}
		e.ApplyDefaults()

		if e.Currency != "EUR" {
			t.Errorf("expected currency EUR, got %s", e.Currency)
		}
		if e.PriceRange != PriceMedio {
			t.Errorf("expected price range medio, got %s", e.PriceRange)
		}
		if e.Tags == nil {
			t.Error("expected tags to be non-nil")
		}
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		e := NewEvent{Currency: "USD", PriceRange: PriceGratis, Tags: []string{"madrid"}}
		e.ApplyDefaults()

		if e.Currency != "USD" {
			t.Errorf("expected currency USD, got %s", e.Currency)
		}
		if e.PriceRange != PriceGratis {
			t.Errorf("expected price range gratis, got %s", e.PriceRange)
		}
		if len(e.Tags) != 1 {
			t.Errorf("expected 1 tag, got %d", len(e.Tags))
		}
	})
}

func TestNewEvent_HasTag(t *testing.T) {
	e := NewEvent{Tags: []string{"festivo", "con_amigos"}}

	if !e.HasTag("festivo") {
		t.Error("expected festivo to be present")
	}
	if e.HasTag("Festivo") {
		t.Error("tag membership must be exact")
	}
	if e.HasTag("amigos") {
		t.Error("tag membership must not match substrings")
	}
}

func TestEvent_JSON(t *testing.T) {
	e := Event{
		ID: 7,
		NewEvent: NewEvent{
			Title:       "Ruta de Tapas 3",
			District:    "Lavapiés",
			PriceBase:   20,
			PetFriendly: true,
			SeedKey:     "amigos-3",
		},
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	body := string(data)

	for _, want := range []string{`"id":7`, `"title":"Ruta de Tapas 3"`, `"priceBase":20`, `"petFriendly":true`, `"createdAt"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in %s", want, body)
		}
	}
	if strings.Contains(body, "amigos-3") {
		t.Error("seed key must not be serialized")
	}
}

func TestFilterState_IsEmpty(t *testing.T) {
	var nilState *FilterState
	if !nilState.IsEmpty() {
		t.Error("nil state should be empty")
	}
	if !(&FilterState{}).IsEmpty() {
		t.Error("zero state should be empty")
	}

	zero := 0
	cases := []FilterState{
		{Search: "jazz"},
		{Context: []string{"pareja"}},
		{TimeOfDay: []string{"noche"}},
		{Style: []string{"fiesta"}},
		{Districts: []string{"Centro"}},
		{PriceCategory: []string{"gratis"}},
		{Features: []string{"pet_friendly"}},
		{MinPrice: &zero},
		{MaxPrice: &zero},
	}
	for i, c := range cases {
		if c.IsEmpty() {
			t.Errorf("case %d: expected non-empty state", i)
		}
	}
}
