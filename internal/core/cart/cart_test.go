package cart

import (
	"testing"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
)

func product(id, price int) domain.Product {
	return domain.Product{ID: id, Name: "p", Price: price, Stock: 99}
}

func TestAdd_MergesSameProduct(t *testing.T) {
	s := NewStore()
	s.Add(product(1, 10), 2)
	s.Add(product(1, 10), 3)

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestAdd_DefaultsQuantityToOne(t *testing.T) {
	s := NewStore()
	s.Add(product(1, 10), 0)
	s.Add(product(2, 20), -3)

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	for _, it := range items {
		if it.Quantity != 1 {
			t.Fatalf("expected quantity 1, got %d", it.Quantity)
		}
	}
}

func TestSetQuantity_ClampsToOne(t *testing.T) {
	s := NewStore()
	s.Add(product(1, 10), 4)

	s.SetQuantity(1, 0)
	if got := s.Items()[0].Quantity; got != 1 {
		t.Fatalf("quantity 0 should clamp to 1, got %d", got)
	}

	s.SetQuantity(1, -5)
	if got := s.Items()[0].Quantity; got != 1 {
		t.Fatalf("negative quantity should clamp to 1, got %d", got)
	}

	if s.Len() != 1 {
		t.Fatalf("clamping must never remove the line")
	}
}

func TestSetQuantity_UnknownProductIgnored(t *testing.T) {
	s := NewStore()
	s.SetQuantity(42, 3)
	if s.Len() != 0 {
		t.Fatalf("setting quantity on an absent product must not create a line")
	}
}

func TestTotal_AddRemoveRestoresPrior(t *testing.T) {
	s := NewStore()
	s.Add(product(1, 10), 2)
	prior := s.Total()

	s.Add(product(2, 7), 3)
	s.Remove(2)

	if got := s.Total(); got != prior {
		t.Fatalf("expected total %v after add+remove, got %v", prior, got)
	}
}

func TestScenario_MergeAndRemove(t *testing.T) {
	s := NewStore()

	s.Add(product(1, 10), 2)
	if got := s.Total(); got != 20 {
		t.Fatalf("expected total 20, got %v", got)
	}

	s.Add(product(1, 10), 3)
	if s.Len() != 1 {
		t.Fatalf("expected a single merged line, got %d", s.Len())
	}
	if got := s.Items()[0].Quantity; got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
	if got := s.Total(); got != 50 {
		t.Fatalf("expected total 50, got %v", got)
	}

	s.Remove(1)
	if s.Len() != 0 {
		t.Fatalf("expected empty cart after remove")
	}
	if got := s.Total(); got != 0 {
		t.Fatalf("expected total 0, got %v", got)
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Add(product(1, 10), 1)
	s.Add(product(2, 20), 1)
	s.Clear()

	if s.Len() != 0 || s.Total() != 0 {
		t.Fatalf("expected empty cart after clear")
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(product(1, 10), 1)

	items := s.Items()
	items[0].Quantity = 99

	if got := s.Items()[0].Quantity; got != 1 {
		t.Fatalf("mutating the returned slice must not affect the store, got %d", got)
	}
}
