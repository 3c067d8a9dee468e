package core

import (
	"context"
	"testing"

	"sanctuary/internal/housing"
	"sanctuary/pkg/domain"
)

func mustMonkey(t *testing.T, name string, species domain.Species, size domain.Size, food domain.Food) *domain.Monkey {
	t.Helper()
	m, err := domain.NewMonkey(name, species, domain.SexFemale, size, 12, 24, food)
	if err != nil {
		t.Fatalf("new monkey %s: %v", name, err)
	}
	return m
}

func mustIsolation(t *testing.T, svc *Service, capacity int) {
	t.Helper()
	if _, err := svc.CreateIsolation(context.Background(), capacity); err != nil {
		t.Fatalf("create isolation: %v", err)
	}
}

func mustEnclosure(t *testing.T, svc *Service, name string, capacity int, species domain.Species) *housing.Enclosure {
	t.Helper()
	enc, _, err := svc.CreateEnclosure(context.Background(), name, capacity, species)
	if err != nil {
		t.Fatalf("create enclosure %s: %v", name, err)
	}
	return enc
}

func mustRegister(t *testing.T, svc *Service, m *domain.Monkey) {
	t.Helper()
	if _, err := svc.RegisterAnimal(context.Background(), m); err != nil {
		t.Fatalf("register %s: %v", m.Name(), err)
	}
}

func mustTransfer(t *testing.T, svc *Service, m *domain.Monkey) *housing.Enclosure {
	t.Helper()
	enc, _, err := svc.TransferToEnclosure(context.Background(), m)
	if err != nil {
		t.Fatalf("transfer %s: %v", m.Name(), err)
	}
	return enc
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
