package refclient

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/smartcity/staff-service/internal/domain"
)

type countingResolver struct {
	cityCalls int
}

func (c *countingResolver) GetCity(_ context.Context, id, _ string) (*domain.CityRef, error) {
	c.cityCalls++
	return &domain.CityRef{ID: id, Name: "Metropolis"}, nil
}

func (c *countingResolver) GetVillage(_ context.Context, id, _ string) (*domain.VillageRef, error) {
	return &domain.VillageRef{ID: id, Name: "Riverside"}, nil
}

func TestCachedResolver_DisabledPassesThrough(t *testing.T) {
	next := &countingResolver{}
	cached := NewCachedResolver(next, nil, 0, zap.NewNop())

	for i := 0; i < 3; i++ {
		city, err := cached.GetCity(context.Background(), "c1", "token")
		if err != nil {
			t.Fatalf("GetCity should succeed: %v", err)
		}
		if city.ID != "c1" {
			t.Errorf("unexpected city %+v", city)
		}
	}
	if next.cityCalls != 3 {
		t.Errorf("disabled cache must always fall through, got %d calls", next.cityCalls)
	}
}
