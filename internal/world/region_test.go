package world

import (
	"testing"

	"github.com/udisondev/zsurvive/internal/model"
)

func TestNewRegion(t *testing.T) {
	region := NewRegion(10, 20)

	if region.RX() != 10 {
		t.Errorf("RX() = %d, want 10", region.RX())
	}
	if region.RZ() != 20 {
		t.Errorf("RZ() = %d, want 20", region.RZ())
	}
	if len(region.Snapshot()) != 0 {
		t.Error("new region should be empty")
	}
}

func TestRegion_AddRemove(t *testing.T) {
	region := NewRegion(0, 0)
	e := model.NewEnemy(100, model.EnemySpec{MaxHealth: 10}, model.Vec3{})

	region.Add(e)
	snap := region.Snapshot()
	if len(snap) != 1 || snap[0].ObjectID() != 100 {
		t.Fatalf("Snapshot() = %v, want [100]", snap)
	}
	if region.Len() != 1 {
		t.Errorf("Len() = %d, want 1", region.Len())
	}

	region.Remove(100)
	if len(region.Snapshot()) != 0 {
		t.Error("enemy still in region after Remove()")
	}
}

func TestRegion_SnapshotCached(t *testing.T) {
	region := NewRegion(0, 0)
	region.Add(model.NewEnemy(1, model.EnemySpec{MaxHealth: 10}, model.Vec3{}))

	first := region.Snapshot()
	second := region.Snapshot()
	if &first[0] != &second[0] {
		t.Error("unchanged region should return the cached snapshot")
	}

	region.Add(model.NewEnemy(2, model.EnemySpec{MaxHealth: 10}, model.Vec3{}))
	if len(region.Snapshot()) != 2 {
		t.Error("snapshot not rebuilt after Add()")
	}
}
