package terrain

import "testing"

func TestPosition_SceneBase(t *testing.T) {
	p := Position{X: 3222, Y: 3218}

	x, y := p.SceneBase()
	if x != 3168 || y != 3168 {
		t.Errorf("expected base 3168,3168, got %d,%d", x, y)
	}
	if p.ChunkX() != 402 || p.ChunkLocalX() != 6 {
		t.Errorf("unexpected chunk %d local %d", p.ChunkX(), p.ChunkLocalX())
	}
	if p.RegionX() != 50 || p.RegionY() != 50 {
		t.Errorf("expected region 50,50, got %d,%d", p.RegionX(), p.RegionY())
	}
}

func TestPosition_SceneRegions(t *testing.T) {
	regions := Position{X: 3222, Y: 3218}.SceneRegions()

	if len(regions) != 9 {
		t.Fatalf("expected 9 regions, got %d", len(regions))
	}
	if regions[0] != (RegionCoord{X: 49, Y: 49}) {
		t.Errorf("expected first region 49,49, got %v", regions[0])
	}
	if regions[8] != (RegionCoord{X: 51, Y: 51}) {
		t.Errorf("expected last region 51,51, got %v", regions[8])
	}
}

func TestPosition_SceneRegionsAligned(t *testing.T) {
	// Base 3136 covers 3136..3240, which stays inside regions 49 and 50.
	regions := Position{X: 3184, Y: 3184}.SceneRegions()
	if len(regions) != 4 {
		t.Errorf("expected 4 regions, got %d: %v", len(regions), regions)
	}
}

func TestRegionCoord(t *testing.T) {
	c := RegionCoord{X: 50, Y: 49}
	if c.Name() != "m50_49" {
		t.Errorf("expected m50_49, got %s", c.Name())
	}
	if c.Packed() != 50<<8|49 {
		t.Errorf("expected %d, got %d", 50<<8|49, c.Packed())
	}
}
