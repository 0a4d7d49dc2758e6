package telemetry

import (
	"testing"

	"github.com/pthm-cable/grove/components"
)

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(10)
	if c.ShouldFlush(9) {
		t.Error("flush before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("no flush at window end")
	}
	c.Flush(10, [components.NumKinds]int{}, nil)
	if c.ShouldFlush(19) || !c.ShouldFlush(20) {
		t.Error("window did not restart at last flush")
	}
}

func TestCollector_FlushCountsAndResets(t *testing.T) {
	c := NewCollector(5)
	c.RecordBirth(components.KindGrazer)
	c.RecordBirth(components.KindGrazer)
	c.RecordBirth(components.KindBlaze)
	c.RecordDeath(components.KindGroundCover, components.CauseEaten)
	c.RecordDeath(components.KindWoody, components.CauseBurned)
	c.RecordDeath(components.KindGrazer, components.CauseStarvation)
	c.RecordIgnition()
	c.RecordSmothered()

	var pop [components.NumKinds]int
	pop[components.KindGrazer] = 4
	pop[components.KindGroundCover] = 6
	pop[components.KindWoody] = 2

	s := c.Flush(5, pop, []float64{0, 2, 4, 0})

	if s.WindowStart != 0 || s.WindowEnd != 5 {
		t.Errorf("window = [%d,%d], want [0,5]", s.WindowStart, s.WindowEnd)
	}
	if s.Grazers != 4 || s.Plants() != 8 {
		t.Errorf("grazers/plants = %d/%d, want 4/8", s.Grazers, s.Plants())
	}
	if s.GrazerBirths != 2 || s.BlazeSpawns != 1 {
		t.Errorf("births = %d grazer, %d blaze", s.GrazerBirths, s.BlazeSpawns)
	}
	if s.Eaten != 1 || s.Burned != 1 || s.Starvation != 1 {
		t.Errorf("causes eaten/burned/starvation = %d/%d/%d", s.Eaten, s.Burned, s.Starvation)
	}
	if s.GroundCoverDeaths != 1 || s.WoodyDeaths != 1 || s.GrazerDeaths != 1 {
		t.Errorf("deaths by kind = %d/%d/%d", s.GroundCoverDeaths, s.WoodyDeaths, s.GrazerDeaths)
	}
	if s.Ignitions != 1 || s.Smothered != 1 {
		t.Errorf("ignitions/smothered = %d/%d", s.Ignitions, s.Smothered)
	}
	if s.PlantDensityMean != 1.5 || s.PlantCoverage != 0.5 {
		t.Errorf("density mean/coverage = %v/%v, want 1.5/0.5", s.PlantDensityMean, s.PlantCoverage)
	}

	next := c.Flush(10, pop, nil)
	if next.WindowStart != 5 {
		t.Errorf("next window start = %d, want 5", next.WindowStart)
	}
	if next.GrazerBirths != 0 || next.Eaten != 0 || next.Ignitions != 0 {
		t.Error("counters not reset after flush")
	}
}
