package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/grove/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFireDieOff       BookmarkType = "fire_die_off"
	BookmarkGrazerCrash      BookmarkType = "grazer_crash"
	BookmarkGrazerExtinction BookmarkType = "grazer_extinction"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Turn        int          `csv:"turn" json:"turn"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"turn", b.Turn,
		"description", b.Description,
	)
}

// stableLookback is how many recent windows the stability check spans.
const stableLookback = 4

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPlantPeak    int // peak plant count since the last die-off
	recentGrazerPeak   int // peak grazer count since the last crash
	lastGrazers        int
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		lastGrazers: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkFireDieOff(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkGrazerCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkGrazerExtinction(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	// Stability looks at the window just added.
	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if p := stats.Plants(); p > bd.recentPlantPeak {
		bd.recentPlantPeak = p
	}
	if stats.Grazers > bd.recentGrazerPeak {
		bd.recentGrazerPeak = stats.Grazers
	}
	bd.lastGrazers = stats.Grazers

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	n = min(n, count)
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

// dropped reports whether current fell more than pct below peak by at least
// minDrop individuals.
func dropped(peak, current int, d config.DieOffConfig) (float64, bool) {
	if peak == 0 {
		return 0, false
	}
	pct := 1.0 - float64(current)/float64(peak)
	return pct, pct > d.DropPercent && peak-current >= d.MinDrop
}

func (bd *BookmarkDetector) checkFireDieOff(stats WindowStats) *Bookmark {
	plants := stats.Plants()
	pct, ok := dropped(bd.recentPlantPeak, plants, bd.cfg.FireDieOff)
	if !ok || stats.Burned <= stats.Eaten+stats.Displaced {
		return nil
	}

	oldPeak := bd.recentPlantPeak
	bd.recentPlantPeak = plants

	return &Bookmark{
		Type:        BookmarkFireDieOff,
		Turn:        stats.WindowEnd,
		Description: fmt.Sprintf("Plants burned down %.0f%% from peak %d to %d (%d burned)", pct*100, oldPeak, plants, stats.Burned),
	}
}

func (bd *BookmarkDetector) checkGrazerCrash(stats WindowStats) *Bookmark {
	if stats.Grazers == 0 {
		return nil // reported as extinction
	}
	pct, ok := dropped(bd.recentGrazerPeak, stats.Grazers, bd.cfg.GrazerCrash)
	if !ok {
		return nil
	}

	oldPeak := bd.recentGrazerPeak
	bd.recentGrazerPeak = stats.Grazers

	return &Bookmark{
		Type:        BookmarkGrazerCrash,
		Turn:        stats.WindowEnd,
		Description: fmt.Sprintf("Grazers crashed %.0f%% from peak %d to %d", pct*100, oldPeak, stats.Grazers),
	}
}

func (bd *BookmarkDetector) checkGrazerExtinction(stats WindowStats) *Bookmark {
	if stats.Grazers != 0 || bd.lastGrazers <= 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkGrazerExtinction,
		Turn:        stats.WindowEnd,
		Description: fmt.Sprintf("Grazers extinct (%d starved, %d overcrowded this window)", stats.Starvation, stats.Overcrowding),
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	sc := bd.cfg.StableEcosystem
	if stats.Grazers < sc.MinGrazers || stats.Plants() < sc.MinPlants {
		bd.stableWindowsCount = 0
		return nil
	}

	window := bd.recent(stableLookback)
	if len(window) < stableLookback {
		return nil
	}

	grazers := make([]float64, len(window))
	plants := make([]float64, len(window))
	for i, h := range window {
		grazers[i] = float64(h.Grazers)
		plants[i] = float64(h.Plants())
	}

	if CoefficientOfVariation(grazers) < sc.CVThreshold && CoefficientOfVariation(plants) < sc.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == sc.StableWindows { // trigger once per stable stretch
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Turn:        stats.WindowEnd,
			Description: fmt.Sprintf("Stable ecosystem with %d grazers, %d plants over %d windows", stats.Grazers, stats.Plants(), sc.StableWindows),
		}
	}

	return nil
}
