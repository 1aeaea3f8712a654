package engine

import "github.com/rs/zerolog/log"

// CutStatistics collects counts for each pruning/cutoff mechanism.
type CutStatistics struct {
	TTCutoffs        uint64
	BetaCutoffs      uint64
	QStandPatCutoffs uint64
	QDeltaPrunes     uint64
	QSEESkips        uint64
	QBetaCutoffs     uint64
	Researches       uint64
}

func (c *CutStatistics) reset() { *c = CutStatistics{} }

func (c *CutStatistics) log() {
	log.Debug().
		Uint64("tt-cutoffs", c.TTCutoffs).
		Uint64("beta-cutoffs", c.BetaCutoffs).
		Uint64("q-stand-pat-cutoffs", c.QStandPatCutoffs).
		Uint64("q-delta-prunes", c.QDeltaPrunes).
		Uint64("q-see-skips", c.QSEESkips).
		Uint64("q-beta-cutoffs", c.QBetaCutoffs).
		Uint64("aspiration-researches", c.Researches).
		Msg("cut-statistics")
}
