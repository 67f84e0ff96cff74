package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"esilcfg/internal/analysis"
	"esilcfg/internal/cfg"
	"esilcfg/internal/detectors"
	"esilcfg/internal/disasm"
	"esilcfg/internal/esil"
	"esilcfg/internal/esilcfg/log"
)

// buildResult is everything a graph run produces
type buildResult struct {
	CFG      *cfg.CFG
	Ops      int
	Stats    analysis.Stats
	Findings []analysis.Finding
	Elapsed  time.Duration
}

// source is either a listing to decode or a single expression
type source struct {
	name string
	r    io.Reader
	expr string
}

func buildGraph(ctx context.Context, conf Config, src source) (*buildResult, error) {
	start := time.Now()
	regs, err := esil.LookupProfile(conf.Arch)
	if err != nil {
		return nil, err
	}
	gen := cfg.NewGenerator(esil.DefaultOps(), regs, log.Logger())

	res := &buildResult{}
	if src.r == nil {
		addr, err := conf.Address()
		if err != nil {
			return nil, err
		}
		res.CFG, err = gen.Expr(nil, addr, src.expr)
		if err != nil {
			return nil, err
		}
		res.Ops = 1
	} else {
		dec, err := disasm.DecoderFor(disasm.Format(conf.InputFormat), src.name)
		if err != nil {
			return nil, err
		}
		ops, err := dec.Decode(src.r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.name, err)
		}
		slog.Debug("Decoded listing", "file", src.name, "ops", len(ops))
		res.CFG, err = gen.Program(ctx, nil, ops)
		if err != nil {
			return nil, err
		}
		res.Ops = len(ops)
	}

	if conf.Merge {
		before := res.CFG.Len()
		res.CFG.MergeBlocks()
		slog.Debug("Merged blocks", "before", before, "after", res.CFG.Len())
	}
	res.Stats = analysis.Collect(res.CFG)
	if conf.Check {
		res.Findings = detectors.Default().Detect(res.CFG, nil)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}
