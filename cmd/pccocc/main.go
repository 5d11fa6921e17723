package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jdeng/gopcc/internal/config"
	"github.com/jdeng/gopcc/internal/logger"
	"github.com/jdeng/gopcc/pkg/pcc"
)

func main() {
	fs := flag.NewFlagSet("pccocc", flag.ExitOnError)
	inputFile := fs.String("input", "", "Input occupancy-only stream")
	flags := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync(log)

	if *inputFile == "" {
		log.Fatal("input file is required, use -input")
	}
	if err := run(*inputFile, cfg, log); err != nil {
		log.Fatal("decode failed", zap.String("input", *inputFile), zap.Error(err))
	}
}

func run(input string, cfg *config.Config, log *zap.Logger) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	decoder, err := pcc.New(pcc.Options{
		SrcData:  data,
		Strict:   cfg.Decoder.Strict,
		Workers:  cfg.Decoder.Workers,
		NbThread: cfg.Decoder.NbThread,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	decodeErr := decoder.DecodeAll()

	groups := decoder.Groups()
	log.Info("decoded stream",
		zap.Int("groups", len(groups)),
		zap.Int("bytes", decoder.Position()),
		zap.Int("size", len(data)),
		zap.Stringer("status", decoder.Status()),
	)
	for _, g := range groups {
		params := g.ReconstructionParameters()
		log.Debug("reconstruction parameters",
			zap.Int("group", g.Index()),
			zap.Int("nbThread", params.NbThread),
			zap.Bool("absoluteD1", params.AbsoluteD1),
			zap.Int("occupancyResolution", params.OccupancyResolution),
		)
	}
	for _, f := range decoder.Frames() {
		log.Info("frame",
			zap.Int("group", f.Group()),
			zap.Int("frame", f.Index()),
			zap.Int("patches", len(f.Patches())),
			zap.Int("occupiedBlocks", f.OccupiedBlocks()),
			zap.Int("occupiedPixels", f.OccupiedPixels()),
			zap.Int("segmentBytes", f.SegmentSize()),
		)
		if !cfg.Output.WritePNG {
			continue
		}
		if err := writeFrame(cfg.Output, f); err != nil {
			return err
		}
	}
	// Frames decoded before a failure are still written.
	return decodeErr
}

func writeFrame(out config.OutputConfig, f *pcc.Frame) error {
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return err
	}
	name := filepath.Join(out.Dir, fmt.Sprintf("%s_g%03d_f%03d.png", out.Prefix, f.Group(), f.Index()))
	file, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer file.Close()

	if err := png.Encode(file, f.Image()); err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}
	return file.Close()
}
