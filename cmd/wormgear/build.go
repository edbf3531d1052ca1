package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wormgearcad/wormgear"
	"github.com/wormgearcad/wormgear/features"
	"github.com/wormgearcad/wormgear/plan"
	sdfxbackend "github.com/wormgearcad/wormgear/plan/sdfx"
	"github.com/wormgearcad/wormgear/preview"
	"github.com/wormgearcad/wormgear/wheel"
	"github.com/wormgearcad/wormgear/worm"
)

type buildOptions struct {
	outDir     string
	wormLength float64
	wheelWidth float64
	wormOnly   bool
	wheelOnly  bool
	bore       float64
	autoBore   bool
	keyway     bool
	setScrews  int
	screwAngle float64
	png        bool
	dumpPlan   bool
	meshCells  int
	verbose    bool
}

func newBuildCmd() *cobra.Command {
	var opts buildOptions
	cmd := &cobra.Command{
		Use:   "build design.json",
		Short: "Build worm and wheel solids from a calculator design file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], &opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.outDir, "output-dir", "o", ".", "output directory")
	f.Float64Var(&opts.wormLength, "worm-length", worm.DefaultLength, "worm length in mm")
	f.Float64Var(&opts.wheelWidth, "wheel-width", 0, "wheel face width in mm (0 = auto)")
	f.BoolVar(&opts.wormOnly, "worm-only", false, "generate only the worm")
	f.BoolVar(&opts.wheelOnly, "wheel-only", false, "generate only the wheel")
	f.Float64Var(&opts.bore, "bore", 0, "bore diameter in mm")
	f.BoolVar(&opts.autoBore, "auto-bore", false, "size the bore from each part's dimensions")
	f.BoolVar(&opts.keyway, "keyway", false, "cut a DIN 6885 keyway (requires a bore)")
	f.IntVar(&opts.setScrews, "set-screws", 0, "number of set screw holes (requires a bore)")
	f.Float64Var(&opts.screwAngle, "set-screw-angle", 90, "first set screw angle in degrees")
	f.BoolVar(&opts.png, "png", false, "render a PNG snapshot next to each STL")
	f.BoolVar(&opts.dumpPlan, "dump-plan", false, "write each construction plan as JSON")
	f.IntVar(&opts.meshCells, "mesh-cells", 0, "marching cubes resolution (0 = default)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func runBuild(designPath string, opts *buildOptions) error {
	log, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	design, err := wormgear.LoadDesignFile(designPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o777); err != nil {
		return err
	}

	backend := sdfxbackend.New()
	if opts.meshCells > 0 {
		backend.MeshCells = opts.meshCells
	}

	if !opts.wheelOnly {
		b := &worm.Builder{
			Params:   design.Worm,
			Assembly: design.Assembly,
			Length:   opts.wormLength,
			Logger:   log,
		}
		p, err := b.Plan()
		if err != nil {
			return err
		}
		name := fmt.Sprintf("worm_m%g_z%d", design.Worm.Module, design.Worm.NumStarts)
		log.Info("building worm",
			zap.Int("starts", design.Worm.NumStarts),
			zap.Float64("module", design.Worm.Module),
			zap.Float64("length", opts.wormLength))
		err = finishPart(p, opts.wormLength, design.Worm.TipDiameter/2, name,
			design.Worm.PitchDiameter, design.Worm.RootDiameter, true, backend, log, opts)
		if err != nil {
			return err
		}
	}

	if !opts.wormOnly {
		b := &wheel.Builder{
			Params:    design.Wheel,
			Worm:      design.Worm,
			Assembly:  design.Assembly,
			FaceWidth: opts.wheelWidth,
			Logger:    log,
		}
		p, err := b.Plan()
		if err != nil {
			return err
		}
		name := fmt.Sprintf("wheel_m%g_z%d", design.Wheel.Module, design.Wheel.NumTeeth)
		log.Info("building wheel",
			zap.Int("teeth", design.Wheel.NumTeeth),
			zap.Float64("module", design.Wheel.Module),
			zap.Float64("face_width", b.Width()))
		err = finishPart(p, b.Width(), design.Wheel.TipDiameter/2, name,
			design.Wheel.PitchDiameter, design.Wheel.RootDiameter, false, backend, log, opts)
		if err != nil {
			return err
		}
	}

	log.Info("generation complete",
		zap.Int("ratio", design.Assembly.Ratio),
		zap.Float64("centre_distance", design.Assembly.CentreDistance),
		zap.String("output_dir", opts.outDir))
	return nil
}

// finishPart applies the requested features to a planned part, executes the
// plan on the preview backend and writes the artifacts.
func finishPart(p *plan.Plan, partLength, partRadius float64, name string, pitchD, rootD float64,
	shaft bool, backend *sdfxbackend.Backend, log *zap.Logger, opts *buildOptions) error {

	var bore *features.Bore
	switch {
	case opts.bore > 0:
		b, err := features.NewBore(opts.bore)
		if err != nil {
			return err
		}
		bore = b
	case opts.autoBore:
		d, ok, thin := features.AutoBore(pitchD, rootD)
		if !ok {
			p.Advise("no-bore", name+" is too small for a practical bore")
			break
		}
		if thin {
			p.Advise("thin-rim", fmt.Sprintf("%s rim under %gmm bore is thin, handle with care", name, d))
		}
		bore, _ = features.NewBore(d)
	}

	var kw *features.Keyway
	if opts.keyway {
		kw = &features.Keyway{Shaft: shaft}
	}
	var ss *features.SetScrew
	if opts.setScrews > 0 {
		ss = &features.SetScrew{Count: opts.setScrews, AngularOffset: opts.screwAngle}
	}

	result, err := features.Apply(p, p.Result, partLength, partRadius, bore, kw, ss)
	if err != nil {
		return err
	}
	p.SetResult(result)

	if opts.dumpPlan {
		blob, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		planPath := filepath.Join(opts.outDir, name+"_plan.json")
		if err := os.WriteFile(planPath, blob, 0o666); err != nil {
			return err
		}
		log.Info("wrote plan", zap.String("path", planPath))
	}

	solid, report, err := plan.Execute(backend, p, log)
	if err != nil {
		return err
	}
	for _, a := range report.Advisories {
		log.Warn("advisory", zap.String("code", a.Code), zap.String("msg", a.Msg))
	}
	for _, s := range report.Skipped {
		log.Warn("skipped", zap.String("op", s.Label), zap.Error(s.Err))
	}

	stlPath := filepath.Join(opts.outDir, name+".stl")
	if err := backend.ExportSTL(solid, stlPath); err != nil {
		return err
	}
	log.Info("wrote mesh", zap.String("path", stlPath))

	if opts.png {
		pngPath := filepath.Join(opts.outDir, name+".png")
		if err := preview.SnapshotSTL(stlPath, pngPath, preview.DefaultView); err != nil {
			return err
		}
		log.Info("wrote snapshot", zap.String("path", pngPath))
	}
	return nil
}
