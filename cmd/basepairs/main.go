// Command basepairs identifies and classifies base pairs in nucleic-acid
// structures.
//
// Usage:
//
//	basepairs find structure.pdb [more.pdb ...] \
//	    --idealized-dir basepair-idealized --exemplar-dir basepair-exemplars
//
// Configuration is resolved flag > environment (BASEPAIRS_*) > config file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jyesselm/basepairs/internal/chem"
	"github.com/jyesselm/basepairs/internal/finder"
	"github.com/jyesselm/basepairs/internal/parser"
	"github.com/jyesselm/basepairs/internal/templates"
	"github.com/jyesselm/basepairs/internal/validation"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "basepairs",
		Short:         "Identify and classify nucleic-acid base pairs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file (YAML)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(newFindCommand())
	return root
}

func newFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <structure.pdb> [more.pdb ...]",
		Short: "Run the pair-identification pipeline on PDB structures",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFind,
	}

	flags := cmd.Flags()
	flags.String("idealized-dir", "", "directory of idealized templates (per-LW-class subdirectories)")
	flags.String("exemplar-dir", "", "directory of exemplar templates (flat)")
	flags.String("registry", "", "JSON overlay for the modified-nucleotide registry")
	flags.String("preset", "default", "validation preset: default, strict, or relaxed")
	flags.Float64("max-pair-distance", 15.0, "frame-origin neighbor radius (Angstroms)")
	flags.Float64("max-distance", 4.0, "H-bond donor-acceptor cutoff (Angstroms)")
	flags.Float64("min-alignment", 0.3, "minimum slot alignment for H-bonds")
	flags.Float64("min-bifurcation-angle", 45.0, "angular separation for bonds sharing a slot (degrees)")
	flags.Float64("min-bifurcation-alignment", 0.5, "alignment floor for bifurcated bonds")
	flags.Float64("short-distance-threshold", 3.2, "distance below which the alignment floor is waived")
	flags.Float64("min-score", 0.0, "selection floor on the pair quality score")
	flags.Bool("no-mutual", false, "disable the mutual-best constraint")
	flags.Bool("no-classify", false, "skip Leontis-Westhof classification")
	flags.Int("workers", 4, "parallel workers for multi-structure runs")
	flags.StringP("output", "o", "", "write JSON results to this file (default stdout)")

	return cmd
}

func runFind(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetEnvPrefix("BASEPAIRS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	logger, err := newLogger(v.GetBool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	registry, err := loadRegistry(v.GetString("registry"))
	if err != nil {
		return err
	}

	cfg, err := finderConfig(v)
	if err != nil {
		return err
	}

	var repo *templates.Repository
	if dir := v.GetString("idealized-dir"); dir != "" || v.GetString("exemplar-dir") != "" {
		repo = templates.NewRepository(dir, v.GetString("exemplar-dir"))
	} else {
		logger.Warn("no template directories configured; skipping template alignment and LW classification")
	}

	f := finder.New(cfg, repo, logger)

	structures := make([]*parser.Structure, 0, len(args))
	for _, path := range args {
		s, err := parser.ParsePDB(path, registry)
		if err != nil {
			// A parse failure aborts that structure only.
			logger.Error("failed to parse structure", zap.String("path", path), zap.Error(err))
			continue
		}
		structures = append(structures, s)
	}
	if len(structures) == 0 {
		return fmt.Errorf("no parseable structures among %d inputs", len(args))
	}

	results := f.FindPairsBatch(structures, v.GetInt("workers"))

	ordered := make([]*finder.Result, 0, len(structures))
	for _, s := range structures {
		ordered = append(ordered, results[s.Name])
	}
	return writeResults(ordered, v.GetString("output"))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

func loadRegistry(path string) (*chem.Registry, error) {
	if path == "" {
		return chem.NewRegistry(), nil
	}
	return chem.NewRegistryFromFile(path)
}

func finderConfig(v *viper.Viper) (finder.Config, error) {
	cfg := finder.DefaultConfig()

	switch v.GetString("preset") {
	case "", "default":
		cfg.Thresholds = validation.DefaultThresholds()
	case "strict":
		cfg.Thresholds = validation.StrictThresholds()
	case "relaxed":
		cfg.Thresholds = validation.RelaxedThresholds()
	default:
		return cfg, fmt.Errorf("unknown preset %q", v.GetString("preset"))
	}

	cfg.MaxPairDistance = v.GetFloat64("max-pair-distance")
	cfg.MinScore = v.GetFloat64("min-score")
	cfg.RequireMutual = !v.GetBool("no-mutual")
	cfg.Classify = !v.GetBool("no-classify")

	cfg.Detector.MaxDistance = v.GetFloat64("max-distance")
	cfg.Detector.MinAlignment = v.GetFloat64("min-alignment")
	cfg.Detector.MinBifurcationAngle = v.GetFloat64("min-bifurcation-angle")
	cfg.Detector.MinBifurcationAlignment = v.GetFloat64("min-bifurcation-alignment")
	cfg.Detector.ShortDistanceThreshold = v.GetFloat64("short-distance-threshold")

	return cfg, nil
}

func writeResults(results []*finder.Result, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
