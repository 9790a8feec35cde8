/*
 * main.go, part of gostar
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

// gostar is the command-line interface to the gostar library: spatial
// statistics and table manipulation for cryo-ET particle STAR files.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	star "github.com/rmera/gostar"
	"github.com/rmera/gostar/analyze"
	"github.com/rmera/gostar/logg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	flagOut          string
	flagTag          string
	flagDepth        int
	flagMinParticles int
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gostar",
		Short:         "Spatial statistics for cryo-ET particle STAR files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flagOut, "out", "o", "analysis", "output directory")
	pf.StringVar(&flagTag, "tag", star.Micrograph, "column used to split particles into tomograms")
	pf.IntVar(&flagDepth, "depth", -1, "group by the first N path segments of the tag value, -1 for exact match")
	pf.IntVar(&flagMinParticles, "min-particles", 3, "minimum particles per tomogram")
	root.AddCommand(radialCmd(), clusterCmd(), orientationCmd(), spatialCmd(), splitCmd(), thresholdCmd())
	return root
}

// initConfig loads an optional gostar.yaml from the working directory
// or $HOME and lets it override any flag not set on the command line.
func initConfig(cmd *cobra.Command) error {
	viper.SetConfigName("gostar")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if err := bindFlags(cmd.Flags()); err != nil {
		return err
	}
	return bindFlags(cmd.InheritedFlags())
}

func bindFlags(fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		if err := viper.BindPFlag(f.Name, f); err != nil {
			bindErr = err
			return
		}
		if !f.Changed && viper.IsSet(f.Name) {
			bindErr = fs.Set(f.Name, fmt.Sprintf("%v", viper.Get(f.Name)))
		}
	})
	return bindErr
}

func prepareOptions() *analyze.PrepareOptions {
	return &analyze.PrepareOptions{
		GroupTag:          flagTag,
		PartialMatchDepth: flagDepth,
		MinPartitionSize:  flagMinParticles,
	}
}

func newRunLogger(kind string) *logg.Logger {
	if err := os.MkdirAll(filepath.Join(flagOut, kind), 0755); err != nil {
		return logg.New("gostar", "")
	}
	return logg.New("gostar", filepath.Join(flagOut, kind, kind+"_analysis.log"))
}

func radialCmd() *cobra.Command {
	opts := analyze.DefaultRadialOptions()
	var file string
	cmd := &cobra.Command{
		Use:   "radial",
		Short: "Radial distribution function g(r) analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newRunLogger("radial")
			defer log.Sync()
			run, err := analyze.Prepare(context.Background(), file, flagOut, prepareOptions(), log)
			if err != nil {
				return err
			}
			a, err := analyze.NewRadialAnalyzer(flagOut, opts, log)
			if err != nil {
				return err
			}
			return analyze.Process[*analyze.RadialResult](context.Background(), a, run)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input STAR file")
	cmd.MarkFlagRequired("file")
	cmd.Flags().Float64VarP(&opts.BinSize, "bin-size", "b", opts.BinSize, "distance bin size (Å)")
	cmd.Flags().Float64Var(&opts.MinDistance, "min-distance", opts.MinDistance, "minimum distance to consider (Å)")
	cmd.Flags().Float64VarP(&opts.MaxDistance, "max-distance", "m", opts.MaxDistance, "maximum distance to consider (Å)")
	return cmd
}

func clusterCmd() *cobra.Command {
	opts := analyze.DefaultClusterOptions()
	var file string
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Distance-threshold cluster analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newRunLogger("cluster")
			defer log.Sync()
			run, err := analyze.Prepare(context.Background(), file, flagOut, prepareOptions(), log)
			if err != nil {
				return err
			}
			a, err := analyze.NewClusterAnalyzer(flagOut, opts, log)
			if err != nil {
				return err
			}
			return analyze.Process[*analyze.ClusterResult](context.Background(), a, run)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input STAR file")
	cmd.MarkFlagRequired("file")
	cmd.Flags().Float64VarP(&opts.Threshold, "threshold", "t", opts.Threshold, "clustering distance threshold (Å)")
	cmd.Flags().IntVarP(&opts.MinClusterSize, "min-size", "s", opts.MinClusterSize, "minimum particles per cluster")
	return cmd
}

func orientationCmd() *cobra.Command {
	opts := analyze.DefaultOrientationOptions()
	var file string
	cmd := &cobra.Command{
		Use:   "orientation",
		Short: "Nearest-neighbor orientation angle analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newRunLogger("orientation")
			defer log.Sync()
			run, err := analyze.Prepare(context.Background(), file, flagOut, prepareOptions(), log)
			if err != nil {
				return err
			}
			a, err := analyze.NewOrientationAnalyzer(flagOut, opts, log)
			if err != nil {
				return err
			}
			return analyze.Process[*analyze.OrientationResult](context.Background(), a, run)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input STAR file")
	cmd.MarkFlagRequired("file")
	cmd.Flags().Float64Var(&opts.MaxAngle, "max-angle", opts.MaxAngle, "maximum angle to consider (degrees)")
	cmd.Flags().Float64Var(&opts.BinWidth, "bin-width", opts.BinWidth, "angle bin width (degrees)")
	return cmd
}

func spatialCmd() *cobra.Command {
	radial := analyze.DefaultRadialOptions()
	cluster := analyze.DefaultClusterOptions()
	orientation := analyze.DefaultOrientationOptions()
	var file string
	cmd := &cobra.Command{
		Use:   "spatial",
		Short: "Combined radial, cluster and orientation analysis",
		Long: `Runs radial distribution, cluster and orientation analysis over one
shared prepared dataset, preparing and splitting the input only once,
and merges the three summaries into a single report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logg.New("gostar", filepath.Join(flagOut, "spatial_analysis.log"))
			defer log.Sync()
			cfg := analyze.SpatialConfigs{
				Prepare:     prepareOptions(),
				Radial:      radial,
				Cluster:     cluster,
				Orientation: orientation,
			}
			a := analyze.NewSpatialAnalyzer(file, flagOut, cfg, log)
			return a.RunAnalysis(context.Background())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input STAR file")
	cmd.MarkFlagRequired("file")
	cmd.Flags().Float64VarP(&radial.BinSize, "bin-size", "b", radial.BinSize, "radial distance bin size (Å)")
	cmd.Flags().Float64Var(&radial.MinDistance, "min-distance", radial.MinDistance, "radial minimum distance (Å)")
	cmd.Flags().Float64VarP(&radial.MaxDistance, "max-distance", "m", radial.MaxDistance, "radial maximum distance (Å)")
	cmd.Flags().Float64VarP(&cluster.Threshold, "threshold", "t", cluster.Threshold, "clustering distance threshold (Å)")
	cmd.Flags().IntVarP(&cluster.MinClusterSize, "min-size", "s", cluster.MinClusterSize, "minimum particles per cluster")
	cmd.Flags().Float64Var(&orientation.MaxAngle, "max-angle", orientation.MaxAngle, "maximum orientation angle (degrees)")
	cmd.Flags().Float64Var(&orientation.BinWidth, "bin-width", orientation.BinWidth, "orientation angle bin width (degrees)")
	return cmd
}

func splitCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a STAR file into per-tomogram sub-files",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := star.ReadStar(file)
			if err != nil {
				return err
			}
			particles, err := s.Particles()
			if err != nil {
				return err
			}
			parts, err := star.PartitionByTag(particles, flagTag, flagDepth)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(flagOut, 0755); err != nil {
				return err
			}
			for _, p := range parts {
				sub := star.NewStar()
				if optics := s.Table("optics"); optics != nil {
					sub.SetTable("optics", optics.Copy())
				}
				sub.SetTable("particles", p.Table)
				path := filepath.Join(flagOut, star.PartitionStem(p.Key)+".star")
				if err := star.WriteStar(sub, path); err != nil {
					return err
				}
				fmt.Printf("%s: %d particles\n", path, p.Table.Len())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input STAR file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func thresholdCmd() *cobra.Command {
	var file, column, outFile string
	var min, max float64
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Keep only particles whose column value falls in [min, max]",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := star.ReadStar(file)
			if err != nil {
				return err
			}
			particles, err := s.Particles()
			if err != nil {
				return err
			}
			filtered, err := star.ThresholdFilter(particles, column, min, max)
			if err != nil {
				return err
			}
			s.SetTable("particles", filtered)
			if err := star.WriteStar(s, outFile); err != nil {
				return err
			}
			fmt.Printf("%s: kept %d of %d particles\n", outFile, filtered.Len(), particles.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input STAR file")
	cmd.MarkFlagRequired("file")
	cmd.Flags().StringVarP(&column, "column", "c", "", "column to threshold on")
	cmd.MarkFlagRequired("column")
	cmd.Flags().Float64Var(&min, "min", 0, "minimum value, inclusive")
	cmd.Flags().Float64Var(&max, "max", 0, "maximum value, inclusive")
	cmd.Flags().StringVar(&outFile, "out-file", "filtered.star", "output STAR file")
	return cmd
}
