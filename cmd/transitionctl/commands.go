package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/comalice/transitionx/internal/production"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// loadTable reads a serialized table into a fresh engine.
func (a *app) loadTable(path string) (engine, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	eng, err := newEngine(a.cfg.Scheme, a.logger)
	if err != nil {
		return nil, err
	}
	if err := eng.FromBytes(data); err != nil {
		return nil, fmt.Errorf("load table %s: %w", path, err)
	}
	return eng, nil
}

func (a *app) buildCmd() *cobra.Command {
	var (
		output  string
		minFreq int
		exclude []string
	)
	cmd := &cobra.Command{
		Use:   "build [gold corpus]",
		Short: "Build an action table from the label frequencies of a gold corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := readFile(args[0])
			if err != nil {
				return err
			}
			eng, err := newEngine(a.cfg.Scheme, a.logger)
			if err != nil {
				return err
			}
			labels, err := eng.Count(corpus)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-freq") {
				minFreq = a.cfg.MinFreq
			}
			if err := eng.Initialize(labels, minFreq); err != nil {
				return err
			}
			data, err := eng.ToBytes(exclude...)
			if err != nil {
				return err
			}
			a.logger.Info("table built", "scheme", a.cfg.Scheme, "moves", len(eng.Rows()), "min_freq", minFreq)
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&minFreq, "min-freq", 0, "drop labels seen fewer times (overrides config)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "sections to leave out (moves, strings)")
	return cmd
}

func (a *app) describeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "describe [table]",
		Short: "Print the moves of a serialized action table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.loadTable(args[0])
			if err != nil {
				return err
			}
			rows := eng.Rows()
			if asJSON {
				data, err := production.ExportJSON(rows)
				if err != nil {
					return err
				}
				return writeOutput(cmd, "", append(data, '\n'))
			}
			return production.ExportText(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func (a *app) oracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle [table] [gold corpus]",
		Short: "Print the gold move sequence of every item in a corpus",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.loadTable(args[0])
			if err != nil {
				return err
			}
			corpus, err := readFile(args[1])
			if err != nil {
				return err
			}
			lines, err := eng.Oracle(cmd.Context(), corpus, a.cfg.Workers)
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for i, line := range lines {
				if line.Err != nil {
					failed++
					fmt.Fprintf(out, "%d\terror: %v\n", i, line.Err)
					continue
				}
				fmt.Fprintf(out, "%d\t%s\n", i, strings.Join(line.Moves, " "))
			}
			a.logger.Info("oracle finished", "items", len(lines), "failed", failed)
			return nil
		},
	}
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var (
		width   int
		density float64
	)
	cmd := &cobra.Command{
		Use:   "decode [table] [tokens]",
		Short: "Beam-decode token sequences with a frequency-based scorer",
		Long: `Decode reads a YAML list of token sequences and prints the best move
sequence found for each. Moves are ranked by how often they occurred when the
table was built. Beam width and density come from the config unless the flags
are given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.loadTable(args[0])
			if err != nil {
				return err
			}
			data, err := readFile(args[1])
			if err != nil {
				return err
			}
			var tokens [][]string
			if err := yaml.Unmarshal(data, &tokens); err != nil {
				return fmt.Errorf("parse tokens: %w", err)
			}
			if !cmd.Flags().Changed("width") {
				width = a.cfg.BeamWidth
			}
			if !cmd.Flags().Changed("density") {
				density = a.cfg.BeamDensity
			}

			lines, err := eng.Decode(tokens, width, density)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, line := range lines {
				fmt.Fprintf(out, "%d\t%.4f\t%s\n", i, line.Score, strings.Join(line.Moves, " "))
			}
			a.logger.Info("decode finished", "items", len(lines), "width", width, "density", density)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "beam width (overrides config)")
	cmd.Flags().Float64Var(&density, "density", 0, "beam density, 0 disables (overrides config)")
	return cmd
}

func (a *app) storeCmd() *cobra.Command {
	store := &cobra.Command{
		Use:   "store",
		Short: "Save and load action tables in the configured store",
	}

	save := &cobra.Command{
		Use:   "save [name] [table]",
		Short: "Store a serialized table under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.loadTable(args[1])
			if err != nil {
				return err
			}
			data, err := eng.ToBytes()
			if err != nil {
				return err
			}
			p, release, err := a.persister()
			if err != nil {
				return err
			}
			defer release()
			if sp, ok := p.(*production.SQLitePersister); ok {
				v, err := sp.SaveVersion(cmd.Context(), args[0], data)
				if err != nil {
					return err
				}
				a.logger.Info("table stored", "name", args[0], "version", v.ID, "hash", v.Hash)
				return nil
			}
			if err := p.Save(cmd.Context(), args[0], data); err != nil {
				return err
			}
			a.logger.Info("table stored", "name", args[0])
			return nil
		},
	}

	var output, version string
	load := &cobra.Command{
		Use:   "load [name]",
		Short: "Print a stored table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := a.persister()
			if err != nil {
				return err
			}
			defer release()

			var data []byte
			if version != "" {
				sp, ok := p.(*production.SQLitePersister)
				if !ok {
					return fmt.Errorf("store driver %q does not keep versions", a.cfg.Store.Driver)
				}
				_, data, err = sp.Version(cmd.Context(), args[0], version)
			} else {
				data, err = p.Load(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	load.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	load.Flags().StringVar(&version, "version", "", "load this version instead of the latest")

	versions := &cobra.Command{
		Use:   "versions [name]",
		Short: "List the stored versions of a table, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, release, err := a.persister()
			if err != nil {
				return err
			}
			defer release()
			sp, ok := p.(*production.SQLitePersister)
			if !ok {
				return fmt.Errorf("store driver %q does not keep versions", a.cfg.Store.Driver)
			}
			vs, err := sp.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, v := range vs {
				fmt.Fprintf(out, "%s\t%s\t%d\t%s\n", v.ID, v.Hash, v.Size, v.CreatedAt.Format("2006-01-02T15:04:05Z"))
			}
			return nil
		},
	}

	store.AddCommand(save, load, versions)
	return store
}
