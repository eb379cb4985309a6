package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"

	"github.com/tempnet/tempnet/dataset"
	"github.com/tempnet/tempnet/graph"
	"github.com/tempnet/tempnet/measure"
	"github.com/tempnet/tempnet/stats"
	"github.com/tempnet/tempnet/webapi"
)

var (
	appName = "tempnet"
	appSha  = "populated-at-link-time"
)

// config collects the settings shared by the analyze and serve commands. The
// YAML config file provides defaults; explicitly set command-line flags win.
type config struct {
	Edges       string   `yaml:"edges"`
	Metadata    string   `yaml:"metadata"`
	Separator   string   `yaml:"separator"`
	Granularity int      `yaml:"granularity"`
	Cumulative  bool     `yaml:"cumulative"`
	Measures    []string `yaml:"measures"`
	ListenAddr  string   `yaml:"listen_addr"`
}

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
		"run":  uuid.New().String(),
	})

	app := cli.NewApp()
	app.Name = appName
	app.Usage = "build and analyze temporal proximity graphs"
	app.Commands = []cli.Command{
		analyzeCommand(logger),
		serveCommand(logger),
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "path to a YAML config file providing defaults for all flags"},
		cli.StringFlag{Name: "edges", Usage: "path or URL of the temporal edge table (.gz/.bz2/.parquet supported)"},
		cli.StringFlag{Name: "metadata", Usage: "path or URL of the node metadata table (optional)"},
		cli.StringFlag{Name: "separator", Usage: "column separator; any whitespace when empty"},
		cli.IntFlag{Name: "granularity", Usage: "time-bucket width; the inferred update delta when 0"},
		cli.BoolFlag{Name: "cumulative", Usage: "accumulate edges from the start of time in every step"},
		cli.StringSliceFlag{Name: "measure", Usage: "measure to compute (degree, betweenness, closeness); repeatable"},
	}
}

func analyzeCommand(logger *logrus.Entry) cli.Command {
	return cli.Command{
		Name:  "analyze",
		Usage: "build the temporal graph, compute measures and print a JSON summary",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			tg, err := buildGraph(cfg, logger)
			if err != nil {
				return err
			}
			if err := computeMeasures(tg, cfg.Measures, logger); err != nil {
				return err
			}
			return printSummary(os.Stdout, tg)
		},
	}
}

func serveCommand(logger *logrus.Entry) cli.Command {
	return cli.Command{
		Name:  "serve",
		Usage: "analyze and expose the result over a read-only HTTP API",
		Flags: append(commonFlags(),
			cli.StringFlag{Name: "listen-addr", Value: ":8080", Usage: "address to listen for incoming requests"},
		),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			tg, err := buildGraph(cfg, logger)
			if err != nil {
				return err
			}
			if err := computeMeasures(tg, cfg.Measures, logger); err != nil {
				return err
			}

			svc, err := webapi.New(tg, webapi.Config{
				ListenAddr: cfg.ListenAddr,
				Logger:     logger.WithField("service", "webapi"),
			})
			if err != nil {
				return err
			}

			ctx, cancelFn := context.WithCancel(context.Background())
			defer cancelFn()
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				select {
				case s := <-sigCh:
					logger.WithField("signal", s.String()).Info("shutting down due to signal")
					cancelFn()
				case <-ctx.Done():
				}
			}()

			return svc.Run(ctx)
		},
	}
}

func loadConfig(c *cli.Context) (config, error) {
	cfg := config{
		Measures:   []string{"degree"},
		ListenAddr: ":8080",
	}
	if path := c.String("config"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	if c.IsSet("edges") {
		cfg.Edges = c.String("edges")
	}
	if c.IsSet("metadata") {
		cfg.Metadata = c.String("metadata")
	}
	if c.IsSet("separator") {
		cfg.Separator = c.String("separator")
	}
	if c.IsSet("granularity") {
		cfg.Granularity = c.Int("granularity")
	}
	if c.IsSet("cumulative") {
		cfg.Cumulative = c.Bool("cumulative")
	}
	if c.IsSet("measure") {
		cfg.Measures = c.StringSlice("measure")
	}
	if c.IsSet("listen-addr") {
		cfg.ListenAddr = c.String("listen-addr")
	}

	if cfg.Edges == "" {
		return cfg, fmt.Errorf("no edge table specified; use --edges or a config file")
	}
	return cfg, nil
}

func buildGraph(cfg config, logger *logrus.Entry) (*graph.TemporalGraph, error) {
	logger.WithField("source", cfg.Edges).Info("loading edge table")

	var (
		table *dataset.TemporalEdgeTable
		err   error
	)
	if filepath.Ext(cfg.Edges) == ".parquet" {
		table, err = dataset.ReadParquetEdgeTable(cfg.Edges)
	} else {
		table, err = dataset.ReadEdgeTable(cfg.Edges, cfg.Separator)
	}
	if err != nil {
		return nil, err
	}

	var meta *dataset.MetadataTable
	if cfg.Metadata != "" {
		logger.WithField("source", cfg.Metadata).Info("loading metadata table")
		if meta, err = dataset.ReadMetadataTable(cfg.Metadata, cfg.Separator); err != nil {
			return nil, err
		}
	}

	tg, err := graph.NewFromTable(table, meta, cfg.Granularity)
	if err != nil {
		return nil, err
	}
	tg.SetCumulative(cfg.Cumulative)

	logger.WithFields(logrus.Fields{
		"steps":       tg.Len(),
		"granularity": tg.Granularity(),
		"nodes":       len(tg.Nodes()),
	}).Info("built temporal graph")
	return tg, nil
}

// measureConstructors maps CLI measure names to the local and global
// constructor pair they select.
var measureConstructors = map[string][]func(*graph.TemporalGraph) (measure.Measure, error){
	"degree": {
		func(tg *graph.TemporalGraph) (measure.Measure, error) { return measure.NewLocalDegree(tg) },
		func(tg *graph.TemporalGraph) (measure.Measure, error) { return measure.NewGlobalDegree(tg) },
	},
	"betweenness": {
		func(tg *graph.TemporalGraph) (measure.Measure, error) { return measure.NewLocalBetweenness(tg) },
		func(tg *graph.TemporalGraph) (measure.Measure, error) { return measure.NewGlobalBetweenness(tg) },
	},
	"closeness": {
		func(tg *graph.TemporalGraph) (measure.Measure, error) { return measure.NewLocalCloseness(tg) },
		func(tg *graph.TemporalGraph) (measure.Measure, error) { return measure.NewGlobalCloseness(tg) },
	},
}

func computeMeasures(tg *graph.TemporalGraph, names []string, logger *logrus.Entry) error {
	for _, name := range names {
		constructors, ok := measureConstructors[strings.ToLower(name)]
		if !ok {
			known := make([]string, 0, len(measureConstructors))
			for k := range measureConstructors {
				known = append(known, k)
			}
			sort.Strings(known)
			return fmt.Errorf("unknown measure %q; known measures: %s", name, strings.Join(known, ", "))
		}

		for _, newMeasure := range constructors {
			m, err := newMeasure(tg)
			if err != nil {
				return err
			}
			if err := m.AddToGraph(); err != nil {
				return err
			}
			logger.WithField("measure", m.Name()).Info("computed measure")
		}
	}
	return nil
}

type summary struct {
	Steps        int      `json:"steps"`
	Granularity  int      `json:"granularity"`
	Cumulative   bool     `json:"cumulative"`
	Nodes        int      `json:"nodes"`
	EdgesPerStep []int    `json:"edges_per_step"`
	NodesPerStep []int    `json:"nodes_per_step"`
	Attributes   []string `json:"attributes"`
}

func printSummary(w *os.File, tg *graph.TemporalGraph) error {
	graphs := tg.Graphs()
	s := summary{
		Steps:        tg.Len(),
		Granularity:  tg.Granularity(),
		Cumulative:   tg.Cumulative(),
		Nodes:        len(tg.Nodes()),
		EdgesPerStep: stats.TotalEdgesPerStep(graphs),
		NodesPerStep: stats.NodesPerStep(graphs),
	}
	for name := range tg.AttributesInfo() {
		s.Attributes = append(s.Attributes, name)
	}
	sort.Strings(s.Attributes)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
