package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/labelpmi/pkg/labelpmi"
	"github.com/cognicore/labelpmi/pkg/labelpmi/config"
	"github.com/cognicore/labelpmi/pkg/labelpmi/corpus"
	"github.com/cognicore/labelpmi/pkg/labelpmi/store/sqlite"
)

// options holds the parsed command line
type options struct {
	configPath string
	input      string
	dbPath     string
	importDocs bool
	save       bool

	// Overrides, applied only when the flag was set explicitly.
	smoothing *float64
	topN      *int
	labels    []string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("pmi-report: %v", err)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("pmi-report", flag.ContinueOnError)
	var (
		opts      options
		smoothing = fs.Float64("smoothing", 0, "Baseline count for unseen labels/words (overrides config)")
		topN      = fs.Int("top", config.DefaultTopN, "Words per label in the report (overrides config)")
		labels    = fs.String("label", "", "Comma-separated labels to report (default: all)")
	)
	fs.StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	fs.StringVar(&opts.input, "input", "", "Path to JSONL corpus ({\"label\", \"text\"} per line)")
	fs.StringVar(&opts.dbPath, "db", "", "SQLite database used as corpus source and report sink")
	fs.BoolVar(&opts.importDocs, "import", false, "Copy --input documents into --db before training")
	fs.BoolVar(&opts.save, "save", false, "Store the report in --db")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "smoothing":
			opts.smoothing = smoothing
		case "top":
			opts.topN = topN
		case "label":
			for _, l := range strings.Split(*labels, ",") {
				if l = strings.TrimSpace(l); l != "" {
					opts.labels = append(opts.labels, l)
				}
			}
		}
	})

	if opts.input == "" && opts.dbPath == "" {
		return options{}, errors.New("--input or --db required")
	}
	if opts.importDocs && (opts.input == "" || opts.dbPath == "") {
		return options{}, errors.New("--import needs both --input and --db")
	}
	if opts.save && opts.dbPath == "" {
		return options{}, errors.New("--save needs --db")
	}

	return opts, nil
}

func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if opts.smoothing != nil {
		cfg.Smoothing = *opts.smoothing
	}
	if opts.topN != nil {
		cfg.TopN = *opts.topN
	}
	if len(opts.labels) > 0 {
		cfg.Labels = opts.labels
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var docs []corpus.Document
	if opts.input != "" {
		docs, err = corpus.LoadJSONL(opts.input)
		if err != nil {
			return fmt.Errorf("load docs: %w", err)
		}
		log.Printf("Loaded %d documents from %s", len(docs), opts.input)
	}

	if opts.dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, opts.dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if opts.importDocs {
			if err := st.AddDocuments(ctx, docs); err != nil {
				return fmt.Errorf("import docs: %w", err)
			}
			log.Printf("Imported %d documents into %s", len(docs), opts.dbPath)
		}
		if opts.input == "" {
			docs, err = st.Documents(ctx)
			if err != nil {
				return fmt.Errorf("read docs: %w", err)
			}
			log.Printf("Read %d documents from %s", len(docs), opts.dbPath)
		}

		res, err := labelpmi.Analyze(docs, cfg)
		if err != nil {
			return err
		}
		if opts.save {
			if err := st.SaveReport(ctx, res.Report); err != nil {
				return fmt.Errorf("save report: %w", err)
			}
			log.Printf("Saved report %s", res.Report.ID)
		}
		return writeReport(out, res)
	}

	res, err := labelpmi.Analyze(docs, cfg)
	if err != nil {
		return err
	}
	return writeReport(out, res)
}

func writeReport(out io.Writer, res labelpmi.Result) error {
	log.Printf("Trained on %d label/word pairs, %d labels, %d distinct words",
		res.Engine.NumPairs(), len(res.Engine.Labels()), res.Engine.VocabularySize())

	data, err := json.MarshalIndent(res.Report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
