package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"

	"github.com/blackwell-systems/apriori/internal/apriori"
	"github.com/blackwell-systems/apriori/internal/config"
	"github.com/blackwell-systems/apriori/internal/dataset"
	"github.com/blackwell-systems/apriori/internal/export"
	"github.com/blackwell-systems/apriori/internal/logging"
	"github.com/blackwell-systems/apriori/internal/output"
	"github.com/blackwell-systems/apriori/internal/rulefilter"
	"github.com/blackwell-systems/apriori/internal/store"
)

// FormatTable is the default, human-readable output format.
const FormatTable = "table"

// minedRun is the outcome of mining one input file.
type minedRun struct {
	Source        string
	MinSupport    float64
	MinConfidence float64
	Transactions  int
	Levels        int
	Items         []apriori.ItemRecord
	Rules         []apriori.RuleRecord
	Stats         apriori.RuleStats
	Duration      time.Duration
}

// mineFile loads path and runs the miner over it with the thresholds in cfg.
func mineFile(ctx context.Context, path string, cfg *config.Config, obs apriori.Observer) (*minedRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts, err := cfg.DatasetOptions()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Open(path, opts)
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		logging.Logger.Warnw("dataset has no transactions", "source", path)
	}

	start := time.Now()
	res := apriori.Mine(ds, apriori.Options{
		MinSupport:      cfg.Mining.MinSupport,
		MinConfidence:   cfg.Mining.MinConfidence,
		PruneCandidates: cfg.Mining.PruneCandidates,
		Observer:        obs,
	})
	rules, stats := apriori.GenerateRules(res, cfg.Mining.MinConfidence)

	run := &minedRun{
		Source:        path,
		MinSupport:    cfg.Mining.MinSupport,
		MinConfidence: cfg.Mining.MinConfidence,
		Transactions:  res.TransactionCount,
		Levels:        res.MaxLevel(),
		Items:         apriori.Items(res),
		Rules:         apriori.Rules(rules),
		Stats:         stats,
		Duration:      time.Since(start),
	}

	if stats.Skipped > 0 {
		logging.Logger.Warnw("skipped rule splits without antecedent support",
			"source", path, "skipped", stats.Skipped)
	}
	logging.Logger.Infow("mined dataset",
		"source", path,
		"transactions", run.Transactions,
		"levels", run.Levels,
		"itemsets", len(run.Items),
		"rules", len(run.Rules),
		"duration", run.Duration,
	)
	return run, nil
}

// warnThresholds logs thresholds outside (0, 1]. They are used as given.
func warnThresholds(cfg *config.Config) {
	check := func(name string, x float64) {
		if x <= 0 || x > 1 {
			logging.Logger.Warnw("threshold outside (0, 1] is used as given", "threshold", name, "value", x)
		}
	}
	check("min_support", cfg.Mining.MinSupport)
	check("min_confidence", cfg.Mining.MinConfidence)
}

// validateFormat rejects unknown output formats before any work is done.
func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatTable, export.FormatJSON, export.FormatYAML, "yml", export.FormatCSV:
		return nil
	}
	return errors.WithHint(
		errors.Newf("unknown output format %q", format),
		"use one of: table, json, yaml, csv",
	)
}

// report converts a run into its export form. Rules are passed separately so
// callers can hand in a filtered list.
func (r *minedRun) report(rules []apriori.RuleRecord) *export.Report {
	return export.NewReport(r.Source, r.MinSupport, r.MinConfidence, r.Transactions, r.Items, rules)
}

// renderRun writes one run to w in format, applying filter to its rules.
func renderRun(w io.Writer, format string, r *minedRun, filter *rulefilter.Filter) error {
	rules, err := filter.Apply(r.Rules)
	if err != nil {
		return err
	}

	if strings.ToLower(format) != FormatTable {
		return export.Write(w, format, r.report(rules))
	}

	fmt.Fprintf(w, "%s: %s transactions, %d frequent itemsets, %d rules (%s)\n\n",
		r.Source,
		humanize.Comma(int64(r.Transactions)),
		len(r.Items),
		len(rules),
		r.Duration.Round(time.Microsecond),
	)
	fmt.Fprintln(w, "Frequent itemsets")
	fmt.Fprint(w, output.RenderItemsTable(r.Items, r.MinSupport))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Association rules")
	fmt.Fprint(w, output.RenderRulesTable(rules, r.MinConfidence))
	if filter.String() != "" {
		fmt.Fprintf(w, "(filter: %s, %d of %d rules shown)\n", filter.String(), len(rules), len(r.Rules))
	}
	return nil
}

// saveRun stores r in the run history and returns its ID. Rules are saved
// unfiltered so that 'show --filter' can select from all of them.
func saveRun(st *store.Store, r *minedRun) (string, error) {
	run := &store.Run{
		Source:           r.Source,
		MinSupport:       r.MinSupport,
		MinConfidence:    r.MinConfidence,
		TransactionCount: r.Transactions,
		LevelCount:       r.Levels,
		Duration:         r.Duration,
	}
	return st.SaveRun(run, r.Items, r.Rules)
}

// openHistory opens the run history database, creating its tables when
// create is set.
func openHistory(create bool) (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}
	st, err := store.New(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if create {
		if err := st.CreateSchema(); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

// exportFormat picks the file format for --export-dir. Table output is
// exported as JSON.
func exportFormat(format string) string {
	if strings.ToLower(format) == FormatTable {
		return export.FormatJSON
	}
	return strings.ToLower(format)
}
