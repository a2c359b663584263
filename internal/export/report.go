// Package export writes mining results to files in machine-readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/apriori/internal/apriori"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Formats lists every format accepted by Write.
var Formats = []string{FormatJSON, FormatYAML, FormatCSV}

// Report is the exported form of one run.
type Report struct {
	RunID         string               `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Source        string               `json:"source" yaml:"source"`
	CreatedAt     time.Time            `json:"created_at" yaml:"created_at"`
	MinSupport    float64              `json:"min_support" yaml:"min_support"`
	MinConfidence float64              `json:"min_confidence" yaml:"min_confidence"`
	Transactions  int                  `json:"transactions" yaml:"transactions"`
	Itemsets      []apriori.ItemRecord `json:"itemsets" yaml:"itemsets"`
	Rules         []apriori.RuleRecord `json:"rules" yaml:"rules"`
}

// NewReport builds a report stamped with the current time. Nil slices are
// replaced with empty ones so that JSON output always carries arrays.
func NewReport(source string, minSupport, minConfidence float64, transactions int, items []apriori.ItemRecord, rules []apriori.RuleRecord) *Report {
	if items == nil {
		items = []apriori.ItemRecord{}
	}
	if rules == nil {
		rules = []apriori.RuleRecord{}
	}
	return &Report{
		Source:        source,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		MinSupport:    minSupport,
		MinConfidence: minConfidence,
		Transactions:  transactions,
		Itemsets:      items,
		Rules:         rules,
	}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	if format == FormatYAML {
		return "yaml"
	}
	return format
}

// Write encodes report to w in the given format.
func Write(w io.Writer, format string, report *Report) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "failed to encode JSON report")
		}
		return nil
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "failed to encode YAML report")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "failed to flush YAML report")
		}
		return nil
	case FormatCSV:
		return writeCSV(w, report)
	default:
		return errors.WithHint(
			errors.Newf("unknown export format %q", format),
			"use one of: "+strings.Join(Formats, ", "),
		)
	}
}

// writeCSV writes two sections, itemsets then rules, separated by an empty
// line. Labels within a cell are joined with ';'.
func writeCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)

	records := [][]string{{"items", "support", "size"}}
	for _, it := range report.Itemsets {
		records = append(records, []string{
			strings.Join(it.Items, ";"),
			formatFloat(it.Support),
			strconv.Itoa(it.Size),
		})
	}
	if err := cw.WriteAll(records); err != nil {
		return errors.Wrap(err, "failed to write itemsets")
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.Wrap(err, "failed to write section separator")
	}

	records = [][]string{{"antecedent", "consequent", "confidence", "support", "lift"}}
	for _, r := range report.Rules {
		records = append(records, []string{
			strings.Join(r.Antecedent, ";"),
			strings.Join(r.Consequent, ";"),
			formatFloat(r.Confidence),
			formatFloat(r.Support),
			formatFloat(r.Lift),
		})
	}
	if err := cw.WriteAll(records); err != nil {
		return errors.Wrap(err, "failed to write rules")
	}
	return nil
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
