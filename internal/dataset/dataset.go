// Package dataset loads delimited transaction files into memory.
//
// Each row of the input is one transaction and each field is one item label.
// Rows may have any number of fields. Only the first MaxRows rows are read.
package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/blackwell-systems/apriori/internal/itemset"
)

// DefaultMaxRows is the number of rows read from an input file when no
// explicit cap is configured.
const DefaultMaxRows = 3000

// Options controls how records are read.
type Options struct {
	// MaxRows caps the number of rows read; 0 means unlimited.
	MaxRows int
	// Delimiter separates fields. Defaults to ','.
	Delimiter rune
	// Comment marks lines to ignore when it starts them. 0 disables comments.
	Comment rune
	// SkipEmpty drops empty fields instead of treating "" as an item label.
	SkipEmpty bool
	// Aliases maps raw labels to the item they are counted as.
	Aliases map[string]string
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxRows:   DefaultMaxRows,
		Delimiter: ',',
	}
}

// Store holds every transaction of a dataset and the pool of single-item
// candidates. It is immutable once built.
type Store struct {
	transactions []itemset.Itemset
	singletons   itemset.Set
}

// ItemCount is the number of transactions an item occurs in.
type ItemCount struct {
	Item  string
	Count int
}

// Open reads the dataset at path. Files ending in ".gz" are decompressed.
func Open(path string, opts Options) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decompress dataset %s", path)
		}
		defer gz.Close()
		r = gz
	}

	s, err := Load(r, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset %s", path)
	}
	return s, nil
}

// Load reads records from r one line at a time until MaxRows rows have been
// consumed or the input ends. A blank line is an empty transaction and uses
// up a row of the cap unless SkipEmpty is set. Comment lines are not rows.
func Load(r io.Reader, opts Options) (*Store, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	br := bufio.NewReader(r)
	b := newBuilder(opts.SkipEmpty, opts.Aliases)
	for line := 1; opts.MaxRows <= 0 || len(b.transactions) < opts.MaxRows; line++ {
		text, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "failed to read line %d", line)
		}
		if text == "" && err == io.EOF {
			break
		}

		record, perr := parseLine(strings.TrimRight(text, "\r\n"), delim, opts.Comment)
		if perr != nil {
			return nil, errors.Wrapf(perr, "failed to parse line %d", line)
		}
		switch {
		case record != nil:
			b.add(record)
		case !opts.SkipEmpty && isBlank(text):
			b.add(nil)
		}

		if err == io.EOF {
			break
		}
	}
	return b.store(), nil
}

// parseLine splits one line into fields. Blank and comment lines yield nil.
func parseLine(line string, delim, comment rune) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = delim
	reader.Comment = comment
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	record, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	return record, err
}

func isBlank(text string) bool {
	return strings.TrimRight(text, "\r\n") == ""
}

// FromRecords builds a store from in-memory records without a row cap.
func FromRecords(records [][]string) *Store {
	b := newBuilder(false, nil)
	for _, record := range records {
		b.add(record)
	}
	return b.store()
}

type builder struct {
	skipEmpty    bool
	aliases      map[string]string
	transactions []itemset.Itemset
	singletons   itemset.Set
}

func newBuilder(skipEmpty bool, aliases map[string]string) *builder {
	return &builder{
		skipEmpty:  skipEmpty,
		aliases:    aliases,
		singletons: make(itemset.Set),
	}
}

func (b *builder) add(record []string) {
	fields := make([]string, 0, len(record))
	for _, f := range record {
		if b.skipEmpty && f == "" {
			continue
		}
		if to, ok := b.aliases[f]; ok {
			f = to
		}
		fields = append(fields, f)
	}
	tx := itemset.New(fields...)
	b.transactions = append(b.transactions, tx)
	for _, item := range tx.Items() {
		b.singletons.Add(itemset.New(item))
	}
}

func (b *builder) store() *Store {
	return &Store{
		transactions: b.transactions,
		singletons:   b.singletons,
	}
}

// Transactions returns the transactions in input order. Callers must not
// modify the returned slice.
func (s *Store) Transactions() []itemset.Itemset {
	return s.transactions
}

// Len returns the number of transactions.
func (s *Store) Len() int {
	return len(s.transactions)
}

// Singletons returns a fresh set with one single-item itemset per distinct item.
func (s *Store) Singletons() itemset.Set {
	out := make(itemset.Set, len(s.singletons))
	for k, v := range s.singletons {
		out[k] = v
	}
	return out
}

// ItemCounts returns how many transactions each item occurs in, most frequent
// first and ties broken by label.
func (s *Store) ItemCounts() []ItemCount {
	counts := make(map[string]int, len(s.singletons))
	for _, tx := range s.transactions {
		for _, item := range tx.Items() {
			counts[item]++
		}
	}

	out := make([]ItemCount, 0, len(counts))
	for item, n := range counts {
		out = append(out, ItemCount{Item: item, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Item < out[j].Item
	})
	return out
}

// AverageLength returns the mean number of items per transaction.
func (s *Store) AverageLength() float64 {
	if len(s.transactions) == 0 {
		return 0
	}
	total := 0
	for _, tx := range s.transactions {
		total += tx.Len()
	}
	return float64(total) / float64(len(s.transactions))
}
