package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blackwell-systems/apriori/internal/apriori"
	"github.com/blackwell-systems/apriori/internal/dataset"
	"github.com/blackwell-systems/apriori/internal/itemset"
)

var _ apriori.Observer = (*LevelProgress)(nil)

func TestWriterIsTTY_Buffer(t *testing.T) {
	if writerIsTTY(&bytes.Buffer{}) {
		t.Error("bytes.Buffer should not be a TTY")
	}
}

func TestLevelProgress_NonTTYIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewLevelProgress(buf)

	p.LevelStarted(1, 3)
	p.CandidateCounted(itemset.New("A"), 2)
	p.CandidateCounted(itemset.New("B"), 1)
	p.CandidateCounted(itemset.New("C"), 0)
	p.LevelFinished(1, 2)

	if buf.Len() != 0 {
		t.Errorf("non-TTY progress should write nothing, got %q", buf.String())
	}

	levels := p.Levels()
	if len(levels) != 1 {
		t.Fatalf("got %d levels, want 1", len(levels))
	}
	if levels[0] != (LevelStat{Size: 1, Candidates: 3, Frequent: 2}) {
		t.Errorf("level stat = %+v", levels[0])
	}
}

func TestLevelProgress_RecordsMinerLevels(t *testing.T) {
	ds := dataset.FromRecords([][]string{
		{"A", "B"},
		{"A", "B", "C"},
		{"A"},
		{"B", "C"},
		{"B"},
	})
	p := NewLevelProgress(&bytes.Buffer{})

	apriori.Mine(ds, apriori.Options{MinSupport: 0.4, MinConfidence: 0.5, Observer: p})

	levels := p.Levels()
	if len(levels) < 2 {
		t.Fatalf("got %d levels, want at least 2", len(levels))
	}
	if levels[0].Size != 1 || levels[0].Frequent != 3 {
		t.Errorf("level 1 = %+v, want 3 frequent singletons", levels[0])
	}
	if levels[1].Size != 2 || levels[1].Candidates != 3 || levels[1].Frequent != 2 {
		t.Errorf("level 2 = %+v, want 3 candidates and 2 frequent", levels[1])
	}
}

func TestSpinner_NonTTY(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner(buf, "Loading baskets.csv")

	s.Start()
	s.Start() // no-op while running
	s.StopWithMessage("done")
	s.Stop() // no-op once stopped

	out := buf.String()
	if strings.Count(out, "Loading baskets.csv...") != 1 {
		t.Errorf("message should be printed once, got %q", out)
	}
	if !strings.HasSuffix(out, "done\n") {
		t.Errorf("final message missing, got %q", out)
	}
}
