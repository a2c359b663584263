package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/apriori/internal/apriori"
)

func rule(ante, cons []string, conf, lift float64) apriori.RuleRecord {
	return apriori.RuleRecord{Antecedent: ante, Consequent: cons, Confidence: conf, Support: 0.2, Lift: lift}
}

func sampleRules() []apriori.RuleRecord {
	return []apriori.RuleRecord{
		rule([]string{"bread"}, []string{"milk"}, 0.6, 1.1),
		rule([]string{"bread"}, []string{"butter"}, 0.75, 1.5),
		rule([]string{"bread", "butter"}, []string{"milk"}, 0.9, 1.3),
		rule([]string{"milk"}, []string{"cereal"}, 0.5, 2.0),
		rule([]string{"jam"}, []string{"bread", "butter"}, 0.8, 1.2),
	}
}

func TestRecommend(t *testing.T) {
	a := New(sampleRules())
	assert.Equal(t, 5, a.Rules())

	recs := a.Recommend([]string{"bread", "butter"}, 0)
	require.Len(t, recs, 1)
	assert.Equal(t, "milk", recs[0].Item)
	assert.Equal(t, 0.9, recs[0].Confidence, "best rule wins")
	assert.Equal(t, 2, recs[0].Rules)
	assert.Equal(t, "strong", recs[0].Tier)
	assert.Equal(t, []string{"bread", "butter"}, recs[0].Rule.Antecedent)
}

func TestRecommend_Ranking(t *testing.T) {
	a := New(sampleRules())

	recs := a.Recommend([]string{"bread"}, 0)
	require.Len(t, recs, 2)
	assert.Equal(t, "butter", recs[0].Item)
	assert.Equal(t, "moderate", recs[0].Tier)
	assert.Equal(t, "milk", recs[1].Item)

	limited := a.Recommend([]string{"bread"}, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "butter", limited[0].Item)
}

func TestRecommend_PartialConsequent(t *testing.T) {
	a := New(sampleRules())

	recs := a.Recommend([]string{"jam", "bread"}, 0)
	items := make([]string, len(recs))
	for i, r := range recs {
		items[i] = r.Item
	}
	// jam -> {bread, butter} suggests only the missing butter.
	assert.Contains(t, items, "butter")
	assert.NotContains(t, items, "bread")
	assert.NotContains(t, items, "jam")
}

func TestRecommend_NoMatch(t *testing.T) {
	a := New(sampleRules())
	assert.Empty(t, a.Recommend([]string{"tea"}, 0))
	assert.Empty(t, New(nil).Recommend([]string{"bread"}, 0))
}

func TestValidateBasket(t *testing.T) {
	a := New(sampleRules())
	warnings := a.ValidateBasket([]string{"bread", "tea", " tea ", ""})
	assert.Equal(t, []string{"tea: not part of any rule"}, warnings)
}

func TestTier(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{1.0, "strong"},
		{0.8, "strong"},
		{0.79, "moderate"},
		{0.6, "moderate"},
		{0.59, "weak"},
		{0, "weak"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.confidence), "confidence %v", tt.confidence)
	}
}
