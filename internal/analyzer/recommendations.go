package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// Recommend returns items to suggest for basket. A rule applies when every
// antecedent label is in the basket; each consequent label not already in the
// basket becomes a candidate. Items are ranked by their best confidence, then
// lift, then label. limit <= 0 returns every item.
func (a *Analyzer) Recommend(basket []string, limit int) []Recommendation {
	in := make(map[string]struct{}, len(basket))
	for _, l := range basket {
		in[strings.TrimSpace(l)] = struct{}{}
	}

	best := make(map[string]*Recommendation)
	for _, r := range a.rules {
		if !allIn(r.Antecedent, in) {
			continue
		}
		for _, item := range r.Consequent {
			if _, ok := in[item]; ok {
				continue
			}
			rec, ok := best[item]
			if !ok {
				rec = &Recommendation{Item: item}
				best[item] = rec
			}
			rec.Rules++
			if rec.Rules == 1 || better(r.Confidence, r.Lift, rec.Confidence, rec.Lift) {
				rec.Confidence = r.Confidence
				rec.Lift = r.Lift
				rec.Rule = r
			}
		}
	}

	out := make([]Recommendation, 0, len(best))
	for _, rec := range best {
		rec.Tier = Tier(rec.Confidence)
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].Lift != out[j].Lift {
			return out[i].Lift > out[j].Lift
		}
		return out[i].Item < out[j].Item
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// ValidateBasket returns a warning for every basket item that no rule
// mentions; such items can never contribute to a recommendation.
func (a *Analyzer) ValidateBasket(basket []string) []string {
	var warnings []string
	seen := make(map[string]bool)
	for _, l := range basket {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		if _, ok := a.known[l]; !ok {
			warnings = append(warnings, fmt.Sprintf("%s: not part of any rule", l))
		}
	}
	return warnings
}

func allIn(labels []string, set map[string]struct{}) bool {
	for _, l := range labels {
		if _, ok := set[l]; !ok {
			return false
		}
	}
	return true
}

func better(conf, lift, bestConf, bestLift float64) bool {
	if conf != bestConf {
		return conf > bestConf
	}
	return lift > bestLift
}
