package services

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/account"
	"github.com/ventia/salesadmin/pkg/fold"
)

// PersonResolver matches free-text person names from import rows against
// existing accounts. One match binds silently, zero matches default to
// creating a new account, and several matches stay pending until a human
// picks one.
type PersonResolver struct {
	accounts account.Repository
}

func NewPersonResolver(accounts account.Repository) *PersonResolver {
	return &PersonResolver{accounts: accounts}
}

// Resolve builds the resolution set for the distinct person names found in
// validated records. Names are keyed folded, so "José Pérez" and "jose perez"
// share one resolution. Existing decisions survive re-resolution: a mapping
// edit must not discard choices the user already made.
func (r *PersonResolver) Resolve(
	ctx context.Context,
	records []Record,
	existing map[string]session.Resolution,
) (map[string]session.Resolution, error) {
	out := make(map[string]session.Resolution)
	for _, rec := range records {
		if rec.PersonKey == "" {
			continue
		}
		if _, done := out[rec.PersonKey]; done {
			continue
		}
		if prev, ok := existing[rec.PersonKey]; ok {
			out[rec.PersonKey] = prev
			continue
		}

		matches, err := r.accounts.FindByFoldedName(ctx, rec.PersonKey)
		if err != nil {
			return nil, err
		}

		res := session.Resolution{SourceName: rec.PersonSource}
		switch len(matches) {
		case 0:
			res.Action = session.ActionCreateNew
		case 1:
			res.Action = session.ActionMapExisting
			res.AccountID = matches[0].ID()
		default:
			res.Action = session.ActionPending
			res.Candidates = rankCandidates(rec.PersonSource, matches)
		}
		out[rec.PersonKey] = res
	}
	return out, nil
}

// rankCandidates orders same-key accounts by fuzzy closeness of the original
// spelling, so the most likely match appears first in the wizard.
func rankCandidates(source string, matches []account.Account) []session.Candidate {
	type ranked struct {
		c    session.Candidate
		dist int
	}
	rs := make([]ranked, 0, len(matches))
	for _, m := range matches {
		rs = append(rs, ranked{
			c:    session.Candidate{AccountID: m.ID(), FullName: m.FullName()},
			dist: fuzzy.RankMatchNormalizedFold(fold.Name(source), m.FoldedName()),
		})
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].dist != rs[j].dist {
			// RankMatch returns -1 for no match; push those last.
			if rs[i].dist < 0 {
				return false
			}
			if rs[j].dist < 0 {
				return true
			}
			return rs[i].dist < rs[j].dist
		}
		return rs[i].c.FullName < rs[j].c.FullName
	})
	out := make([]session.Candidate, len(rs))
	for i, r := range rs {
		out[i] = r.c
	}
	return out
}

// SplitName divides a free-text full name into first and last parts. The last
// token becomes the last name; everything before it, the first name. A single
// token is all first name.
func SplitName(full string) (first, last string) {
	tokens := strings.Fields(full)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1]
	}
}
