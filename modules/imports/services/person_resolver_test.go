package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/modules/sales/domain/entities/account"
)

func TestResolve_SingleMatchBindsSilently(t *testing.T) {
	accounts := newFakeAccountRepo()
	existing, err := accounts.Create(context.Background(), account.New("Jose", "Perez"))
	require.NoError(t, err)

	r := NewPersonResolver(accounts)
	got, err := r.Resolve(context.Background(), []Record{
		{PersonKey: "jose perez", PersonSource: "José Pérez"},
	}, nil)
	require.NoError(t, err)

	res := got["jose perez"]
	require.Equal(t, session.ActionMapExisting, res.Action)
	require.Equal(t, existing.ID(), res.AccountID)
	require.Empty(t, res.Candidates)
}

func TestResolve_ZeroMatchesDefaultsToCreate(t *testing.T) {
	r := NewPersonResolver(newFakeAccountRepo())
	got, err := r.Resolve(context.Background(), []Record{
		{PersonKey: "ana lopez", PersonSource: "Ana López"},
	}, nil)
	require.NoError(t, err)

	res := got["ana lopez"]
	require.Equal(t, session.ActionCreateNew, res.Action)
	require.Equal(t, "Ana López", res.SourceName)
}

func TestResolve_MultipleMatchesNeverGuess(t *testing.T) {
	accounts := newFakeAccountRepo()
	_, err := accounts.Create(context.Background(), account.New("Jose", "Perez"))
	require.NoError(t, err)
	_, err = accounts.Create(context.Background(), account.New("José", "Pérez"))
	require.NoError(t, err)

	r := NewPersonResolver(accounts)
	got, err := r.Resolve(context.Background(), []Record{
		{PersonKey: "jose perez", PersonSource: "Jose Perez"},
	}, nil)
	require.NoError(t, err)

	res := got["jose perez"]
	require.Equal(t, session.ActionPending, res.Action)
	require.Len(t, res.Candidates, 2)
	require.Zero(t, res.AccountID)
}

func TestResolve_KeepsExistingDecisions(t *testing.T) {
	accounts := newFakeAccountRepo()
	a1, err := accounts.Create(context.Background(), account.New("Jose", "Perez"))
	require.NoError(t, err)
	_, err = accounts.Create(context.Background(), account.New("José", "Pérez"))
	require.NoError(t, err)

	decided := map[string]session.Resolution{
		"jose perez": {SourceName: "Jose Perez", Action: session.ActionMapExisting, AccountID: a1.ID()},
	}

	r := NewPersonResolver(accounts)
	got, err := r.Resolve(context.Background(), []Record{
		{PersonKey: "jose perez", PersonSource: "Jose Perez"},
	}, decided)
	require.NoError(t, err)

	// the ambiguity would normally yield pending, but the earlier decision wins
	res := got["jose perez"]
	require.Equal(t, session.ActionMapExisting, res.Action)
	require.Equal(t, a1.ID(), res.AccountID)
}

func TestResolve_OneDecisionPerDistinctName(t *testing.T) {
	r := NewPersonResolver(newFakeAccountRepo())
	got, err := r.Resolve(context.Background(), []Record{
		{PersonKey: "ana lopez", PersonSource: "Ana Lopez"},
		{PersonKey: "ana lopez", PersonSource: "ANA LOPEZ"},
		{PersonKey: "juan gomez", PersonSource: "Juan Gomez"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Jose Perez", "Jose", "Perez"},
		{"Maria del Carmen Ruiz", "Maria del Carmen", "Ruiz"},
		{"Cher", "Cher", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		first, last := SplitName(c.in)
		if first != c.first || last != c.last {
			t.Errorf("SplitName(%q) = %q, %q; want %q, %q", c.in, first, last, c.first, c.last)
		}
	}
}
