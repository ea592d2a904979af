package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ventia/salesadmin/modules/imports/domain/aggregates/session"
	"github.com/ventia/salesadmin/modules/imports/domain/entities/template"
)

func contractRecord(row int, number string, amount string) Record {
	return Record{
		Row: row,
		Values: map[string]any{
			template.FieldNumber:     number,
			template.FieldAmount:     decimal.RequireFromString(amount),
			template.FieldSignedDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}
}

func assignmentRecord(row int, code, name string, owner bool) Record {
	return Record{
		Row: row,
		Values: map[string]any{
			template.FieldMatricula: code,
			template.FieldOwner:     owner,
		},
		PersonKey:    name,
		PersonSource: name,
	}
}

func TestCommit_ContractsPartialFailure(t *testing.T) {
	contracts := newFakeContractRepo()
	accounts := newFakeAccountRepo()
	matriculas := newFakeMatriculaRepo()
	c := NewCommitter(contracts, accounts, matriculas)

	_, err := contracts.Create(context.Background(), newTestContract("C-TAKEN"))
	require.NoError(t, err)

	records := []Record{
		contractRecord(1, "C-1", "100"),
		contractRecord(2, "C-TAKEN", "200"),
		contractRecord(3, "C-3", "300"),
	}

	out, err := c.Commit(context.Background(), template.EntityContracts, uuid.New(), records, nil, false)
	require.NoError(t, err)
	require.Equal(t, 2, out.Processed)
	require.Len(t, out.Errors, 1)
	require.Equal(t, 2, out.Errors[0].Row)
	require.Equal(t, "duplicate_contract", out.Errors[0].Code)
	require.Len(t, out.CreatedContracts, 2)
}

func TestCommit_StrictAbortsOnFirstFailure(t *testing.T) {
	contracts := newFakeContractRepo()
	c := NewCommitter(contracts, newFakeAccountRepo(), newFakeMatriculaRepo())

	_, err := contracts.Create(context.Background(), newTestContract("C-TAKEN"))
	require.NoError(t, err)

	records := []Record{
		contractRecord(1, "C-TAKEN", "100"),
		contractRecord(2, "C-2", "200"),
	}

	out, err := c.Commit(context.Background(), template.EntityContracts, uuid.New(), records, nil, true)
	require.ErrorIs(t, err, ErrStrictAborted)
	require.Zero(t, out.Processed)
	require.Len(t, out.Errors, 1)
}

func TestCommit_CreateNewAccountOncePerName(t *testing.T) {
	contracts := newFakeContractRepo()
	accounts := newFakeAccountRepo()
	matriculas := newFakeMatriculaRepo()
	c := NewCommitter(contracts, accounts, matriculas)

	resolutions := map[string]session.Resolution{
		"ana lopez": {SourceName: "Ana Lopez", Action: session.ActionCreateNew},
	}
	records := []Record{
		assignmentRecord(1, "M-1", "ana lopez", false),
		assignmentRecord(2, "M-2", "ana lopez", false),
	}

	out, err := c.Commit(context.Background(), template.EntityPersonnel, uuid.New(), records, resolutions, false)
	require.NoError(t, err)
	require.Equal(t, 2, out.Processed)
	require.Len(t, out.CreatedAccounts, 1)
	require.Len(t, out.CreatedMatriculas, 2)

	all, err := accounts.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "Ana", all[0].FirstName())
	require.Equal(t, "Lopez", all[0].LastName())
}

func TestCommit_LastExplicitOwnerWins(t *testing.T) {
	contracts := newFakeContractRepo()
	accounts := newFakeAccountRepo()
	matriculas := newFakeMatriculaRepo()
	c := NewCommitter(contracts, accounts, matriculas)

	resolutions := map[string]session.Resolution{
		"ana lopez":  {SourceName: "Ana Lopez", Action: session.ActionCreateNew},
		"juan gomez": {SourceName: "Juan Gomez", Action: session.ActionCreateNew},
		"eva ruiz":   {SourceName: "Eva Ruiz", Action: session.ActionCreateNew},
	}
	records := []Record{
		assignmentRecord(1, "M-SHARED", "ana lopez", true),
		assignmentRecord(2, "M-SHARED", "juan gomez", false),
		assignmentRecord(3, "M-SHARED", "eva ruiz", true),
	}

	out, err := c.Commit(context.Background(), template.EntityPersonnel, uuid.New(), records, resolutions, false)
	require.NoError(t, err)
	require.Equal(t, 3, out.Processed)

	owners := matriculas.owners("M-SHARED")
	require.Len(t, owners, 1)
	require.Equal(t, out.CreatedMatriculas[2], owners[0].ID())
}

func TestCommit_UnresolvedPersonFailsRow(t *testing.T) {
	c := NewCommitter(newFakeContractRepo(), newFakeAccountRepo(), newFakeMatriculaRepo())

	records := []Record{assignmentRecord(1, "M-1", "nobody known", false)}
	out, err := c.Commit(context.Background(), template.EntityPersonnel, uuid.New(), records, map[string]session.Resolution{}, false)
	require.NoError(t, err)
	require.Zero(t, out.Processed)
	require.Len(t, out.Errors, 1)
	require.Equal(t, "persist_failed", out.Errors[0].Code)
}
