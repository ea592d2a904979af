package mapping

import (
	"reflect"
	"testing"

	"github.com/ventia/salesadmin/modules/imports/domain/entities/template"
)

func contractsTemplate() template.Template {
	return template.New("contracts", template.EntityContracts, []template.Field{
		{Name: "number", Label: "Contract Number", Kind: template.KindString, Required: true, Unique: true, Aliases: []string{"nro_contrato"}},
		{Name: "amount", Label: "Amount", Kind: template.KindPositiveDecimal, Required: true, Aliases: []string{"importe"}},
		{Name: "signed_date", Label: "Signed Date", Kind: template.KindDate, Required: true, Aliases: []string{"fecha"}},
		{Name: "group", Kind: template.KindGroupRef, Aliases: []string{"grupo"}},
	})
}

func TestSuggest_MatchesNamesAndAliases(t *testing.T) {
	got := Suggest([]string{"Nro. Contrato", "IMPORTE", "Fecha", "Grupo", "Extra"}, contractsTemplate())

	want := map[string]string{
		"Nro. Contrato": "number",
		"IMPORTE":       "amount",
		"Fecha":         "signed_date",
		"Grupo":         "group",
	}
	if !reflect.DeepEqual(got.Mapping, want) {
		t.Fatalf("mapping = %v, want %v", got.Mapping, want)
	}
	if len(got.UnmappedRequired) != 0 {
		t.Fatalf("unmapped required = %v, want none", got.UnmappedRequired)
	}
}

func TestSuggest_AccentInsensitive(t *testing.T) {
	got := Suggest([]string{"NÚMERO DE CONTRATO"}, template.New("t", template.EntityContracts, []template.Field{
		{Name: "number", Kind: template.KindString, Required: true, Aliases: []string{"numero de contrato"}},
	}))
	if got.Mapping["NÚMERO DE CONTRATO"] != "number" {
		t.Fatalf("mapping = %v, want accent-folded match", got.Mapping)
	}
}

func TestSuggest_FirstClaimWins(t *testing.T) {
	tpl := contractsTemplate()
	columns := []string{"number", "Contract Number"}

	got := Suggest(columns, tpl)
	if got.Mapping["number"] != "number" {
		t.Fatalf("first column should claim the field, got %v", got.Mapping)
	}
	if _, ok := got.Mapping["Contract Number"]; ok {
		t.Fatalf("claimed field re-bound: %v", got.Mapping)
	}

	// identical input, identical output
	again := Suggest(columns, tpl)
	if !reflect.DeepEqual(got, again) {
		t.Fatalf("suggestion not deterministic: %v vs %v", got, again)
	}
}

func TestSuggest_ReportsUnmappedRequired(t *testing.T) {
	got := Suggest([]string{"Grupo"}, contractsTemplate())
	want := []string{"number", "amount", "signed_date"}
	if !reflect.DeepEqual(got.UnmappedRequired, want) {
		t.Fatalf("unmapped = %v, want %v", got.UnmappedRequired, want)
	}
}

func TestMissingRequired(t *testing.T) {
	tpl := contractsTemplate()
	m := map[string]string{"col_a": "number", "col_b": "amount"}
	got := MissingRequired(m, tpl)
	if !reflect.DeepEqual(got, []string{"signed_date"}) {
		t.Fatalf("missing = %v, want [signed_date]", got)
	}
	if got := MissingRequired(map[string]string{"a": "number", "b": "amount", "c": "signed_date"}, tpl); got != nil {
		t.Fatalf("missing = %v, want nil", got)
	}
}
