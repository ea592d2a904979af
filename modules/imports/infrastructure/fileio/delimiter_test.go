package fileio

import (
	"errors"
	"testing"
)

func TestDetectDelimiter_Comma(t *testing.T) {
	data := []byte("number,amount,date\nC-1,100.00,01/02/2025\nC-2,250.50,03/04/2025\n")
	got, err := DetectDelimiter(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ',' {
		t.Fatalf("delimiter = %q, want ','", got)
	}
}

func TestDetectDelimiter_Semicolon(t *testing.T) {
	data := []byte("number;amount;date\nC-1;100,00;01/02/2025\nC-2;250,50;03/04/2025\n")
	got, err := DetectDelimiter(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ';' {
		t.Fatalf("delimiter = %q, want ';'", got)
	}
}

func TestDetectDelimiter_TieBreakByTemplate(t *testing.T) {
	// both separators yield a consistent multi-column split
	data := []byte("a,b;c,d\ne,f;g,h\n")
	got, err := DetectDelimiter(data, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ';' {
		t.Fatalf("delimiter = %q, want ';' (2 columns matches template)", got)
	}
}

func TestDetectDelimiter_TieBreakDefaultsToComma(t *testing.T) {
	data := []byte("a,b;c\nd,e;f\n")
	got, err := DetectDelimiter(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ',' {
		t.Fatalf("delimiter = %q, want ','", got)
	}
}

func TestDetectDelimiter_Undetermined(t *testing.T) {
	data := []byte("just one column\nno separators here\n")
	_, err := DetectDelimiter(data, 0)
	if !errors.Is(err, ErrUndeterminedDelimiter) {
		t.Fatalf("error = %v, want ErrUndeterminedDelimiter", err)
	}
}
