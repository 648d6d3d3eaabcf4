package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Valid(t *testing.T) {
	tests := []struct {
		name string
		rec  *Record
		want bool
	}{
		{"nil", nil, false},
		{"no title", &Record{PDFURL: "https://x/a.pdf"}, false},
		{"no url", &Record{Title: "A"}, false},
		{"ok", &Record{Title: "A", PDFURL: "https://x/a.pdf"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Valid())
		})
	}
}

func TestLedgerEntry_RowFollowsHeader(t *testing.T) {
	rec := &Record{Title: "T", Authors: "A, B", Category: "oral", PDFURL: "https://x/t.pdf"}
	e := NewLedgerEntry("NeurIPS", 2017, "t__deadbeef.pdf", rec)

	row := e.Row()
	assert.Len(t, row, len(LedgerHeader))
	assert.Equal(t, []string{"NeurIPS", "2017", "t__deadbeef.pdf", "T", "A, B", "oral", "https://x/t.pdf"}, row)
}
