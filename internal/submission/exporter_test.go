package submission

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

var exportDay = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func TestExportCSV(t *testing.T) {
	entries := []Entry{
		{"name": `Ana "Green" Silva`, "email": "ana@example.org", "participants": float64(0), "localStorageBackup": true},
		{"name": "Ben", "phone": "555", "localStorageBackup": false},
	}
	data, name, mime, err := NewExporter().Export(EventRegistrations, FormatCSV, entries, exportDay)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := "email,localStorageBackup,name,participants\n" +
		`"ana@example.org","true","Ana ""Green"" Silva",""` + "\n" +
		`"","","Ben",""` + "\n"
	if string(data) != want {
		t.Errorf("csv =\n%s\nwant\n%s", data, want)
	}
	if name != "greenroots_event-registrations_2025-06-15.csv" || mime != "text/csv" {
		t.Errorf("name = %s, mime = %s", name, mime)
	}
}

func TestExportBinaryFormats(t *testing.T) {
	entries := []Entry{{"name": "Ana", "story": "Planted 12 trees 🌳"}}
	tests := []struct {
		format string
		magic  []byte
		name   string
	}{
		{FormatExcel, []byte("PK"), "greenroots_story-submissions_2025-06-15.xlsx"},
		{FormatPDF, []byte("%PDF"), "greenroots_story-submissions_2025-06-15.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, name, _, err := NewExporter().Export(StorySubmissions, tt.format, entries, exportDay)
			if err != nil {
				t.Fatalf("Export: %v", err)
			}
			if !bytes.HasPrefix(data, tt.magic) {
				t.Errorf("unexpected file header %q", data[:8])
			}
			if name != tt.name {
				t.Errorf("name = %s", name)
			}
		})
	}
}

func TestExportUnsupported(t *testing.T) {
	_, _, _, err := NewExporter().Export(StorySubmissions, "docx", []Entry{{"a": "b"}}, exportDay)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v", err)
	}
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"", ""},
		{false, ""},
		{float64(0), ""},
		{float64(3), "3"},
		{true, "true"},
		{map[string]any{"a": "b"}, `{"a":"b"}`},
	}
	for _, tt := range tests {
		if got := cellValue(tt.in); got != tt.want {
			t.Errorf("cellValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
