package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wyndholt/arcana/internal/models"
	tu "github.com/wyndholt/arcana/internal/testing"
)

func sampleReading() models.Reading {
	return models.Reading{
		ReadingID: "reading123",
		Question:  "What lies ahead?",
		Spread:    "three_card",
		Summary:   "A turning point approaches.",
		Cards: []models.CardInterpretation{
			{CardID: 0, Name: "The Fool", Position: "past", Reversed: false, Meaning: "A leap taken."},
			{CardID: 16, Name: "The Tower", Position: "present", Reversed: true, Meaning: "Upheaval resisted."},
			{CardID: 17, Name: "The Star", Position: "future", Reversed: false, Meaning: "Hope restored."},
		},
		Overall:   "The past leap brought you here.",
		Advice:    "Stop holding the walls up.",
		TotalTime: 9.1,
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleReading())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Position,Card,Orientation,Meaning") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "The Tower") {
			t.Errorf("CSV missing card name")
		}
		if !strings.Contains(output, "reversed") {
			t.Errorf("CSV missing reversed orientation")
		}
		if !strings.Contains(output, "present") {
			t.Errorf("CSV missing position")
		}
	})

	t.Run("ExportToCSV numbers positionless cards", func(t *testing.T) {
		reading := sampleReading()
		for i := range reading.Cards {
			reading.Cards[i].Position = ""
		}

		data, err := ExportToCSV(reading)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), "\n1,The Fool") {
			t.Errorf("expected numeric position fallback, got: %s", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleReading())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# What lies ahead?") {
			t.Errorf("Markdown missing question heading, got: %s", output)
		}
		if !strings.Contains(output, "**Spread**: three_card") {
			t.Errorf("Markdown missing spread")
		}
		if !strings.Contains(output, "The Tower (reversed)") {
			t.Errorf("Markdown missing reversed marker")
		}
		if !strings.Contains(output, "## Advice") {
			t.Errorf("Markdown missing advice section")
		}
	})

	t.Run("ExportToMarkdown without question", func(t *testing.T) {
		reading := sampleReading()
		reading.Question = ""

		data, err := ExportToMarkdown(reading)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "# Tarot Reading") {
			t.Errorf("expected fallback heading, got: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleReading())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Question: What lies ahead?") {
			t.Errorf("text missing question")
		}
		if !strings.Contains(output, "2. [present] The Tower (reversed)") {
			t.Errorf("text missing card line, got: %s", output)
		}
		if !strings.Contains(output, "Advice: Stop holding the walls up.") {
			t.Errorf("text missing advice")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleReading())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.Reading
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("JSON output did not parse: %v", err)
		}
		if decoded.ReadingID != "reading123" {
			t.Errorf("expected reading id to survive, got %q", decoded.ReadingID)
		}
		if len(decoded.Cards) != 3 {
			t.Errorf("expected 3 cards, got %d", len(decoded.Cards))
		}
	})
}

func TestExport(t *testing.T) {
	reading := sampleReading()

	cases := []struct {
		format string
		want   string
	}{
		{"", "Question:"},
		{"text", "Question:"},
		{"markdown", "# What lies ahead?"},
		{"md", "# What lies ahead?"},
		{"json", "\"reading_id\""},
		{"csv", "Position,Card"},
	}

	for _, tc := range cases {
		t.Run("format "+tc.format, func(t *testing.T) {
			data, err := Export(reading, tc.format)
			if err != nil {
				t.Fatalf("Export(%q) failed: %v", tc.format, err)
			}
			if !strings.Contains(string(data), tc.want) {
				t.Errorf("Export(%q) missing %q, got: %s", tc.format, tc.want, data)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		if _, err := Export(reading, "yaml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("writes to named file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.md")

		written, err := WriteExport(sampleReading(), "markdown", path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "## Cards") {
			t.Errorf("export file missing content")
		}
	})

	t.Run("default filename from reading id", func(t *testing.T) {
		cwd := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		t.Cleanup(func() { tu.MustChdir(t, cwd) })

		written, err := WriteExport(sampleReading(), "json", "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "reading123.json" {
			t.Errorf("expected default filename reading123.json, got %s", written)
		}
	})
}
