// package formatter provides functions to export readings to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/wyndholt/arcana/internal/models"
)

func orientationString(reversed bool) string {
	if reversed {
		return "reversed"
	}
	return "upright"
}

// ExportToCSV converts a Reading's cards to CSV format with columns: Position, Card, Orientation, Meaning
func ExportToCSV(reading models.Reading) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Card", "Orientation", "Meaning"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, card := range reading.Cards {
		position := card.Position
		if position == "" {
			position = strconv.Itoa(i + 1)
		}
		record := []string{
			position,
			card.Name,
			orientationString(card.Reversed),
			card.Meaning,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Reading to Markdown format
func ExportToMarkdown(reading models.Reading) ([]byte, error) {
	var buf bytes.Buffer

	title := reading.Question
	if title == "" {
		title = "Tarot Reading"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Spread**: %s\n", reading.Spread))
	buf.WriteString(fmt.Sprintf("**Cards**: %d\n\n", len(reading.Cards)))

	if reading.Summary != "" {
		buf.WriteString(fmt.Sprintf("%s\n\n", reading.Summary))
	}

	buf.WriteString("## Cards\n\n")
	for i, card := range reading.Cards {
		name := card.Name
		if card.Reversed {
			name = fmt.Sprintf("%s (reversed)", name)
		}
		positionPart := ""
		if card.Position != "" {
			positionPart = fmt.Sprintf("%s: ", card.Position)
		}
		buf.WriteString(fmt.Sprintf("%d. **%s%s**\n", i+1, positionPart, name))
		if card.Meaning != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", card.Meaning))
		}
	}

	if reading.Overall != "" {
		buf.WriteString("\n## Reading\n\n")
		buf.WriteString(reading.Overall)
		buf.WriteString("\n")
	}

	if reading.Advice != "" {
		buf.WriteString("\n## Advice\n\n")
		buf.WriteString(reading.Advice)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Reading to plain text format
func ExportToText(reading models.Reading) ([]byte, error) {
	var buf bytes.Buffer

	if reading.Question != "" {
		buf.WriteString(fmt.Sprintf("Question: %s\n", reading.Question))
	}
	buf.WriteString(fmt.Sprintf("Spread: %s\n", reading.Spread))
	if reading.Summary != "" {
		buf.WriteString(fmt.Sprintf("Summary: %s\n", reading.Summary))
	}
	buf.WriteString("\n")

	for i, card := range reading.Cards {
		name := card.Name
		if card.Reversed {
			name = fmt.Sprintf("%s (reversed)", name)
		}
		if card.Position != "" {
			buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, card.Position, name))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		}
		if card.Meaning != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", card.Meaning))
		}
	}

	if reading.Overall != "" {
		buf.WriteString(fmt.Sprintf("\n%s\n", reading.Overall))
	}
	if reading.Advice != "" {
		buf.WriteString(fmt.Sprintf("\nAdvice: %s\n", reading.Advice))
	}

	return buf.Bytes(), nil
}

// ExportToJSON generates an indented JSON representation of the reading
func ExportToJSON(reading models.Reading) ([]byte, error) {
	data, err := json.MarshalIndent(reading, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reading: %w", err)
	}
	return data, nil
}

// Export renders the reading in the named format ("text", "markdown", "json" or "csv")
func Export(reading models.Reading, format string) ([]byte, error) {
	switch format {
	case "", "text":
		return ExportToText(reading)
	case "markdown", "md":
		return ExportToMarkdown(reading)
	case "json":
		return ExportToJSON(reading)
	case "csv":
		return ExportToCSV(reading)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// WriteExport renders the reading in the named format and writes it to filepath.
//
// Defaults to {reading_id}.{ext} when filepath is empty.
func WriteExport(reading models.Reading, format, filepath string) (string, error) {
	data, err := Export(reading, format)
	if err != nil {
		return "", err
	}

	if filepath == "" {
		ext := map[string]string{"markdown": "md", "md": "md", "json": "json", "csv": "csv"}[format]
		if ext == "" {
			ext = "txt"
		}
		base := reading.ReadingID
		if base == "" {
			base = "reading"
		}
		filepath = fmt.Sprintf("%s.%s", base, ext)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}
