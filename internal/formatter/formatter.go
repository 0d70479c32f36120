// package formatter provides functions to export upload history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/history"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
)

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func scheduledString(entry history.Entry) string {
	if entry.ScheduledTime == nil {
		return ""
	}
	return formatTimestamp(*entry.ScheduledTime)
}

// ExportToCSV converts history entries to CSV format with columns:
// Timestamp, Run, Filename, Platform, VideoID, Scheduled, Size, Duration, Speed, Status, Error
func ExportToCSV(entries []history.Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Timestamp", "Run", "Filename", "Platform", "VideoID", "Scheduled", "Size", "Duration", "Speed", "Status", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			formatTimestamp(entry.Timestamp),
			entry.RunID,
			entry.Filename,
			entry.Platform,
			entry.VideoID,
			scheduledString(entry),
			entry.FileSizeHuman,
			entry.UploadHuman,
			entry.SpeedHuman,
			entry.Status,
			entry.ErrorMessage,
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

// ExportToMarkdown converts history entries to a Markdown table with summary counts
func ExportToMarkdown(entries []history.Entry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Upload History\n\n")

	uploads, failures := 0, 0
	for _, entry := range entries {
		if entry.Type == "execution_summary" {
			continue
		}
		if entry.Status == "success" {
			uploads++
		} else {
			failures++
		}
	}
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n", len(entries)))
	buf.WriteString(fmt.Sprintf("**Uploaded**: %d\n", uploads))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n\n", failures))

	buf.WriteString("| Timestamp | Filename | Platform | Scheduled | Size | Duration | Status |\n")
	buf.WriteString("|---|---|---|---|---|---|---|\n")
	for _, entry := range entries {
		if entry.Type == "execution_summary" {
			continue
		}
		status := entry.Status
		if entry.ErrorMessage != "" {
			status = fmt.Sprintf("%s (%s)", status, entry.ErrorMessage)
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			formatTimestamp(entry.Timestamp), entry.Filename, entry.Platform,
			scheduledString(entry), entry.FileSizeHuman, entry.UploadHuman, status))
	}

	return buf.Bytes(), nil
}

// ExportToText converts history entries to plain text format
func ExportToText(entries []history.Entry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Upload history (%d entries)\n\n", len(entries)))

	for i, entry := range entries {
		if entry.Type == "execution_summary" {
			buf.WriteString(fmt.Sprintf("%d. [%s] run %s finished: %d uploaded, %d failed, %d skipped in %s\n",
				i+1, formatTimestamp(entry.Timestamp), entry.RunID,
				entry.Uploaded, entry.Failed, entry.Skipped, shared.FormatDuration(time.Duration(entry.Duration*float64(time.Second)))))
			continue
		}

		line := fmt.Sprintf("%d. [%s] %s -> %s: %s", i+1, formatTimestamp(entry.Timestamp), entry.Filename, entry.Platform, entry.Status)
		if entry.VideoID != "" {
			line += fmt.Sprintf(" (ID: %s)", entry.VideoID)
		}
		if entry.ErrorMessage != "" {
			line += fmt.Sprintf(" - %s", entry.ErrorMessage)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// WriteExport renders entries in the requested format and writes them to path.
//
// Supported formats are "csv", "markdown", and "text". Returns the written path.
func WriteExport(entries []history.Entry, format, path string) (string, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(entries)
	case "markdown", "md":
		data, err = ExportToMarkdown(entries)
	case "text", "txt":
		data, err = ExportToText(entries)
	default:
		return "", fmt.Errorf("%w: unsupported format '%s'", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return "", err
	}

	if path == "" {
		ext := format
		if format == "markdown" {
			ext = "md"
		}
		path = fmt.Sprintf("upload_history.%s", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
