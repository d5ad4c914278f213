package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"applytrack/internal/models"
)

// csvTimeLayout is the timestamp format used in CSV exports.
const csvTimeLayout = "2006-01-02"

// WritePostingsCSV streams the postings as CSV, newest first as given.
func WritePostingsCSV(w io.Writer, postings []*models.Posting) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "title", "company", "status", "due_date", "description", "created_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range postings {
		due := ""
		if p.DueDate != nil {
			due = p.DueDate.Format(csvTimeLayout)
		}
		row := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Title,
			p.Company,
			string(p.Status),
			due,
			p.Description,
			p.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
