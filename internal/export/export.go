// Package export renders tabular admin data as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AssocCMS/AssocCMS/internal/db/models"
)

// ContentType is the media type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	defaultSheet = "Sheet1"
	timeLayout   = "2006-01-02 15:04"
	colWidth     = 22
)

// Sheet is one worksheet: a header row followed by data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Write renders sheet as an XLSX workbook to w.
func Write(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet.Name)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	if len(sheet.Headers) > 0 {
		if err = sw.SetColWidth(1, len(sheet.Headers), colWidth); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}

	if err = sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range sheet.Rows {
		cell, cErr := excelize.CoordinatesToCellName(1, i+2) //nolint:mnd
		if cErr != nil {
			return fmt.Errorf("row %d: %w", i, cErr)
		}

		if err = sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err = sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

// Filename returns "<prefix>-<yyyymmdd-hhmm>.xlsx".
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, now.UTC().Format("20060102-1504"))
}

// answerColumns returns the names of the active fields followed by any other
// answer keys present in apps, sorted.
func answerColumns(fields []models.FormField, answers []map[string]any) ([]string, []string) {
	seen := map[string]bool{}
	keys := make([]string, 0, len(fields))
	labels := make([]string, 0, len(fields))

	for _, f := range fields {
		if seen[f.Name] {
			continue
		}

		seen[f.Name] = true
		keys = append(keys, f.Name)
		labels = append(labels, f.Label)
	}

	var extra []string

	for _, a := range answers {
		for k := range a {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}

	sort.Strings(extra)

	return append(keys, extra...), append(labels, extra...)
}

func applicantRow(base models.Base, a models.Applicant, keys []string) []any {
	row := []any{
		base.ID,
		base.CreatedAt.UTC().Format(timeLayout),
		a.FullName,
		a.Email,
		a.Phone,
		string(a.Status),
		a.Note,
	}

	for _, k := range keys {
		v, ok := a.Answers[k]
		if !ok || v == nil {
			row = append(row, "")
			continue
		}

		row = append(row, fmt.Sprint(v))
	}

	return row
}

var applicantHeaders = []string{"ID", "Submitted", "Full name", "Email", "Phone", "Status", "Note"} //nolint:gochecknoglobals

// MemberApplications builds the membership applications sheet.
func MemberApplications(apps []models.MemberApplication, fields []models.FormField) Sheet {
	answers := make([]map[string]any, len(apps))
	for i := range apps {
		answers[i] = apps[i].Answers
	}

	keys, labels := answerColumns(fields, answers)

	sheet := Sheet{
		Name:    "Member applications",
		Headers: append(append([]string{}, applicantHeaders...), labels...),
	}

	for _, a := range apps {
		sheet.Rows = append(sheet.Rows, applicantRow(a.Base, a.Applicant, keys))
	}

	return sheet
}

// EventApplications builds the event applications sheet. titles maps event
// ids to event titles.
func EventApplications(apps []models.EventApplication, fields []models.FormField, titles map[uint64]string) Sheet {
	answers := make([]map[string]any, len(apps))
	for i := range apps {
		answers[i] = apps[i].Answers
	}

	keys, labels := answerColumns(fields, answers)

	sheet := Sheet{
		Name:    "Event applications",
		Headers: append(append([]string{"Event"}, applicantHeaders...), labels...),
	}

	for _, a := range apps {
		row := append([]any{titles[a.EventID]}, applicantRow(a.Base, a.Applicant, keys)...)
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}

// Subscribers builds the newsletter subscribers sheet.
func Subscribers(subs []models.NewsletterSubscriber) Sheet {
	sheet := Sheet{
		Name:    "Subscribers",
		Headers: []string{"Email", "Subscribed", "Active"},
	}

	for _, s := range subs {
		sheet.Rows = append(sheet.Rows, []any{s.Email, s.CreatedAt.UTC().Format(timeLayout), s.Active})
	}

	return sheet
}
