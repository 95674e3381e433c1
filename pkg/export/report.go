package export

import (
	"bytes"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/formpath/formpath/pkg/catalog"
	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/schema"
)

// Report layout, US Letter in points.
const (
	reportMargin    = 54.0
	reportLineH     = 14.0
	reportTitlePt   = 18.0
	reportSectionPt = 13.0
	reportBodyPt    = 10.0
)

const reportDisclaimer = "This summary is generated from your saved answers. " +
	"It is not the official form and cannot be filed with USCIS. " +
	"Transfer your answers to the official form before submitting."

// reportFooterNote repeats the disclaimer on every page, so continuation
// pages separated from the banner still carry it.
const reportFooterNote = "Generated summary - not an official USCIS form"

// renderReport produces the synthetic summary document: every currently
// visible question with its answer, grouped by section. It is the fallback
// when the overlay strategy cannot produce the filled official form, and it
// must succeed for any valid form and answer set.
func renderReport(form *catalog.Form, answers schema.AnswerSet) ([]byte, error) {
	f := gofpdf.New("P", "pt", "Letter", "")
	f.SetCreationDate(creationDate)
	f.SetModificationDate(creationDate)
	f.SetMargins(reportMargin, reportMargin, reportMargin)
	f.SetAutoPageBreak(true, reportMargin+reportLineH*2)
	f.AliasNbPages("")

	f.SetHeaderFunc(func() {
		if f.PageNo() == 1 {
			return
		}
		f.SetFont("Helvetica", "I", 9)
		f.SetTextColor(120, 120, 120)
		f.CellFormat(0, reportLineH, form.ID+" - "+form.Title+" (continued)", "", 1, "L", false, 0, "")
		f.Ln(reportLineH / 2)
	})
	f.SetFooterFunc(func() {
		f.SetY(-reportMargin)
		f.SetFont("Helvetica", "", 8)
		f.SetTextColor(120, 120, 120)
		f.CellFormat(0, reportLineH-4, reportFooterNote, "", 1, "C", false, 0, "")
		f.CellFormat(0, reportLineH-4, sprintfPage(f.PageNo()), "", 0, "C", false, 0, "")
	})

	f.AddPage()
	pageW, _ := f.GetPageSize()
	contentW := pageW - 2*reportMargin

	// Header band.
	f.SetFillColor(28, 60, 107)
	f.Rect(0, 0, pageW, 90, "F")
	f.SetY(26)
	f.SetX(reportMargin)
	f.SetFont("Helvetica", "B", reportTitlePt)
	f.SetTextColor(255, 255, 255)
	f.CellFormat(contentW, 22, form.ID+" - "+form.Title, "", 1, "L", false, 0, "")
	f.SetX(reportMargin)
	f.SetFont("Helvetica", "", 10)
	f.CellFormat(contentW, reportLineH, "Answer Summary", "", 1, "L", false, 0, "")
	f.SetY(104)

	// Banner distinguishing this from the official form.
	f.SetFillColor(255, 243, 205)
	f.SetTextColor(102, 77, 3)
	f.SetFont("Helvetica", "", 9)
	f.MultiCell(contentW, reportLineH-2, reportDisclaimer, "", "L", true)
	f.Ln(reportLineH)

	section := ""
	for _, entry := range reportEntries(form, answers) {
		if entry.Section != section {
			if section != "" {
				f.Ln(reportLineH / 2)
			}
			section = entry.Section
			f.SetFont("Helvetica", "B", reportSectionPt)
			f.SetTextColor(28, 60, 107)
			f.CellFormat(contentW, reportLineH+4, section, "", 1, "L", false, 0, "")
			f.SetDrawColor(28, 60, 107)
			f.Line(reportMargin, f.GetY(), reportMargin+contentW, f.GetY())
			f.Ln(6)
		}

		f.SetFont("Helvetica", "B", reportBodyPt)
		f.SetTextColor(40, 40, 40)
		f.MultiCell(contentW, reportLineH-2, entry.Label, "", "L", false)

		if entry.Provided {
			f.SetFont("Helvetica", "", reportBodyPt)
			f.SetTextColor(0, 0, 0)
		} else {
			f.SetFont("Helvetica", "I", reportBodyPt)
			f.SetTextColor(150, 150, 150)
		}
		f.SetX(reportMargin + 14)
		f.MultiCell(contentW-14, reportLineH-2, entry.Value, "", "L", false)
		f.Ln(5)
	}

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "composing summary document")
	}
	return buf.Bytes(), nil
}

// reportEntry is one label/answer row of the summary, tagged with its section
// title for grouping.
type reportEntry struct {
	Section  string
	Label    string
	Value    string
	Provided bool
}

// reportEntries flattens the document into the rows the summary prints: every
// currently-visible question exactly once, in document order.
func reportEntries(form *catalog.Form, answers schema.AnswerSet) []reportEntry {
	var entries []reportEntry
	for _, sec := range form.Document.Sections {
		for _, q := range schema.VisibleQuestions(sec, answers) {
			value, provided := displayAnswer(q, answers)
			entries = append(entries, reportEntry{
				Section:  sec.Title,
				Label:    q.Label,
				Value:    value,
				Provided: provided,
			})
		}
	}
	return entries
}

// sprintfPage builds the page counter; {nb} is replaced with the final page
// count on output.
func sprintfPage(n int) string {
	return "Page " + strconv.Itoa(n) + " of {nb}"
}

// displayAnswer formats a question's answer for the report. The second return
// reports whether a value was actually provided.
func displayAnswer(q schema.Question, answers schema.AnswerSet) (string, bool) {
	if answers.IsBlank(q.ID) {
		if q.Required {
			return "(required, not provided)", false
		}
		return "(not provided)", false
	}
	value := answers.Get(q.ID)
	if q.Type == schema.TypeYesNo {
		switch value {
		case "yes":
			return "Yes", true
		case "no":
			return "No", true
		}
	}
	return value, true
}
