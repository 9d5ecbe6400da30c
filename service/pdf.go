package service

import (
	"bytes"
	"time"

	"kgc/registry-api/model"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer produces the registration acknowledgement document handed
// back to the applicant on submission.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (PDFRenderer) Render(p *model.Profile, registrationID string, submittedAt time.Time) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.Cell(0, 10, "Community Registration Submission")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, "Registration ID: "+registrationID)
	doc.Ln(6)
	doc.Cell(0, 6, "Submitted On: "+submittedAt.Format("02-01-2006 15:04"))
	doc.Ln(10)

	fields := []struct {
		label string
		value string
	}{
		{"Full Name", p.FullName},
		{"Surname", p.Surname},
		{"Desired Name", p.DesiredName},
		{"Father / Husband Name", p.FatherOrHusband},
		{"Mother Name", p.MotherName},
		{"Gothram", p.Gothram},
		{"Education", p.Education},
		{"Occupation", p.Occupation},
		{"Village / City", p.CurrentVillageCity},
		{"Mandal", p.CurrentMandal},
		{"District", p.CurrentDistrict},
		{"State", p.CurrentState},
		{"PIN Code", p.CurrentPinCode},
		{"Status", "Pending Approval"},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		doc.Cell(0, 6, f.label+": "+f.value)
		doc.Ln(6)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
