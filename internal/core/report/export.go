package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/samber/lo"
)

const separator = "======================================"

// Render formats a report as the plain-text export document. Section order
// is fixed: header, aircraft data, installed parts, production stages, test
// history, footer.
func Render(r models.Report) string {
	a := r.Aircraft
	var b strings.Builder

	b.WriteString("--- AIRCRAFT COMPLIANCE REPORT ---\n")
	fmt.Fprintf(&b, "Generated at: %s\n", r.GeneratedAt)
	fmt.Fprintf(&b, "Author: %s\n", r.Author)
	fmt.Fprintf(&b, "\n%s\n\n", separator)

	b.WriteString("AIRCRAFT DATA:\n")
	fmt.Fprintf(&b, "  Code: %d\n", a.Code)
	fmt.Fprintf(&b, "  Model: %s\n", a.Model)
	fmt.Fprintf(&b, "  Category: %s\n", a.Category)
	fmt.Fprintf(&b, "  Capacity: %d\n", a.Capacity)
	fmt.Fprintf(&b, "  Range: %s\n\n", strconv.FormatFloat(a.Range, 'f', -1, 64))

	fmt.Fprintf(&b, "INSTALLED PARTS (%d):\n", len(a.Parts))
	for _, p := range a.Parts {
		fmt.Fprintf(&b, "  - ID: %d, Name: %s, Supplier: %s, Status: %s\n", p.ID, p.Name, p.Supplier, p.Status)
	}
	fmt.Fprintf(&b, "\n%s\n\n", separator)

	fmt.Fprintf(&b, "PRODUCTION STAGES (%d COMPLETED):\n", len(a.Stages))
	for _, s := range a.Stages {
		fmt.Fprintf(&b, "  - ID: %d, Name: %s, Expected date: %s, Status: %s\n",
			s.ID, s.Name, s.ExpectedDate.UTC().Format("2006-01-02"), s.Status)
		fmt.Fprintf(&b, "    Employees: %s\n", employeeLine(s.Employees))
	}
	fmt.Fprintf(&b, "\n%s\n\n", separator)

	fmt.Fprintf(&b, "TEST HISTORY (%d records):\n", len(a.Tests))
	for _, t := range a.Tests {
		fmt.Fprintf(&b, "  - Type: %s, Result: %s, Date: %s\n",
			t.Type, t.Result, t.Timestamp.UTC().Format("2006-01-02 15:04:05"))
	}
	b.WriteString("\n--- END OF REPORT ---\n")

	return b.String()
}

func employeeLine(as []models.Assignee) string {
	if len(as) == 0 {
		return "None"
	}
	return strings.Join(lo.Map(as, func(e models.Assignee, _ int) string {
		return fmt.Sprintf("%s (%s)", e.Name, e.Role)
	}), "; ")
}

// Filename is the download name of the text export.
func Filename(a models.Aircraft) string {
	return fmt.Sprintf("Report_Aircraft_%d_%s.txt", a.Code, strings.ReplaceAll(a.Model, " ", "_"))
}
