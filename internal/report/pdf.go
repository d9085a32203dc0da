// Package report renders completed analyses into paginated PDF documents.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"competitive-analysis/internal/domain"
)

// Generator writes competitive analysis reports into an output directory.
type Generator struct {
	outputDir string
	now       func() time.Time
}

// NewGenerator builds a generator targeting the given directory.
func NewGenerator(outputDir string) *Generator {
	return &Generator{
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Render produces the PDF artifact and returns its path. The analysis text
// is laid out as-is; content is not validated here.
func (g *Generator) Render(businessIdea, location string, competitors []domain.Competitor, analysis string) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	generatedAt := g.now()
	path := filepath.Join(g.outputDir, FileName(businessIdea, location, generatedAt))

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	writeTitlePage(pdf, tr, businessIdea, location, generatedAt)
	writeExecutiveSummary(pdf, tr, businessIdea, location, len(competitors))
	writeCompetitorProfiles(pdf, tr, competitors)
	writeCompetitorTable(pdf, tr, competitors)
	writeAnalysis(pdf, tr, analysis)
	writeClosing(pdf, tr, businessIdea)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

// FileName builds the artifact filename from the request and a timestamp.
func FileName(businessIdea, location string, generatedAt time.Time) string {
	return fmt.Sprintf("competitive_analysis_%s_%s_%s.pdf",
		slug(businessIdea, 20),
		slug(location, 15),
		generatedAt.Format("20060102_150405"))
}

// slug makes a string filesystem-safe and bounds its length.
func slug(s string, max int) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
		if b.Len() >= max {
			break
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}

func writeTitlePage(pdf *fpdf.Fpdf, tr func(string) string, businessIdea, location string, generatedAt time.Time) {
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.MultiCell(0, 12, tr("Competitive Analysis Report"), "", "C", false)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 14)
	pdf.MultiCell(0, 8, tr(fmt.Sprintf("Business Idea: %s", businessIdea)), "", "C", false)
	pdf.MultiCell(0, 8, tr(fmt.Sprintf("Target Location: %s", location)), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(127, 140, 141)
	pdf.MultiCell(0, 6, tr("Generated on "+generatedAt.Format("January 2, 2006 at 15:04")), "", "C", false)
	pdf.Ln(10)
}

func writeExecutiveSummary(pdf *fpdf.Fpdf, tr func(string) string, businessIdea, location string, competitorCount int) {
	writeSectionHeader(pdf, tr, "Executive Summary")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	summary := fmt.Sprintf(
		"This report examines the competitive landscape for a %s business in %s. "+
			"%d local competitors were identified and profiled. The analysis below covers "+
			"market positioning, pricing strategies, gaps in the current market, and "+
			"actionable recommendations for market entry.",
		businessIdea, location, competitorCount)
	pdf.MultiCell(0, 5, tr(summary), "", "L", false)
	pdf.Ln(6)
}

func writeCompetitorProfiles(pdf *fpdf.Fpdf, tr func(string) string, competitors []domain.Competitor) {
	if len(competitors) == 0 {
		return
	}

	writeSectionHeader(pdf, tr, "Major Competitors")
	for _, c := range competitors {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(41, 128, 185)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", c.Rank, c.BusinessName)), "", "L", false)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, line := range []string{c.Description, c.Services, c.Address, c.ContactInfo, c.PricingInfo} {
			if strings.TrimSpace(line) == "" {
				continue
			}
			pdf.MultiCell(0, 4.5, tr(line), "", "L", false)
		}
		pdf.Ln(3)
	}
	pdf.Ln(3)
}

func writeCompetitorTable(pdf *fpdf.Fpdf, tr func(string) string, competitors []domain.Competitor) {
	if len(competitors) == 0 {
		return
	}

	writeSectionHeader(pdf, tr, "Competitor Overview")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(70, 7, tr("Competitor"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(100, 7, tr("Website"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, c := range competitors {
		pdf.SetFillColor(236, 240, 241)
		pdf.CellFormat(70, 6, tr(truncate(c.BusinessName, 45)), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(100, 6, tr(truncate(c.URL, 70)), "1", 1, "L", fill, 0, "")
		fill = !fill
	}
	pdf.Ln(6)
}

func writeAnalysis(pdf *fpdf.Fpdf, tr func(string) string, analysis string) {
	writeSectionHeader(pdf, tr, "Market Analysis")

	for _, line := range strings.Split(analysis, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			pdf.Ln(2)
			continue
		}

		if heading, ok := headingText(line); ok {
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(52, 73, 94)
			pdf.MultiCell(0, 6, tr(heading), "", "L", false)
			continue
		}

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 4.5, tr(line), "", "L", false)
	}
	pdf.Ln(6)
}

func writeClosing(pdf *fpdf.Fpdf, tr func(string) string, businessIdea string) {
	writeSectionHeader(pdf, tr, "Next Steps")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 4.5, tr(fmt.Sprintf(
		"Validate the findings above with on-the-ground research before committing to a "+
			"location or pricing model for the %s. Competitor details were collected "+
			"automatically and should be confirmed against current public listings.",
		businessIdea)), "", "L", false)
}

func writeSectionHeader(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(41, 128, 185)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.Ln(1)
}

// headingText reports markdown-style or shouted section headings.
func headingText(line string) (string, bool) {
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimLeft(line, "# ")), true
	}
	letters := 0
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return "", false
		}
		if r >= 'A' && r <= 'Z' {
			letters++
		}
	}
	return line, letters >= 4 && len(line) < 80
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
