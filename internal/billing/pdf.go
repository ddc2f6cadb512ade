package billing

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// PDFRenderer converts an HTML document to PDF. Nil means rendering is not
// configured for this deployment.
type PDFRenderer interface {
	HTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

//go:embed invoice.html
var invoiceTemplateSource string

var invoiceTemplate = template.Must(template.New("invoice").Parse(invoiceTemplateSource))

type invoiceDocument struct {
	CompanyName string
	LogoURL     string
	Number      string
	Status      string
	IssuedAt    string
	DueAt       string
	JobID       int64
	Hours       string
	Rate        string
	Subtotal    string
	TaxRate     string
	Tax         string
	Total       string
}

// RenderInvoiceHTML builds the branded invoice document for one invoice.
func RenderInvoiceHTML(inv *Invoice, settings *company.Settings) (string, error) {
	doc := invoiceDocument{
		CompanyName: settings.Name,
		Number:      inv.Number,
		Status:      string(inv.Status),
		IssuedAt:    inv.IssuedAt.Format("January 2, 2006"),
		DueAt:       inv.DueAt.Format("January 2, 2006"),
		JobID:       inv.JobID,
		Hours:       fmt.Sprintf("%.2f", inv.HoursBilled),
		Rate:        fmt.Sprintf("%.2f", inv.HourlyRate),
		Subtotal:    fmt.Sprintf("%.2f", inv.Subtotal),
		TaxRate:     fmt.Sprintf("%g", inv.TaxRatePercent),
		Tax:         fmt.Sprintf("%.2f", inv.TaxAmount),
		Total:       fmt.Sprintf("%.2f", inv.Total),
	}
	if settings.LogoURL != nil {
		doc.LogoURL = *settings.LogoURL
	}
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render invoice template: %w", err)
	}
	return buf.String(), nil
}

// InvoicePDF renders one invoice as a branded PDF.
func (s *Service) InvoicePDF(ctx context.Context, companyID, id int64) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("%w: pdf rendering is not configured", httpx.ErrUnavailable)
	}
	inv, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Settings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	html, err := RenderInvoiceHTML(inv, settings)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.HTMLToPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return pdf, nil
}
