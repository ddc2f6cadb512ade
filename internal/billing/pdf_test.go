package billing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/platform/httpx"
	"github.com/maidflow/maidflow/internal/schedule"
)

type fakeRenderer struct {
	lastHTML string
}

func (f *fakeRenderer) HTMLToPDF(_ context.Context, html string) ([]byte, error) {
	f.lastHTML = html
	return []byte("%PDF-1.7 fake"), nil
}

func sampleInvoice() *Invoice {
	return &Invoice{
		ID: 1, CompanyID: 1, JobID: 5, ClientID: 10,
		Number:      "INV-20260823-a1b2c3",
		HoursBilled: 2.5, HourlyRate: 50,
		Subtotal: 125, TaxRatePercent: 13, TaxAmount: 16.25, Total: 141.25,
		Status:   StatusDraft,
		IssuedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		DueAt:    time.Date(2026, 9, 22, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderInvoiceHTMLCarriesBranding(t *testing.T) {
	logo := "http://localhost:8080/media/1/logos/logo.png"
	html, err := RenderInvoiceHTML(sampleInvoice(), &company.Settings{
		Name: "Sparkle Cleaning Co", LogoURL: &logo,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Sparkle Cleaning Co")
	assert.Contains(t, html, "INV-20260823-a1b2c3")
	assert.Contains(t, html, logo)
	assert.Contains(t, html, "$141.25")
	assert.Contains(t, html, "Tax (13%)")
	assert.Contains(t, html, "August 23, 2026")
	assert.Contains(t, html, "September 22, 2026")
}

func TestRenderInvoiceHTMLWithoutLogo(t *testing.T) {
	html, err := RenderInvoiceHTML(sampleInvoice(), &company.Settings{Name: "Sparkle Cleaning Co"})
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<img"), "no logo block when the tenant has no logo")
}

func TestInvoicePDFRendersThroughClient(t *testing.T) {
	f := newBillingFixture()
	renderer := &fakeRenderer{}
	f.svc.renderer = renderer
	f.jobs.jobs[5] = completedJob(5, schedule.PaymentETransfer, "2:30")
	ctx := context.Background()

	inv, _, err := f.svc.GenerateForJob(ctx, 1, 5)
	require.NoError(t, err)

	pdf, err := f.svc.InvoicePDF(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", string(pdf))
	assert.Contains(t, renderer.lastHTML, inv.Number)
}

func TestInvoicePDFUnavailableWithoutRenderer(t *testing.T) {
	f := newBillingFixture()
	f.jobs.jobs[5] = completedJob(5, schedule.PaymentETransfer, "2h")
	ctx := context.Background()

	inv, _, err := f.svc.GenerateForJob(ctx, 1, 5)
	require.NoError(t, err)

	_, err = f.svc.InvoicePDF(ctx, 1, inv.ID)
	assert.ErrorIs(t, err, httpx.ErrUnavailable)
}
