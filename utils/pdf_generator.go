package utils

import (
	"bytes"
	"context"
	"fmt"
	"gokuldairy/models"
	"gokuldairy/repository"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// GenerateInvoicePDF renders a bill's monthly invoice to PDF via headless
// Chrome. Returns (nil, nil) when the bill does not exist.
func GenerateInvoicePDF(repo *repository.PDFRepository, billID int64) ([]byte, error) {
	// Fetch dairy letterhead
	dairy, err := repo.GetProfileForPDF()
	if err != nil {
		return nil, err
	}

	// Fetch bill with customer attached
	bill, err := repo.GetBillForPDF(billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, nil
	}

	// The month's delivery records, oldest first
	deliveries, err := repo.GetDeliveriesForPDF(bill)
	if err != nil {
		return nil, err
	}

	// Prepare contact numbers
	contacts := ""
	if dairy != nil {
		for _, m := range dairy.Mobile {
			contacts += m.Number + "(" + m.Label + "), "
		}
		if len(contacts) > 2 {
			contacts = contacts[:len(contacts)-2]
		}
	}

	// Per-day table rows
	days := make([]models.InvoiceDayRow, 0, len(deliveries))
	for _, d := range deliveries {
		row := models.InvoiceDayRow{
			Date:   d.Date.Format("02-Jan"),
			Status: string(d.Status),
		}
		if d.Status == models.DeliveryPresent {
			row.Liters = d.Quantity.StringFixed(2)
		} else {
			row.Liters = "-"
		}
		if extras := d.AdditionalTotal(); extras.IsPositive() {
			row.ExtrasTotal = extras.StringFixed(2)
		} else {
			row.ExtrasTotal = "-"
		}
		days = append(days, row)
	}

	// Running balance shown on the invoice footer
	balance, err := repo.BillRepo.CustomerBalance(bill.CustomerID)
	if err != nil {
		return nil, err
	}

	periodLabel := fmt.Sprintf("%s %d", time.Month(bill.PeriodMonth), bill.PeriodYear)

	data := models.InvoicePDFData{
		Dairy:        dairy,
		Bill:         bill,
		Customer:     bill.Customer,
		PeriodLabel:  periodLabel,
		Contacts:     contacts,
		DueDate:      bill.DueDate.Format("02-Jan-2006"),
		Days:         days,
		Total:        bill.TotalAmount,
		TotalWords:   NumberToCurrencyWords(bill.TotalAmount),
		PaidAmount:   bill.PaidAmount(),
		BalanceAfter: balance,
		DayCount:     len(days),
	}

	tmpl, err := template.ParseFiles("templates/invoice_template.html")
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return nil, err
	}

	finalHTML := `
		<!DOCTYPE html>
		<html>
		<head>
		<meta charset="UTF-8">
		<style>
		@page {
			size: A4;
			margin: 20px;
		}
		body {
			font-family: Arial, Helvetica, sans-serif;
			font-size: 12px;
			margin: 0;
			padding: 0;
		}
		.invoice {
			page-break-inside: avoid;
			border: none;
		}
		</style>
		</head>
		<body><div class='invoice'>` + body.String() + `</div></body></html>`

	// Create temp HTML file
	tmpDir := os.TempDir()
	tmpHTML := filepath.Join(tmpDir, "invoice_"+time.Now().Format("20060102150405")+".html")
	if err := os.WriteFile(tmpHTML, []byte(finalHTML), 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	// Generate PDF with headless Chrome
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuf []byte
	fileURL := "file://" + tmpHTML

	err = chromedp.Run(ctx,
		chromedp.Navigate(fileURL),
		chromedp.Sleep(1*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
