package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// InvoiceService renders order invoices as PDF
type InvoiceService struct {
	storeName string
}

func NewInvoiceService(storeName string) *InvoiceService {
	if storeName == "" {
		storeName = "Ayurveda Store"
	}
	return &InvoiceService{storeName: storeName}
}

// Generate renders the order invoice and returns the PDF bytes
func (s *InvoiceService) Generate(ctx context.Context, order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, s.storeName+" - Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Order #%d", order.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Date: %s", timeutil.FormatIST(order.CreatedAt, timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Customer box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", order.CustomerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", order.CustomerPhone), "RB", 1, "L", false, 0, "")
	address := order.Address
	if order.City != "" {
		address += ", " + order.City
	}
	if order.State != "" {
		address += ", " + order.State
	}
	if order.Pin != "" {
		address += " - " + order.Pin
	}
	pdf.CellFormat(190, 7, fmt.Sprintf("Address: %s", address), "LRB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Payment: %s", order.PaymentMethod), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", order.Status), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Items table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(90, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var total float64
	for _, item := range order.Items {
		amount := float64(item.Qty) * item.Price
		total += amount
		pdf.CellFormat(90, 7, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("Rs %.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("Rs %.2f", amount), "1", 1, "R", false, 0, "")
	}

	if order.OverrideAmount != nil {
		total = *order.OverrideAmount
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("Rs %.2f", total), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
