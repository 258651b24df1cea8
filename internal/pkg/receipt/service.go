// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service renders order receipts as PDF
type Service struct {
	config *config.Config
}

// NewService creates a new receipt service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Generate renders a PDF receipt for an order
func (s *Service) Generate(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.generateHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(o *order.Order) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	data := receiptData{
		StoreName:         s.config.App.StoreName,
		OrderNumber:       o.OrderNumber,
		OrderDate:         o.Date.Format("January 2, 2006"),
		EstimatedDelivery: o.EstimatedDelivery,
		CustomerName:      fmt.Sprintf("%s %s", o.Shipping.FirstName, o.Shipping.LastName),
		Shipping:          o.Shipping,
		PaymentMethod:     paymentLabel(o.Payment),
		Subtotal:          o.Subtotal.StringFixed(2),
		Discount:          o.Discount.StringFixed(2),
		HasDiscount:       o.Discount.IsPositive(),
		ShippingCost:      o.ShippingCost.StringFixed(2),
		Tax:               o.Tax.StringFixed(2),
		Total:             o.Total.StringFixed(2),
	}

	for _, item := range o.Items {
		data.Items = append(data.Items, receiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price.StringFixed(2),
			LineTotal: item.LineTotal().StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func paymentLabel(p order.PaymentRecord) string {
	if p.Method == "paypal" {
		return "PayPal"
	}
	if p.MaskedCardNumber != "" {
		return fmt.Sprintf("Card ending %s", lastFour(p.MaskedCardNumber))
	}
	return "Card"
}

func lastFour(masked string) string {
	if len(masked) <= 4 {
		return masked
	}
	return masked[len(masked)-4:]
}

type receiptData struct {
	StoreName         string
	OrderNumber       string
	OrderDate         string
	EstimatedDelivery string
	CustomerName      string
	Shipping          order.ShippingInfo
	PaymentMethod     string
	Items             []receiptItem
	Subtotal          string
	Discount          string
	HasDiscount       bool
	ShippingCost      string
	Tax               string
	Total             string
}

type receiptItem struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.OrderNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .store-name {
            font-size: 28px;
            font-weight: bold;
            color: #be185d;
        }
        .order-meta {
            margin-bottom: 30px;
        }
        .order-meta td {
            padding: 5px 0;
            vertical-align: top;
        }
        .order-meta .label {
            font-weight: bold;
            width: 160px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .shipping-block {
            margin-bottom: 30px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 80px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 100px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="store-name">{{.StoreName}}</div>
        <p>Order Receipt</p>
    </div>

    <div class="order-meta">
        <table>
            <tr>
                <td class="label">Order #:</td>
                <td>{{.OrderNumber}}</td>
            </tr>
            <tr>
                <td class="label">Order Date:</td>
                <td>{{.OrderDate}}</td>
            </tr>
            {{if .EstimatedDelivery}}
            <tr>
                <td class="label">Estimated Delivery:</td>
                <td>{{.EstimatedDelivery}}</td>
            </tr>
            {{end}}
            <tr>
                <td class="label">Payment:</td>
                <td>{{.PaymentMethod}}</td>
            </tr>
        </table>
    </div>

    <div class="shipping-block">
        <div class="section-title">Ship To:</div>
        <p><strong>{{.CustomerName}}</strong></p>
        <p>{{.Shipping.Address}}</p>
        <p>{{.Shipping.City}}, {{.Shipping.State}} {{.Shipping.ZipCode}}</p>
        <p>{{.Shipping.Country}}</p>
        {{if .Shipping.Phone}}<p>Phone: {{.Shipping.Phone}}</p>{{end}}
        <p>Email: {{.Shipping.Email}}</p>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td>{{.Name}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">${{.UnitPrice}}</td>
                <td class="total-col">${{.LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">${{.Subtotal}}</td>
            </tr>
            {{if .HasDiscount}}
            <tr>
                <td class="label">Discount:</td>
                <td class="amount">-${{.Discount}}</td>
            </tr>
            {{end}}
            <tr>
                <td class="label">Shipping:</td>
                <td class="amount">${{.ShippingCost}}</td>
            </tr>
            <tr>
                <td class="label">Tax:</td>
                <td class="amount">${{.Tax}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">${{.Total}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with {{.StoreName}}!</p>
    </div>
</body>
</html>
`
