package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"voltwear/db"
	"voltwear/models"
	"voltwear/pricing"
	"voltwear/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

var invoiceSecret = []byte(os.Getenv("INVOICE_SECRET"))

// invoiceQRPayload signs orderId|total|timestamp so a scanned invoice
// can be verified against tampering.
func invoiceQRPayload(orderID string, total int64) string {
	data := fmt.Sprintf("%s|%d|%d", orderID, total, time.Now().Unix())
	h := hmac.New(sha256.New, invoiceSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// Invoice handles GET /api/orders/:id/invoice and streams a PDF.
func (a *API) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	order, code, msg := fetchOrder(ctx, r, ps.ByName("id"))
	if order == nil {
		utils.RespondWithError(w, code, msg)
		return
	}

	cursor, err := db.OrderItemsCollection.Find(ctx, bson.M{"orderId": order.OrderID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve order items")
		return
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading order items")
		return
	}

	qrPNG, err := qrcode.Encode(invoiceQRPayload(order.OrderID, order.Total), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(40, 10, "VOLTWEAR")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, "Tax Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Bill to: %s %s", order.FirstName, order.LastName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("%s, %s, %s %s", order.Address, order.City, order.State, order.Pincode))
	pdf.Ln(12)

	// Line items. Amounts print in rupees; INR symbol support in core
	// PDF fonts is spotty, so "Rs." it is.
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(80, 7, "Item")
	pdf.Cell(20, 7, "Size")
	pdf.Cell(20, 7, "Qty")
	pdf.Cell(35, 7, "Unit Price")
	pdf.Cell(35, 7, "Amount")
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		pdf.Cell(80, 7, item.ProductName)
		pdf.Cell(20, 7, item.Size)
		pdf.Cell(20, 7, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(35, 7, rupees(item.UnitPrice))
		pdf.Cell(35, 7, rupees(item.UnitPrice*int64(item.Quantity)))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.Cell(120, 7, "")
	pdf.Cell(35, 7, "Subtotal")
	pdf.Cell(35, 7, rupees(order.Subtotal))
	pdf.Ln(7)
	pdf.Cell(120, 7, "")
	pdf.Cell(35, 7, "Shipping")
	pdf.Cell(35, 7, rupees(order.ShippingCost))
	pdf.Ln(7)
	if order.Discount > 0 {
		label := "Discount"
		if order.CouponCode != "" {
			label = "Discount (" + order.CouponCode + ")"
		}
		pdf.Cell(120, 7, "")
		pdf.Cell(35, 7, label)
		pdf.Cell(35, 7, "-"+rupees(order.Discount))
		pdf.Ln(7)
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(120, 7, "")
	pdf.Cell(35, 7, "Total")
	pdf.Cell(35, 7, rupees(order.Total))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 15, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func rupees(paise int64) string {
	s := pricing.FormatMajor(paise)
	if len(s) > 0 && s[0] == '-' {
		return "-Rs. " + s[4:] // strip "-₹"
	}
	return "Rs. " + s[3:] // strip "₹" (three bytes in UTF-8)
}
