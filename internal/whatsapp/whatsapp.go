// Package whatsapp builds wa.me deep links with pre-filled Arabic messages.
// Every customer hand-off of the store goes through one of these links.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

const baseURL = "https://wa.me/"

// Link returns the deep link to number with text pre-filled. The number is
// reduced to its digits; an empty number yields a number-less share link.
func Link(number, text string) string {
	digits := models.PhoneDigits(number)
	link := baseURL + digits
	if text == "" {
		return link
	}
	return link + "?text=" + url.QueryEscape(text)
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixedBank(0)
}

// OrderMessage is the confirmation the customer sends to the store after
// checkout.
func OrderMessage(storeName string, o models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "مرحباً %s، أود تأكيد طلبي رقم %s\n\n", storeName, o.ID)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "• %s × %d = %s د.ع", item.Name, item.Quantity, money(item.Price*float64(item.Quantity)))
		if item.Source == models.SourceDubai {
			b.WriteString(" (استيراد من دبي)")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nالمجموع الفرعي: %s د.ع\n", money(o.Subtotal))
	fmt.Fprintf(&b, "التوصيل: %s د.ع\n", money(o.ShippingFee))
	fmt.Fprintf(&b, "الإجمالي: %s د.ع\n\n", money(o.Total))
	fmt.Fprintf(&b, "الاسم: %s\nالهاتف: %s\nالعنوان: %s", o.Customer.Name, o.Customer.Phone, o.Customer.Address)
	if o.Customer.Notes != "" {
		fmt.Fprintf(&b, "\nملاحظات: %s", o.Customer.Notes)
	}
	return b.String()
}

// QuoteMessage is what the admin sends the customer once a Dubai request is
// priced.
func QuoteMessage(storeName string, r models.DubaiRequest, eta string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "مرحباً %s، معك %s بخصوص طلبك رقم %s (%s).\n", r.CustomerName, storeName, r.ID, r.ProductName)
	if r.Quote != nil {
		fmt.Fprintf(&b, "السعر: %s د.ع\nالشحن: %s د.ع\nالإجمالي: %s د.ع\n",
			money(r.Quote.Price), money(r.Quote.ShippingCost), money(r.Quote.Total()))
	}
	if eta != "" {
		fmt.Fprintf(&b, "مدة الشحن المتوقعة: %s\n", eta)
	}
	b.WriteString("هل ترغب بتأكيد الطلب؟")
	return b.String()
}

// RequestMessage lets the customer follow up on a submitted Dubai request.
func RequestMessage(storeName string, r models.DubaiRequest) string {
	msg := fmt.Sprintf("مرحباً %s، أرسلت طلب استيراد من دبي رقم %s: %s", storeName, r.ID, r.ProductName)
	if r.Link != "" {
		msg += "\n" + r.Link
	}
	return msg
}

// SupportMessage opens a general question, optionally about one product.
func SupportMessage(storeName string, p *models.Product) string {
	if p == nil {
		return fmt.Sprintf("مرحباً %s، لدي استفسار", storeName)
	}
	return fmt.Sprintf("مرحباً %s، لدي استفسار عن %s (رقم %d)", storeName, p.Name, p.ID)
}
