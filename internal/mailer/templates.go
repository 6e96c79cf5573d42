package mailer

import "fmt"

// OrderConfirmationEmail is sent to the customer right after checkout.
func OrderConfirmationEmail(orderNumber string, total float64) (subject, body string) {
	subject = fmt.Sprintf("Order %s confirmed", orderNumber)
	body = fmt.Sprintf(
		"Thank you for your order.\n\nOrder number: %s\nTotal: PKR %.2f\n\nWe will notify you when your order ships.",
		orderNumber, total,
	)
	return subject, body
}

// AdminNewOrderEmail alerts staff that a new order needs handling.
func AdminNewOrderEmail(orderNumber string, total float64) (subject, body string) {
	subject = fmt.Sprintf("New order %s", orderNumber)
	body = fmt.Sprintf("A new order was placed.\n\nOrder number: %s\nTotal: PKR %.2f", orderNumber, total)
	return subject, body
}

var orderStatusLines = map[string]string{
	"SHIPPED":   "Your order is on its way.",
	"DELIVERED": "Your order has been delivered.",
	"CANCELLED": "Your order has been cancelled. Any payment will be refunded.",
}

// OrderStatusEmail returns the notification for a status change. Statuses
// without a customer-facing template return ok=false and no mail is sent.
func OrderStatusEmail(orderNumber, status string) (subject, body string, ok bool) {
	line, ok := orderStatusLines[status]
	if !ok {
		return "", "", false
	}
	subject = fmt.Sprintf("Order %s %s", orderNumber, statusWord(status))
	body = fmt.Sprintf("Order number: %s\n\n%s", orderNumber, line)
	return subject, body, true
}

func statusWord(status string) string {
	switch status {
	case "SHIPPED":
		return "shipped"
	case "DELIVERED":
		return "delivered"
	case "CANCELLED":
		return "cancelled"
	default:
		return "updated"
	}
}

var serviceRequestStatusLines = map[string]string{
	"QUOTED":      "We have prepared a quote for your service request.",
	"APPROVED":    "Your service request has been approved and scheduled.",
	"IN_PROGRESS": "Work on your service request has started.",
	"COMPLETED":   "Your service request has been completed.",
	"CANCELLED":   "Your service request has been cancelled.",
}

// ServiceRequestStatusEmail returns the notification for a service request
// status change. QuotedAmount is included only when positive.
func ServiceRequestStatusEmail(requestID int, status string, quotedAmount float64) (subject, body string, ok bool) {
	line, ok := serviceRequestStatusLines[status]
	if !ok {
		return "", "", false
	}
	subject = fmt.Sprintf("Service request #%d update", requestID)
	body = fmt.Sprintf("Service request #%d\n\n%s", requestID, line)
	if status == "QUOTED" && quotedAmount > 0 {
		body += fmt.Sprintf("\nQuoted amount: PKR %.2f", quotedAmount)
	}
	return subject, body, true
}
