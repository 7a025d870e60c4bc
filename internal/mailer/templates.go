package mailer

import (
	"fmt"
	"html"
)

func wrap(title, body string) string {
	return fmt.Sprintf(`
    <div style="font-family: -apple-system, 'Segoe UI', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f8fafc;">
      <div style="background-color: white; padding: 32px; border-radius: 8px;">
        <h1 style="color: #0f172a; margin: 0 0 20px 0; font-size: 24px;">%s</h1>
        %s
        <div style="margin-top: 32px; padding-top: 20px; border-top: 1px solid #e2e8f0; text-align: center;">
          <p style="color: #64748b; font-size: 11px; margin: 0;">
            <strong style="color: #0f172a;">NexusFlow Inventory Management System</strong><br/>
            Automated Notification
          </p>
        </div>
      </div>
    </div>`, html.EscapeString(title), body)
}

// StockRequestHTML is sent to managers when staff submit a pending
// stock adjustment.
func StockRequestHTML(staffName, productName, adjType string, quantity int, reason, notes string) (subject, body string) {
	action := "Restock"
	if adjType == "OUT" {
		action = "Stock Reduction"
	}
	detail := fmt.Sprintf(`
        <p style="color: #475569; font-size: 15px;">%s submitted a stock adjustment awaiting your review.</p>
        <table style="width: 100%%; border-collapse: collapse; margin: 16px 0;">
          <tr><td style="padding: 6px 0; font-weight: 600;">Product</td><td>%s</td></tr>
          <tr><td style="padding: 6px 0; font-weight: 600;">Action</td><td>%s</td></tr>
          <tr><td style="padding: 6px 0; font-weight: 600;">Quantity</td><td>%d</td></tr>
          <tr><td style="padding: 6px 0; font-weight: 600;">Reason</td><td>%s</td></tr>
          <tr><td style="padding: 6px 0; font-weight: 600;">Notes</td><td>%s</td></tr>
        </table>`,
		html.EscapeString(staffName), html.EscapeString(productName), action,
		quantity, html.EscapeString(reason), html.EscapeString(notes))
	return "Stock Adjustment Awaiting Approval", wrap("Pending Stock Adjustment", detail)
}

// StockApprovedHTML is sent to the original submitter after approval.
func StockApprovedHTML(productName string, quantity int, adjType string) (subject, body string) {
	verb := "added to"
	if adjType == "OUT" {
		verb = "removed from"
	}
	detail := fmt.Sprintf(`
        <p style="color: #475569; font-size: 15px;">
          Your stock adjustment has been <strong style="color: #10b981;">approved</strong>:
          %d units %s <strong>%s</strong>.
        </p>`, quantity, verb, html.EscapeString(productName))
	return "Stock Adjustment Approved", wrap("Adjustment Approved", detail)
}

// ProcurementRequestHTML announces a new purchase request.
func ProcurementRequestHTML(title string, totalAmount float64, priority, description string) (subject, body string) {
	detail := fmt.Sprintf(`
        <p style="color: #475569; font-size: 15px;">A new purchase request has been submitted.</p>
        <table style="width: 100%%; border-collapse: collapse; margin: 16px 0;">
          <tr><td style="padding: 6px 0; font-weight: 600;">Title</td><td>%s</td></tr>
          <tr><td style="padding: 6px 0; font-weight: 600;">Total</td><td>%.2f</td></tr>
          <tr><td style="padding: 6px 0; font-weight: 600;">Priority</td><td>%s</td></tr>
          <tr><td style="padding: 6px 0; font-weight: 600;">Description</td><td>%s</td></tr>
        </table>`,
		html.EscapeString(title), totalAmount,
		html.EscapeString(priority), html.EscapeString(description))
	return "New Procurement Request", wrap("New Purchase Request", detail)
}

// ProcurementApprovedHTML confirms an approved purchase request.
func ProcurementApprovedHTML(title string, totalAmount float64) (subject, body string) {
	detail := fmt.Sprintf(`
        <p style="color: #475569; font-size: 15px;">
          Purchase request <strong>%s</strong> (%.2f) has been
          <strong style="color: #10b981;">approved</strong> and is ready for processing.
        </p>`, html.EscapeString(title), totalAmount)
	return "Procurement Request Approved", wrap("Request Approved", detail)
}
