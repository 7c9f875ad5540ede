package storefront

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Lixing-Zhang/mint-kitchen/internal/cart"
	"github.com/Lixing-Zhang/mint-kitchen/internal/checkout"
)

// RenderMenu writes every tab of the menu.
func RenderMenu(w io.Writer, v *MenuView) error {
	for _, tab := range v.Tabs() {
		if _, err := fmt.Fprintf(w, "== %s ==\n", tab.Category.Title()); err != nil {
			return err
		}
		if tab.Message != "" {
			if _, err := fmt.Fprintf(w, "  %s\n\n", tab.Message); err != nil {
				return err
			}
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, item := range tab.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", item.Key(), item.Name, item.Price)
			if item.Description != "" {
				fmt.Fprintf(tw, "  \t%s\t\n", item.Description)
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// RenderCart writes the cart lines, item count and total.
func RenderCart(w io.Writer, snap cart.Snapshot) error {
	if snap.Empty() {
		_, err := fmt.Fprintln(w, "Your cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Item\tPrice\tQty\tSubtotal")
	for _, l := range snap.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.Name, l.Price, l.Quantity, l.Subtotal())
	}
	fmt.Fprintf(tw, "\t\t%d\t%s\n", snap.Items, snap.Total)
	return tw.Flush()
}

// RenderCheckout writes the outcome of a checkout attempt.
func RenderCheckout(w io.Writer, st checkout.State, snap cart.Snapshot) error {
	var b strings.Builder

	switch st.Status {
	case checkout.Success:
		b.WriteString("Payment Successful!\n")
		fmt.Fprintf(&b, "Order: %s\n", st.OrderID)
		fmt.Fprintf(&b, "Total Paid: %s\n", st.PaidAmount)
		if st.ReceiptURL != "" {
			fmt.Fprintf(&b, "Receipt: %s\n", st.ReceiptURL)
		}
	case checkout.Processing:
		b.WriteString("Processing payment...\n")
	case checkout.Error:
		fmt.Fprintf(&b, "Error: %s\n", st.Error)
		if !snap.Empty() {
			fmt.Fprintf(&b, "Your cart was kept (%d items, %s). Please try again.\n", snap.Items, snap.Total)
		}
	default:
		if snap.Empty() {
			b.WriteString("Your cart is empty\n")
		} else {
			fmt.Fprintf(&b, "Pay %s\n", snap.Total)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
