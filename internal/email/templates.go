package email

import (
	"fmt"
	"strings"

	"mangastore/internal/models"
)

func generateWelcomeText(user *models.User) string {
	return fmt.Sprintf(`Hi %s,

Thanks for creating an account at the manga store. Browse the catalog,
fill your cart and your orders will show up in your purchase history.

Happy reading!
`, user.Name)
}

func generateWelcomeHTML(user *models.User) string {
	return fmt.Sprintf(`<html>
<body>
<p>Hi %s,</p>
<p>Thanks for creating an account at the manga store. Browse the catalog,
fill your cart and your orders will show up in your purchase history.</p>
<p>Happy reading!</p>
</body>
</html>`, user.Name)
}

func generateOrderText(user *models.User, sale *models.Sale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nWe received your order %s.\n\n", user.Name, sale.Reference)
	for _, item := range sale.Items {
		if item.Manga != nil {
			fmt.Fprintf(&b, "  - %s  %.2f\n", item.Manga.Name, item.Manga.Price)
		}
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\n", sale.Total)
	if sale.DeliverAddress != "" {
		fmt.Fprintf(&b, "Delivery to: %s, %s\n", sale.DeliverName, sale.DeliverAddress)
	}
	b.WriteString("\nThanks for shopping with us!\n")
	return b.String()
}

func generateOrderHTML(user *models.User, sale *models.Sale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><body><p>Hi %s,</p><p>We received your order <strong>%s</strong>.</p><ul>", user.Name, sale.Reference)
	for _, item := range sale.Items {
		if item.Manga != nil {
			fmt.Fprintf(&b, "<li>%s &mdash; %.2f</li>", item.Manga.Name, item.Manga.Price)
		}
	}
	fmt.Fprintf(&b, "</ul><p>Total: <strong>%.2f</strong></p>", sale.Total)
	if sale.DeliverAddress != "" {
		fmt.Fprintf(&b, "<p>Delivery to: %s, %s</p>", sale.DeliverName, sale.DeliverAddress)
	}
	b.WriteString("<p>Thanks for shopping with us!</p></body></html>")
	return b.String()
}
