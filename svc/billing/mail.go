package billing

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pedidoz/backoffice/pkg/email"
)

const purchaseConfirmedSubject = "Compra confirmada - pedidoZ"

// EmailMailer renders the purchase confirmation and hands it to an email.EmailSender.
type EmailMailer struct {
	sender   email.EmailSender
	frontURL string
	printer  *message.Printer
}

// NewEmailMailer renders the confirmation with links under frontURL.
func NewEmailMailer(sender email.EmailSender, frontURL string) *EmailMailer {
	if sender == nil {
		panic("billing: EmailSender is required")
	}
	return &EmailMailer{
		sender:   sender,
		frontURL: frontURL,
		printer:  message.NewPrinter(language.BrazilianPortuguese),
	}
}

func (m *EmailMailer) SendPurchaseConfirmed(ctx context.Context, msg PurchaseConfirmed) error {
	amount := msg.Invoice.Amount
	if msg.Invoice.AmountPaid != nil {
		amount = *msg.Invoice.AmountPaid
	}
	view := purchaseView{
		Name:      msg.Owner.Name,
		PlanName:  msg.Plan.Name,
		Amount:    m.printer.Sprint(currency.Symbol(currency.BRL.Amount(amount))),
		InvoiceID: msg.Invoice.ID,
		Link:      m.frontURL,
	}
	body, err := email.Render(ctx, purchaseConfirmedEmail(view))
	if err != nil {
		return fmt.Errorf("billing: render purchase email: %w", err)
	}
	return m.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   msg.Owner.Email,
		Subject:  purchaseConfirmedSubject,
		BodyHTML: body,
		Tag:      "purchase-confirmed",
	})
}

type purchaseView struct {
	Name      string
	PlanName  string
	Amount    string
	InvoiceID string
	Link      string
}

func purchaseConfirmedEmail(v purchaseView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		greeting := "Olá!"
		if v.Name != "" {
			greeting = "Olá, " + templ.EscapeString(v.Name) + "!"
		}
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="pt-BR">
<body style="font-family:sans-serif">
<h1>%s</h1>
<p>Recebemos o pagamento do plano <strong>%s</strong> no valor de <strong>%s</strong>.</p>
<p>Fatura: %s</p>
<p><a href="%s">Acessar o pedidoZ</a></p>
</body>
</html>`,
			greeting,
			templ.EscapeString(v.PlanName),
			templ.EscapeString(v.Amount),
			templ.EscapeString(v.InvoiceID),
			templ.EscapeString(v.Link),
		)
		return err
	})
}
