package registrations

import (
	"fmt"

	"github.com/mijnfegon/mijnfegon-backend/pkg/compenda"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/mailer"
)

func approvalMessage(reg *models.Registration, result *compenda.ApproveResult) mailer.Message {
	subject := "Je registratie is goedgekeurd"
	if result.IsFirstRegistration {
		subject = "Welkom bij MijnFegon: je eerste registratie is goedgekeurd"
	}

	body := fmt.Sprintf(
		`<p>Beste %s,</p>
<p>Je registratie van de %s %s (serienummer %s) is goedgekeurd.</p>
<p>Er zijn <strong>%d Drops</strong> aan je saldo toegevoegd.</p>
<p>Met vriendelijke groet,<br>MijnFegon</p>`,
		reg.InstallerName,
		reg.ProductBrand,
		reg.ProductModel,
		reg.ProductSerialNumber,
		result.Points,
	)

	return mailer.Message{
		To:       reg.InstallerEmail,
		Subject:  subject,
		HTMLBody: body,
	}
}
