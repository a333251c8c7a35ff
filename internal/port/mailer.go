package port

import "context"

// Mailer abstracts outbound email delivery.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
