package mock

import (
	"context"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

// Mailer implements port.Mailer for tests.
type Mailer struct {
	Sent []port.Email
	ID   string
	Err  error
}

func (m *Mailer) Send(ctx context.Context, email port.Email) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Sent = append(m.Sent, email)
	return m.ID, nil
}
