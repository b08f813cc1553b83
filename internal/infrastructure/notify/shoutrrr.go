package notify

import (
	"context"
	"fmt"

	"github.com/containrrr/shoutrrr"
	"github.com/containrrr/shoutrrr/pkg/router"
	"github.com/containrrr/shoutrrr/pkg/types"
)

// ShoutrrrSender delivers codes through any shoutrrr-supported service
// (SMTP, Telegram, generic webhook and so on) selected by URL.
type ShoutrrrSender struct {
	router *router.ServiceRouter
}

// NewShoutrrrSender creates a sender for the given shoutrrr service URL.
func NewShoutrrrSender(serviceURL string) (*ShoutrrrSender, error) {
	r, err := shoutrrr.CreateSender(serviceURL)
	if err != nil {
		return nil, fmt.Errorf("create code sender: %w", err)
	}
	return &ShoutrrrSender{router: r}, nil
}

// SendCode implements CodeSender.
func (s *ShoutrrrSender) SendCode(ctx context.Context, recipient, code string) error {
	params := types.Params{"title": "Verification code"}
	message := fmt.Sprintf("Your verification code is %s. It expires in a few minutes.", code)

	for _, err := range s.router.Send(message, &params) {
		if err != nil {
			return fmt.Errorf("send code to %s: %w", recipient, err)
		}
	}
	return nil
}
