// Package cli is the interactive administration console. It authenticates
// the operator first and then offers only the commands the operator's
// permission set allows.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/vkotelnikov/autopark/internal/auth"
	"github.com/vkotelnikov/autopark/internal/config"
	"github.com/vkotelnikov/autopark/internal/logging"
)

type App struct {
	service *auth.Service
	current *auth.AccountView
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	service, err := auth.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &App{service: service, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.service.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.current != nil
}
