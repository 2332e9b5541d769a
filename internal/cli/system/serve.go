package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/mcp"
)

// ServeCmd runs the MCP tool server on stdio.
type ServeCmd struct{}

func (cmd *ServeCmd) Run(ctx *cli.Context) error {
	defer ctx.Store.Close()

	srv, err := mcp.NewServer(mcp.DefaultConfig(), manager(ctx))
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(runCtx)
}
