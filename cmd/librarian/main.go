package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Astemirdum/library-rental/librarian/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Execute(ctx)
	stop()
	os.Exit(code)
}
