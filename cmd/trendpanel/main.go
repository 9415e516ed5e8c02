package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/atl3/trendpanel/internal/config"
	"github.com/atl3/trendpanel/internal/deps"
	"github.com/atl3/trendpanel/internal/server"
	"github.com/atl3/trendpanel/internal/state"
	"github.com/atl3/trendpanel/internal/statestore"
	"github.com/atl3/trendpanel/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := config.NewConfig()
	storage, err := storage.NewPostgresStorage(ctx, config.DatabaseURI)
	if err != nil {
		config.Logger.Fatal(err)
	}

	deps := deps.NewDependencies(config.Key)
	store := state.NewStore(statestore.New(config.StateFile), config.Logger)

	srv := server.NewServer(storage, store, config, deps)
	if err := srv.Run(ctx); err != nil {
		config.Logger.Fatal(err)
	}
}
