package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"printsync/internal/client"
	"printsync/internal/handlers"
	"printsync/internal/logger"
	"printsync/internal/repository"
	"printsync/internal/server"
	"printsync/internal/service"
	"printsync/internal/transport"

	"github.com/spf13/viper"
)

func main() {
	// load config.yml first so the log level is honored
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(logLevel())

	// open archive DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies: repositories, then the core's collaborators, then
	// the core itself and the transport feeding it
	repos := repository.NewRepository(db)
	archiver := service.NewArchiver(repos.Console, repos.Samples, log)
	periph := service.NewPeripheralState(log)

	core := client.New(client.Deps{
		Files:      periph,
		Power:      periph,
		Updates:    periph,
		Macros:     configMacros{},
		Sinks:      []client.Sink{archiver},
		RetryDelay: viper.GetDuration("controller.retry_delay"),
		Log:        log,
	})

	conn := transport.NewClient(
		viper.GetString("controller.url"),
		viper.GetDuration("controller.redial"),
		core,
		log,
	)
	core.AttachConn(conn)

	services := service.NewService(core, archiver, periph, repos, service.Config{
		SigningKey: viper.GetString("jwt.signing_key"),
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go core.Run(ctx)
	go conn.Run(ctx)
	go archiver.Run(ctx)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetDefault("controller.url", "ws://localhost:7125/websocket")
	return viper.ReadInConfig()
}

func logLevel() string {
	if lvl := viper.GetString("log.level"); lvl != "" {
		return lvl
	}
	return logger.InfoLevel
}

// configMacros serves the hidden-macro list straight from the config file.
type configMacros struct{}

func (configMacros) HiddenMacros() []string {
	return viper.GetStringSlice("macros.hidden")
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "printsync.db")
		dbPath = "printsync.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")

	// stop the transport, core and archiver
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
