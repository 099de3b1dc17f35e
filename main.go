package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"audiodash/config"
	_ "audiodash/docs"
	"audiodash/handlers"
	"audiodash/internal/controller"
	"audiodash/internal/playhead"
	"audiodash/internal/plot"
	"audiodash/internal/worker"
	"audiodash/middleware"
	"audiodash/utils"
)

var flags struct {
	host  string
	port  int
	debug bool
}

var rootCmd = &cobra.Command{
	Use:   "audiodash",
	Short: "Dashboard comparing reference and estimated music structure annotations",
	Long: `audiodash serves a web dashboard that plots a track's reference and
estimated structure annotations in three stacked panels, plays its audio,
and keeps a playhead on the chart in sync with playback.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flags.host, "host", "0.0.0.0", "interface to listen on")
	rootCmd.Flags().IntVar(&flags.port, "port", 7860, "port to listen on")
	rootCmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = flags.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flags.port
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = flags.debug
	}

	log := config.InitLogger(cfg.Debug)
	if envErr != nil {
		log.Debug("No .env file found, using system environment variables")
	} else {
		log.Info("Loaded environment variables from .env file")
	}
	if err := cfg.Validate(); err != nil {
		log.WithField("errors", utils.FormatValidationErrors(err)).Error("Invalid configuration")
		return err
	}

	ds, err := config.LoadDataset(context.Background(), cfg.Dataset, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load dataset")
	}

	events := worker.NewRouter(cfg.QueueSize, log)
	defer events.Stop()

	composer := plot.NewComposer(cfg.Reference, cfg.Estimated)
	ctrl := controller.New(ds, composer, playhead.NewHub(), log, cfg.DefaultTrackIndex)

	h := handlers.NewApplicationHandler(ctrl, ds, controller.NewSessions(), events, log)
	h.ProbeAudio = cfg.ProbeAudio

	app := fiber.New(fiber.Config{
		AppName:               "audiodash",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return utils.RespondWithError(c, code, err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(log))

	h.Register(app)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("Shutting down dashboard...")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.WithError(err).Warn("Forced shutdown")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":   cfg.Addr(),
		"tracks": ds.Len(),
	}).Info("Starting dashboard")
	if err := app.Listen(cfg.Addr()); err != nil {
		return err
	}
	log.Info("Dashboard shut down gracefully.")
	return nil
}
