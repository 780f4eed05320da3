package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/labcheck/internal/api"
	"github.com/terraincognita07/labcheck/internal/config"
	"github.com/terraincognita07/labcheck/internal/i18n"
)

const shutdownTimeout = 10 * time.Second

func runServe(cfg config.Config) error {
	secretKey, err := cfg.ValidateSecretKey()
	if err != nil {
		return err
	}
	port, err := cfg.ValidatePort()
	if err != nil {
		return err
	}
	location := cfg.Location()
	time.Local = location

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	if err := prepareStore(s, cfg); err != nil {
		return err
	}

	app, err := newServerApp(s, cfg, secretKey)
	if err != nil {
		return err
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("labcheck listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, cfg.DBPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// prepareStore fills an empty catalog, creates the first administrator and
// stores the department title on first start.
func prepareStore(s *store, cfg config.Config) error {
	var seed []byte
	if path := strings.TrimSpace(cfg.SeedCatalog); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed catalog: %w", err)
		}
		seed = raw
	}
	seeded, err := s.catalog.SeedDefaults(seed)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if seeded {
		log.Printf("catalog seeded for %s", s.clock.Today())
	}

	if cfg.AdminPassword != "" {
		created, err := s.auth.BootstrapAdmin(cfg.AdminLogin, cfg.AdminPassword, true)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Printf("admin %q created; password change required on first login", cfg.AdminLogin)
		}
	}

	if err := s.settings.EnsureTitle(cfg.DepartmentTitle); err != nil {
		return fmt.Errorf("store department title: %w", err)
	}
	return nil
}

func newServerApp(s *store, cfg config.Config, secretKey string) (*fiber.App, error) {
	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, i18n.EmbeddedLocales())
	if err != nil {
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(s.repositories, s.clock, secretKey, i18nManager, cfg.CookieSecure)
	if err != nil {
		return nil, fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "labcheck",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, nil
}
