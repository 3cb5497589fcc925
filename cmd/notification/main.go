package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tarikcelik1/microservice-personnel-management/internal/api"
	"github.com/tarikcelik1/microservice-personnel-management/internal/config"
	"github.com/tarikcelik1/microservice-personnel-management/internal/exchange/consumer"
	"github.com/tarikcelik1/microservice-personnel-management/internal/mail"
	notificationrepo "github.com/tarikcelik1/microservice-personnel-management/internal/repository/notification"
	notificationsvc "github.com/tarikcelik1/microservice-personnel-management/internal/service/notification"
	"github.com/tarikcelik1/microservice-personnel-management/library/pg"
	"github.com/tarikcelik1/microservice-personnel-management/library/yamlreader"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(rootCtx)
	defer cancel()

	cfg := MustNewConfig(parseFlags())

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	log.Info().Msgf("pg=%+v", cfg.Postgres.Conn.Value)
	log.Info().Msgf("kafka=%+v", cfg.Kafka.Bootstrap.Value)

	pgClient, err := pg.NewPG(rootCtx, cfg.Postgres.Conn.Value, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres init failed")
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(cfg.Postgres.Migrations.Value); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	logsRepo := notificationrepo.NewRepository(pgClient.Pool())

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:          cfg.SMTP.Host.Value,
		Port:          cfg.SMTP.Port.Value,
		Username:      cfg.SMTP.Username.Value,
		Password:      cfg.SMTP.Password.Value,
		From:          cfg.SMTP.From.Value,
		SkipTLSVerify: cfg.SMTP.SkipTLSVerify.Value,
	}, log.Logger)

	service := notificationsvc.NewService(notificationsvc.ServiceDeps{
		Logs:    logsRepo,
		Mailer:  mailer,
		HREmail: cfg.Notification.HREmail.Value,
	}, log.Logger)

	apiService := api.NewNotificationAPI(api.NotificationAPIDeps{
		Port:   cfg.NotificationAPI.Port.Value,
		Sender: service,
		Logs:   logsRepo,
	})

	notificationConsumer := consumer.NewRunner(
		cfg.Kafka.Bootstrap.Value,
		cfg.Kafka.Topic.Value,
		cfg.Kafka.ConsumerGroup.Value,
		service,
		log.Logger,
	)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Msg("запуск HTTP API")

		if err := apiService.Start(gctx); err != nil {
			log.Error().Err(err).Msg("HTTP API завершился с ошибкой")

			return err
		}

		log.Info().Msg("HTTP API остановлен")

		return nil
	})

	group.Go(func() error {
		log.Info().Msg("запуск notification consumer")

		if err := notificationConsumer.Start(gctx); err != nil {
			log.Error().Err(err).Msg("notification consumer завершился с ошибкой")

			return err
		}

		log.Info().Msg("notification consumer остановлен")

		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = group.Wait()
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("signal received, graceful shutdown...")
		<-done
		log.Info().Msg("all services stopped")
	case <-done:
		log.Info().Msg("all services stopped")
	}
}

func MustNewConfig(path string) *config.Config {
	cfg, err := yamlreader.NewConfig[config.Config](path)

	if err != nil {
		log.Fatal().Str("path", path).Err(err).Msg("ошибка чтения конфигурации приложения")
		return nil
	}

	return cfg
}

func parseFlags() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	godotenv.Load(".env")

	if configPath == "" {
		configPath = "config/application-local.yaml"
	}
	return configPath
}
