package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tarikcelik1/microservice-personnel-management/internal/api"
	"github.com/tarikcelik1/microservice-personnel-management/internal/config"
	"github.com/tarikcelik1/microservice-personnel-management/internal/exchange/producer"
	personelrepo "github.com/tarikcelik1/microservice-personnel-management/internal/repository/personel"
	personelsvc "github.com/tarikcelik1/microservice-personnel-management/internal/service/personel"
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

	eventProducer, err := initEventProducer(cfg.Kafka)
	if err != nil {
		log.Fatal().Err(err).Msg("kafka producer init failed")
	}
	defer func() { _ = eventProducer.Close() }()

	repo := personelrepo.NewRepository(pgClient.Pool())
	service := personelsvc.NewService(repo, eventProducer, log.Logger)

	apiService := api.NewPersonelAPI(api.PersonelAPIDeps{
		Port:     cfg.PersonelAPI.Port.Value,
		Personel: service,
	})

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

func initEventProducer(kafkaConfig config.KafkaConfig) (*producer.EventProducer, error) {
	sCfg := sarama.NewConfig()
	sCfg.Version = sarama.V3_3_2_0
	sCfg.ClientID = kafkaConfig.ProducerClientID.Value
	sCfg.Producer.Return.Successes = true
	sCfg.Producer.RequiredAcks = sarama.WaitForAll
	sCfg.Producer.Idempotent = true
	sCfg.Net.MaxOpenRequests = 1
	sCfg.Producer.Retry.Max = 5
	sCfg.Producer.Retry.Backoff = 200 * time.Millisecond

	sp, err := sarama.NewSyncProducer([]string{kafkaConfig.Bootstrap.Value}, sCfg)
	if err != nil {
		return nil, err
	}

	prod := producer.NewEventProducer(
		sp,
		producer.Config{
			Topic:      kafkaConfig.Topic.Value,
			RoutingKey: kafkaConfig.RoutingKey.Value,
			Source:     "personel-service",
		},
		log.Logger,
	)

	return prod, nil
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
