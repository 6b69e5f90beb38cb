package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/keeper-labs/liquidation-engine/aaveclient"
	"github.com/keeper-labs/liquidation-engine/alerter"
	"github.com/keeper-labs/liquidation-engine/config"
	"github.com/keeper-labs/liquidation-engine/oracles"
	"github.com/keeper-labs/liquidation-engine/pricecache"
	"github.com/keeper-labs/liquidation-engine/profit"
	"github.com/keeper-labs/liquidation-engine/reserveindex"
	"github.com/keeper-labs/liquidation-engine/scanner"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// a local .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(&config.EnvLoader{})
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	assets, err := config.LoadAssetTable(cfg.AssetTablePath)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
	feeds, err := config.LoadFeedTable(cfg.FeedTablePath)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
	users, err := config.LoadUserSnapshot(cfg.UserSnapshotPath)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	ethClient, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
	defer ethClient.Close()

	client := aaveclient.New(ethClient, aaveclient.MainnetAddresses())

	// re-key the feed table by root aggregator, the address pending
	// transmissions are sent to
	feedRoots, err := oracles.MainnetTable().ResolveRoots(context.Background(), client, feeds)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	cache := pricecache.New(cfg.PriceCacheTraces, logger)
	index := reserveindex.New(cfg.BucketSize, logger)
	calc := profit.NewCalculator(assets, cache, client, logger)
	bus := scanner.NewBus(scanner.DefaultSubscriberBuffer, logger)

	scanCfg := scanner.Config{
		Threshold:               cfg.HealthFactorThreshold,
		MinReportableCollateral: cfg.MinReportableCollateral,
	}
	service := NewService(assets, feedRoots, index, cache, client, calc, bus, scanCfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startHealthCheckService(ctx, logger, cfg, ethClient)

	if cfg.SlackWebhookUrl != "" {
		slack := alerter.NewSlackAlerter(cfg.SlackWebhookUrl)
		notifier := alerter.NewUnderwaterNotifier(&slack, logger)
		go notifier.Run(ctx, bus.Subscribe())
	}
	go service.RunProfitConsumer(ctx, bus.Subscribe())

	service.Bootstrap(ctx, users)

	results := service.RescanAll(ctx)
	logger.Info().
		Int("scanned", len(results.All)).
		Int("under_threshold", len(results.UnderThreshold)).
		Msg("initial scan complete")

	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			bus.Close()
			logger.Info().Msg("shutting down")
			return
		case <-ticker.C:
			results := service.RescanAll(ctx)
			logger.Info().
				Int("scanned", len(results.All)).
				Int("under_threshold", len(results.UnderThreshold)).
				Msg("interval scan complete")
		}
	}
}
