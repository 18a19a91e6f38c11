package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"itbitflow/adapter"
	"itbitflow/config"
	"itbitflow/itbit"
	"itbitflow/logger"
	"itbitflow/models"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	path := config.ResolveConfigPath(*configPath, "config/config.yml", map[string]string{
		"production": "config/config.production.yml",
		"staging":    "config/config.staging.yml",
	})

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service":     cfg.Itbitflow.Name,
		"version":     cfg.Itbitflow.Version,
		"environment": config.AppEnvironment(),
	}).Info("starting itbitflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.CloudWatch.Enabled {
		logger.InitCloudWatch(
			cfg.Metrics.CloudWatch.Region,
			cfg.Metrics.CloudWatch.Namespace,
			cfg.Metrics.CloudWatch.Dashboard,
		)
	}

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}

	client := itbit.NewClient(cfg.Exchange)
	exchange := adapter.New(cfg.Exchange, client)

	go watchMarkets(ctx, exchange, cfg.Watch)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	log.WithFields(logger.Fields{"signal": received.String()}).Info("shutting down")
	cancel()
}

// watchMarkets polls the ticker for every configured pair on the
// configured interval.
func watchMarkets(ctx context.Context, exchange adapter.Exchange, cfg config.WatchConfig) {
	log := logger.WithComponent("watch")

	if len(cfg.Pairs) == 0 {
		log.Info("no pairs configured, market watch disabled")
		return
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	pollOnce(ctx, exchange, cfg.Pairs, log)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pollOnce(ctx, exchange, cfg.Pairs, log)
		}
	}
}

func pollOnce(ctx context.Context, exchange adapter.Exchange, pairs []string, log *logger.Entry) {
	for _, pair := range pairs {
		base, quote := splitPair(pair)
		result, err := exchange.GetTicker(ctx, base, quote)
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{"pair": pair}).Error("ticker poll failed")
			continue
		}
		logTicker(log, pair, result)
	}
}

func logTicker(log *logger.Entry, pair string, t *models.Ticker) {
	log.WithFields(logger.Fields{
		"pair":      pair,
		"bid":       t.Bid,
		"ask":       t.Ask,
		"last":      t.LastPrice,
		"volume24h": t.Volume24Hours,
	}).Info("ticker")
}

// splitPair turns a canonical pair code like BTCUSD into its base and
// quote currencies. Base codes are three characters.
func splitPair(pair string) (string, string) {
	if len(pair) < 4 {
		return pair, ""
	}
	return pair[:3], pair[3:]
}
