// Package config loads the monitor's runtime configuration from the
// environment plus two JSON tables on disk.
package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"
)

const (
	rpcUrlEnvKey                  = "LIQMON_RPC_URL"
	assetTablePathEnvKey          = "LIQMON_ASSET_TABLE_PATH"
	feedTablePathEnvKey           = "LIQMON_FEED_TABLE_PATH"
	userSnapshotPathEnvKey        = "LIQMON_USER_SNAPSHOT_PATH"
	bucketSizeEnvKey              = "LIQMON_BUCKET_SIZE"
	priceCacheTracesEnvKey        = "LIQMON_PRICE_CACHE_TRACES"
	healthFactorThresholdEnvKey   = "LIQMON_HEALTH_FACTOR_THRESHOLD"
	minReportableCollateralEnvKey = "LIQMON_MIN_REPORTABLE_COLLATERAL"
	scanIntervalEnvKey            = "LIQMON_SCAN_INTERVAL"
	healthListenAddrEnvKey        = "LIQMON_HEALTH_LISTEN_ADDR"
	slackWebhookUrlEnvKey         = "LIQMON_SLACK_WEBHOOK_URL"
)

const (
	defaultBucketSize       = 64
	defaultPriceCacheTraces = 16
	defaultScanInterval     = 10 * time.Minute
	defaultHealthListenAddr = ":8080"
)

var (
	// health factor 1.0 at 1e18
	defaultHealthFactorThreshold = big.NewInt(1_000_000_000_000_000_000)
	// one dollar at 1e8
	defaultMinReportableCollateral = big.NewInt(100_000_000)
)

// ConfigLoader provides an interface for
// loading config values from a provided key
type ConfigLoader interface {
	Get(key string) string
}

// Config provides application configuration
type Config struct {
	RpcUrl                  string
	AssetTablePath          string
	FeedTablePath           string
	UserSnapshotPath        string
	BucketSize              int
	PriceCacheTraces        int
	HealthFactorThreshold   *big.Int
	MinReportableCollateral *big.Int
	ScanInterval            time.Duration
	HealthListenAddr        string
	SlackWebhookUrl         string
}

// LoadConfig loads key values from a ConfigLoader
// and returns a new Config
func LoadConfig(loader ConfigLoader) (Config, error) {
	rpcUrl := loader.Get(rpcUrlEnvKey)
	if rpcUrl == "" {
		return Config{}, fmt.Errorf("%s not set", rpcUrlEnvKey)
	}

	assetTablePath := loader.Get(assetTablePathEnvKey)
	if assetTablePath == "" {
		return Config{}, fmt.Errorf("%s not set", assetTablePathEnvKey)
	}

	feedTablePath := loader.Get(feedTablePathEnvKey)
	if feedTablePath == "" {
		return Config{}, fmt.Errorf("%s not set", feedTablePathEnvKey)
	}

	userSnapshotPath := loader.Get(userSnapshotPathEnvKey)
	if userSnapshotPath == "" {
		return Config{}, fmt.Errorf("%s not set", userSnapshotPathEnvKey)
	}

	bucketSize, err := strconv.Atoi(loader.Get(bucketSizeEnvKey))
	if err != nil || bucketSize < 1 {
		bucketSize = defaultBucketSize
	}

	priceCacheTraces, err := strconv.Atoi(loader.Get(priceCacheTracesEnvKey))
	if err != nil || priceCacheTraces < 0 {
		priceCacheTraces = defaultPriceCacheTraces
	}

	threshold := defaultHealthFactorThreshold
	if raw := loader.Get(healthFactorThresholdEnvKey); raw != "" {
		parsed, ok := new(big.Int).SetString(raw, 10)
		if !ok || parsed.Sign() <= 0 {
			return Config{}, fmt.Errorf("%s is not a positive integer: %q", healthFactorThresholdEnvKey, raw)
		}
		threshold = parsed
	}

	minCollateral := defaultMinReportableCollateral
	if raw := loader.Get(minReportableCollateralEnvKey); raw != "" {
		parsed, ok := new(big.Int).SetString(raw, 10)
		if !ok || parsed.Sign() < 0 {
			return Config{}, fmt.Errorf("%s is not a non-negative integer: %q", minReportableCollateralEnvKey, raw)
		}
		minCollateral = parsed
	}

	scanInterval, err := time.ParseDuration(loader.Get(scanIntervalEnvKey))
	if err != nil {
		scanInterval = defaultScanInterval
	}

	healthListenAddr := loader.Get(healthListenAddrEnvKey)
	if healthListenAddr == "" {
		healthListenAddr = defaultHealthListenAddr
	}

	return Config{
		RpcUrl:                  rpcUrl,
		AssetTablePath:          assetTablePath,
		FeedTablePath:           feedTablePath,
		UserSnapshotPath:        userSnapshotPath,
		BucketSize:              bucketSize,
		PriceCacheTraces:        priceCacheTraces,
		HealthFactorThreshold:   threshold,
		MinReportableCollateral: minCollateral,
		ScanInterval:            scanInterval,
		HealthListenAddr:        healthListenAddr,
		SlackWebhookUrl:         loader.Get(slackWebhookUrlEnvKey),
	}, nil
}

// EnvLoader loads keys from os environment
type EnvLoader struct {
}

// Get retrieves key from environment
func (l *EnvLoader) Get(key string) string {
	return os.Getenv(key)
}
