package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnvLoader struct {
	Env map[string]string
}

func (l *testEnvLoader) Get(key string) string {
	value, ok := l.Env[key]
	if !ok {
		return ""
	}
	return value
}

func requiredEnv() map[string]string {
	return map[string]string{
		"LIQMON_RPC_URL":            "wss://eth.example.org",
		"LIQMON_ASSET_TABLE_PATH":   "/etc/liqmon/assets.json",
		"LIQMON_FEED_TABLE_PATH":    "/etc/liqmon/feeds.json",
		"LIQMON_USER_SNAPSHOT_PATH": "/etc/liqmon/users.json",
	}
}

func TestConfigLoading(t *testing.T) {
	loader := &testEnvLoader{Env: requiredEnv()}

	defaultConfig, err := LoadConfig(loader)
	require.NoError(t, err)

	assert.Equal(t, "wss://eth.example.org", defaultConfig.RpcUrl)
	assert.Equal(t, 64, defaultConfig.BucketSize)
	assert.Equal(t, 16, defaultConfig.PriceCacheTraces)
	assert.Equal(t, big.NewInt(1_000_000_000_000_000_000), defaultConfig.HealthFactorThreshold)
	assert.Equal(t, big.NewInt(100_000_000), defaultConfig.MinReportableCollateral)
	assert.Equal(t, 10*time.Minute, defaultConfig.ScanInterval)
	assert.Equal(t, ":8080", defaultConfig.HealthListenAddr)
	assert.Empty(t, defaultConfig.SlackWebhookUrl)

	env := requiredEnv()
	env["LIQMON_BUCKET_SIZE"] = "128"
	env["LIQMON_PRICE_CACHE_TRACES"] = "4"
	env["LIQMON_HEALTH_FACTOR_THRESHOLD"] = "1050000000000000000"
	env["LIQMON_MIN_REPORTABLE_COLLATERAL"] = "5000000000"
	env["LIQMON_SCAN_INTERVAL"] = "30m"
	env["LIQMON_HEALTH_LISTEN_ADDR"] = ":9000"
	env["LIQMON_SLACK_WEBHOOK_URL"] = "https://hooks.slack.com/services/T0/B0/x"

	config, err := LoadConfig(&testEnvLoader{Env: env})
	require.NoError(t, err)

	assert.Equal(t, 128, config.BucketSize)
	assert.Equal(t, 4, config.PriceCacheTraces)
	assert.Equal(t, big.NewInt(1_050_000_000_000_000_000), config.HealthFactorThreshold)
	assert.Equal(t, big.NewInt(5_000_000_000), config.MinReportableCollateral)
	assert.Equal(t, 30*time.Minute, config.ScanInterval)
	assert.Equal(t, ":9000", config.HealthListenAddr)
}

func TestConfigMissingRequiredKeys(t *testing.T) {
	for _, key := range []string{
		"LIQMON_RPC_URL",
		"LIQMON_ASSET_TABLE_PATH",
		"LIQMON_FEED_TABLE_PATH",
		"LIQMON_USER_SNAPSHOT_PATH",
	} {
		t.Run(key, func(t *testing.T) {
			env := requiredEnv()
			delete(env, key)

			_, err := LoadConfig(&testEnvLoader{Env: env})
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestConfigRejectsMalformedThreshold(t *testing.T) {
	env := requiredEnv()
	env["LIQMON_HEALTH_FACTOR_THRESHOLD"] = "1.05e18"

	_, err := LoadConfig(&testEnvLoader{Env: env})
	assert.Error(t, err)
}

func TestConfigBadIntervalFallsBackToDefault(t *testing.T) {
	env := requiredEnv()
	env["LIQMON_SCAN_INTERVAL"] = "not-a-duration"

	config, err := LoadConfig(&testEnvLoader{Env: env})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, config.ScanInterval)
}

func TestEnvLoader(t *testing.T) {
	testKey := "LIQMON_CONFIG_VAR_TEST_1"
	testValue := "LIQMON_CONFIG_VAR_TEST_1 value test"

	old := os.Getenv(testKey)
	os.Setenv(testKey, testValue)
	defer os.Setenv(testKey, old)

	loader := &EnvLoader{}
	assert.Equal(t, testValue, loader.Get(testKey))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAssetTable(t *testing.T) {
	path := writeFile(t, "assets.json", `[
		{
			"address": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
			"symbol": "WETH",
			"decimals": 18,
			"liquidationBonusBps": 10500,
			"protocolFeeBps": 1000,
			"priceSource": "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419"
		}
	]`)

	table, err := LoadAssetTable(path)
	require.NoError(t, err)
	require.Len(t, table, 1)

	weth := table[common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")]
	assert.Equal(t, "WETH", weth.Symbol)
	assert.Equal(t, uint8(18), weth.Decimals)
	assert.Equal(t, big.NewInt(10500), weth.LiquidationBonusBps)
	assert.Equal(t, big.NewInt(1000), weth.ProtocolFeeBps)
}

func TestLoadAssetTableRejectsMissingBonus(t *testing.T) {
	path := writeFile(t, "assets.json", `[
		{"address": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "symbol": "WETH", "decimals": 18}
	]`)

	_, err := LoadAssetTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "liquidation bonus")
}

func TestLoadFeedTable(t *testing.T) {
	path := writeFile(t, "feeds.json", `{
		"0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419": [
			"0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
		]
	}`)

	table, err := LoadFeedTable(path)
	require.NoError(t, err)

	assets := table[common.HexToAddress("0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419")]
	require.Len(t, assets, 1)
	assert.Equal(t, common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), assets[0])
}

func TestLoadUserSnapshot(t *testing.T) {
	path := writeFile(t, "users.json", `[
		"0x0000000000000000000000000000000000000001",
		"0x0000000000000000000000000000000000000002"
	]`)

	users, err := LoadUserSnapshot(path)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestLoadTablesMissingFile(t *testing.T) {
	_, err := LoadAssetTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadFeedTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadUserSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
