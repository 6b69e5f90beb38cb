package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/keeper-labs/liquidation-engine/aave"
)

// LoadAssetTable reads the reserve configuration table: a JSON array of
// assets, keyed in the result by underlying address.
func LoadAssetTable(path string) (map[common.Address]aave.Asset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset table: %w", err)
	}
	var assets []aave.Asset
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, fmt.Errorf("parse asset table %s: %w", path, err)
	}

	table := make(map[common.Address]aave.Asset, len(assets))
	for _, asset := range assets {
		if asset.Address == (common.Address{}) {
			return nil, fmt.Errorf("asset table %s: entry %q has no address", path, asset.Symbol)
		}
		if asset.LiquidationBonusBps == nil || asset.LiquidationBonusBps.Sign() <= 0 {
			return nil, fmt.Errorf("asset table %s: entry %q has no liquidation bonus", path, asset.Symbol)
		}
		table[asset.Address] = asset
	}
	return table, nil
}

// LoadFeedTable reads the feed table: a JSON object mapping each price
// feed's forwarded-to address to the reserve assets it prices.
func LoadFeedTable(path string) (map[common.Address][]common.Address, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed table: %w", err)
	}
	var table map[common.Address][]common.Address
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse feed table %s: %w", path, err)
	}
	return table, nil
}

// LoadUserSnapshot reads the bootstrap list of protocol user addresses.
func LoadUserSnapshot(path string) ([]common.Address, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read user snapshot: %w", err)
	}
	var users []common.Address
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("parse user snapshot %s: %w", path, err)
	}
	return users, nil
}
