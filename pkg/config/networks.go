package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NativeCurrency describes the native currency of an EVM network
type NativeCurrency struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
}

// Network represents a supported EVM network configuration.
// It carries the full descriptor required to register the network with a
// wallet provider that does not recognize the chain.
type Network struct {
	ChainID        int64          `yaml:"chain_id"`
	Name           string         `yaml:"name"`
	NativeCurrency NativeCurrency `yaml:"native_currency"`
	RPCURLs        []string       `yaml:"rpc_urls"`
	ExplorerURL    string         `yaml:"explorer_url"`
}

// NetworksConfig holds all supported networks
type NetworksConfig struct {
	Networks []Network `yaml:"networks"`

	// Lookup map for fast access
	byChainID map[int64]*Network
}

// LoadNetworksConfig loads network configuration from a YAML file
func LoadNetworksConfig(path string) (*NetworksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks config file: %w", err)
	}

	return ParseNetworksConfig(data)
}

// ParseNetworksConfig parses network configuration from YAML bytes
func ParseNetworksConfig(data []byte) (*NetworksConfig, error) {
	var config NetworksConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse networks config: %w", err)
	}

	config.buildIndex()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *NetworksConfig) buildIndex() {
	c.byChainID = make(map[int64]*Network, len(c.Networks))
	for i := range c.Networks {
		network := &c.Networks[i]
		c.byChainID[network.ChainID] = network
	}
}

// Validate validates the networks configuration
func (c *NetworksConfig) Validate() error {
	if len(c.Networks) == 0 {
		return fmt.Errorf("at least one network must be configured")
	}

	seen := make(map[int64]bool)
	for _, network := range c.Networks {
		if network.ChainID <= 0 {
			return fmt.Errorf("invalid chain_id for network %s", network.Name)
		}
		if network.Name == "" {
			return fmt.Errorf("network name is required for chain_id %d", network.ChainID)
		}
		if network.NativeCurrency.Symbol == "" {
			return fmt.Errorf("native currency symbol is required for network %s", network.Name)
		}
		if network.NativeCurrency.Decimals <= 0 {
			return fmt.Errorf("native currency decimals must be positive for network %s", network.Name)
		}
		if len(network.RPCURLs) == 0 {
			return fmt.Errorf("at least one rpc_url is required for network %s", network.Name)
		}
		if seen[network.ChainID] {
			return fmt.Errorf("duplicate chain_id %d", network.ChainID)
		}
		seen[network.ChainID] = true
	}

	return nil
}

// GetNetwork returns the network configuration for a given chain ID
func (c *NetworksConfig) GetNetwork(chainID int64) (*Network, bool) {
	network, ok := c.byChainID[chainID]
	return network, ok
}

// IsSupported checks if a chain ID is supported
func (c *NetworksConfig) IsSupported(chainID int64) bool {
	_, ok := c.byChainID[chainID]
	return ok
}

// ChainIDs returns all configured chain IDs
func (c *NetworksConfig) ChainIDs() []int64 {
	ids := make([]int64, 0, len(c.Networks))
	for _, network := range c.Networks {
		ids = append(ids, network.ChainID)
	}
	return ids
}
