package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurevia/walletsync/pkg/config"
)

const validNetworksYAML = `
networks:
  - chain_id: 1
    name: Ethereum Mainnet
    native_currency:
      name: Ether
      symbol: ETH
      decimals: 18
    rpc_urls:
      - https://eth.llamarpc.com
      - https://rpc.ankr.com/eth
    explorer_url: https://etherscan.io
  - chain_id: 137
    name: Polygon
    native_currency:
      name: POL
      symbol: POL
      decimals: 18
    rpc_urls:
      - https://polygon-rpc.com
    explorer_url: https://polygonscan.com
`

func TestParseNetworksConfig_Valid(t *testing.T) {
	cfg, err := config.ParseNetworksConfig([]byte(validNetworksYAML))
	require.NoError(t, err)
	require.Len(t, cfg.Networks, 2)

	mainnet, ok := cfg.GetNetwork(1)
	require.True(t, ok)
	assert.Equal(t, "Ethereum Mainnet", mainnet.Name)
	assert.Equal(t, "ETH", mainnet.NativeCurrency.Symbol)
	assert.Equal(t, 18, mainnet.NativeCurrency.Decimals)
	assert.Len(t, mainnet.RPCURLs, 2)
	assert.Equal(t, "https://etherscan.io", mainnet.ExplorerURL)

	assert.True(t, cfg.IsSupported(137))
	assert.False(t, cfg.IsSupported(56))

	_, ok = cfg.GetNetwork(56)
	assert.False(t, ok)

	assert.ElementsMatch(t, []int64{1, 137}, cfg.ChainIDs())
}

func TestParseNetworksConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "{{nope",
			wantErr: "failed to parse networks config",
		},
		{
			name:    "no networks",
			yaml:    "networks: []",
			wantErr: "at least one network must be configured",
		},
		{
			name: "zero chain id",
			yaml: `
networks:
  - chain_id: 0
    name: Broken
    native_currency: {name: X, symbol: X, decimals: 18}
    rpc_urls: [https://example.com]
`,
			wantErr: "invalid chain_id",
		},
		{
			name: "missing name",
			yaml: `
networks:
  - chain_id: 1
    native_currency: {name: X, symbol: X, decimals: 18}
    rpc_urls: [https://example.com]
`,
			wantErr: "network name is required",
		},
		{
			name: "missing symbol",
			yaml: `
networks:
  - chain_id: 1
    name: Ethereum
    native_currency: {name: Ether, decimals: 18}
    rpc_urls: [https://example.com]
`,
			wantErr: "native currency symbol is required",
		},
		{
			name: "zero decimals",
			yaml: `
networks:
  - chain_id: 1
    name: Ethereum
    native_currency: {name: Ether, symbol: ETH}
    rpc_urls: [https://example.com]
`,
			wantErr: "decimals must be positive",
		},
		{
			name: "no rpc urls",
			yaml: `
networks:
  - chain_id: 1
    name: Ethereum
    native_currency: {name: Ether, symbol: ETH, decimals: 18}
    rpc_urls: []
`,
			wantErr: "at least one rpc_url is required",
		},
		{
			name: "duplicate chain id",
			yaml: `
networks:
  - chain_id: 1
    name: Ethereum
    native_currency: {name: Ether, symbol: ETH, decimals: 18}
    rpc_urls: [https://example.com]
  - chain_id: 1
    name: Ethereum Again
    native_currency: {name: Ether, symbol: ETH, decimals: 18}
    rpc_urls: [https://example.com]
`,
			wantErr: "duplicate chain_id 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseNetworksConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadNetworksConfig_MissingFile(t *testing.T) {
	_, err := config.LoadNetworksConfig("/nonexistent/networks.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read networks config file")
}
