package db

// WELL_KNOWN are mainnet labels every installation has.
var WELL_KNOWN = map[string]string{
	"0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e": "ENS Registry",
	"0x231b0Ee14048e9dCcD1d247744d114a4EB5E8E63": "ENS Public Resolver",
	"0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2": "WETH",
	"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48": "USDC",
	"0xdAC17F958D2ee523a2206206994597C13D831ec7": "USDT",
	"0x6B175474E89094C44Da98b954EedeAC495271d0F": "DAI",
	"0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D": "Uniswap V2 Router",
	"0xcA11bde05977b3631167028862bE2a173976CA11": "Multicall3",
}
