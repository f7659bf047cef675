// Package integration provides network presets for restoring rollup blocks
// from a base chain. A preset bundles the settings that differ between
// deployments (chain ID, rollup contract address, default RPC endpoint) into a
// named profile so operators can point the restore tool at a network with a
// single --network flag.
//
// Usage:
//
//	preset := integration.MainnetPreset()   // production deployment
//	preset := integration.RinkebyPreset()   // public testnet
//	preset := integration.LocalhostPreset() // local dev chain
//
// Explicit --rpc.url and --contract flags take precedence over the preset.
package integration

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NetworkPreset captures what the restore tool needs to know about a rollup
// deployment.
type NetworkPreset struct {
	Name            string         // identifier used by --network
	ChainID         uint64         // base chain ID
	ContractAddress common.Address // rollup contract receiving commitBlocks calls
	RPCURL          string         // default JSON-RPC endpoint of the base chain
}

// MainnetPreset returns the Ethereum mainnet deployment.
func MainnetPreset() NetworkPreset {
	return NetworkPreset{
		Name:            "mainnet",
		ChainID:         1,
		ContractAddress: common.HexToAddress("0xaBEA9132b05A70803a4E85094fD0e1800777fBEF"),
		RPCURL:          "https://cloudflare-eth.com",
	}
}

// RinkebyPreset returns the Rinkeby testnet deployment.
func RinkebyPreset() NetworkPreset {
	return NetworkPreset{
		Name:            "rinkeby",
		ChainID:         4,
		ContractAddress: common.HexToAddress("0x82F67958A5474e40E1485742d648C0b0686b6e5D"),
		RPCURL:          "https://rinkeby.infura.io/v3",
	}
}

// LocalhostPreset returns a local development chain. The contract address is
// left zero since it changes with every deployment and must be supplied with
// --contract.
func LocalhostPreset() NetworkPreset {
	return NetworkPreset{
		Name:    "localhost",
		ChainID: 9,
		RPCURL:  "http://127.0.0.1:8545",
	}
}

// PresetNames lists the names accepted by GetPresetByName.
func PresetNames() []string {
	return []string{"mainnet", "rinkeby", "localhost"}
}

// GetPresetByName looks up a preset by its identifier, ignoring case.
//
// Example:
//
//	preset, err := integration.GetPresetByName("rinkeby")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetPresetByName(name string) (NetworkPreset, error) {
	switch strings.ToLower(name) {
	case "mainnet":
		return MainnetPreset(), nil
	case "rinkeby":
		return RinkebyPreset(), nil
	case "localhost":
		return LocalhostPreset(), nil
	default:
		return NetworkPreset{}, fmt.Errorf("unknown network: %q (valid: %s)", name, strings.Join(PresetNames(), ", "))
	}
}

// ApplyPreset copies the non-zero fields of preset into target.
//
// Example:
//
//	net := integration.LocalhostPreset()
//	integration.ApplyPreset(&net, integration.NetworkPreset{RPCURL: "http://node:8545"})
func ApplyPreset(target *NetworkPreset, preset NetworkPreset) {
	if preset.Name != "" {
		target.Name = preset.Name
	}
	if preset.ChainID != 0 {
		target.ChainID = preset.ChainID
	}
	if preset.ContractAddress != (common.Address{}) {
		target.ContractAddress = preset.ContractAddress
	}
	if preset.RPCURL != "" {
		target.RPCURL = preset.RPCURL
	}
}
