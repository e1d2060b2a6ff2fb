package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Skip reasons emitted by BuildConfigs. These are data-quality
// diagnostics; the affected orderbook is excluded and the build
// continues.
const (
	ReasonNoNetwork      = "no network configured for orderbook"
	ReasonNoChainID      = "network missing chain id"
	ReasonIncompleteData = "orderbook data incomplete"
	ReasonNoRPCEndpoints = "no usable rpc endpoints"
)

var validate = validator.New()

// BuildConfigs joins the parsed networks and orderbooks into validated
// per-orderbook sync configurations. selection filters orderbooks by
// name, case-insensitively; an empty selection considers all of them.
// Every excluded orderbook produces exactly one Skip diagnostic.
func BuildConfigs(doc *Document, selection []string) ([]SyncConfig, []Skip) {
	selected := make(map[string]bool, len(selection))
	for _, name := range selection {
		name = strings.TrimSpace(name)
		if name != "" {
			selected[strings.ToLower(name)] = true
		}
	}

	names := make([]string, 0, len(doc.Orderbooks))
	for name := range doc.Orderbooks {
		if len(selected) > 0 && !selected[strings.ToLower(name)] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var configs []SyncConfig
	var skips []Skip
	for _, name := range names {
		orderbook := doc.Orderbooks[name]

		config, reason := buildConfig(doc, orderbook)
		if reason != "" {
			skips = append(skips, Skip{Orderbook: name, Reason: reason})
			continue
		}
		configs = append(configs, config)
	}

	return configs, skips
}

// buildConfig applies the exclusion rules in order, each short-
// circuiting further checks for that orderbook.
func buildConfig(doc *Document, orderbook Orderbook) (SyncConfig, string) {
	network, ok := doc.Networks[orderbook.Name]
	if !ok {
		return SyncConfig{}, ReasonNoNetwork
	}
	if network.ChainID == nil {
		return SyncConfig{}, ReasonNoChainID
	}
	if orderbook.Address == "" || orderbook.DeploymentBlock == nil {
		return SyncConfig{}, ReasonIncompleteData
	}

	rpcs := dedupeRPCs(network.RPCs)
	if len(rpcs) == 0 {
		return SyncConfig{}, ReasonNoRPCEndpoints
	}

	config := SyncConfig{
		Orderbook:       orderbook.Name,
		ChainID:         *network.ChainID,
		Address:         orderbook.Address,
		DeploymentBlock: *orderbook.DeploymentBlock,
		RPCs:            rpcs,
	}
	if err := validate.Struct(config); err != nil {
		return SyncConfig{}, fmt.Sprintf("invalid sync config: %v", err)
	}
	return config, ""
}

// dedupeRPCs trims entries, drops blanks, and removes duplicates while
// preserving first-seen order.
func dedupeRPCs(rpcs []string) []string {
	seen := make(map[string]bool, len(rpcs))
	var out []string
	for _, rpc := range rpcs {
		rpc = strings.TrimSpace(rpc)
		if rpc == "" || seen[rpc] {
			continue
		}
		seen[rpc] = true
		out = append(out, rpc)
	}
	return out
}
