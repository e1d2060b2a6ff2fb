package settings

import (
	"testing"
)

func uintPtr(v uint64) *uint64 {
	return &v
}

func testDocument() *Document {
	return &Document{
		Networks: map[string]Network{
			"Alpha": {Name: "Alpha", ChainID: uintPtr(10), RPCs: []string{"u1", "u1", "u2"}},
		},
		Orderbooks: map[string]Orderbook{
			"Alpha": {Name: "Alpha", Address: "0xabc", DeploymentBlock: uintPtr(500)},
		},
	}
}

func TestBuildConfigsAlphaExample(t *testing.T) {
	configs, skips := BuildConfigs(testDocument(), nil)

	if len(skips) != 0 {
		t.Fatalf("Expected no skips, got %+v", skips)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected one config, got %d", len(configs))
	}

	config := configs[0]
	if config.Orderbook != "Alpha" {
		t.Errorf("Expected orderbook Alpha, got %q", config.Orderbook)
	}
	if config.ChainID != 10 {
		t.Errorf("Expected chain id 10, got %d", config.ChainID)
	}
	if config.Address != "0xabc" {
		t.Errorf("Expected address 0xabc, got %q", config.Address)
	}
	if config.DeploymentBlock != 500 {
		t.Errorf("Expected deployment block 500, got %d", config.DeploymentBlock)
	}
	if len(config.RPCs) != 2 || config.RPCs[0] != "u1" || config.RPCs[1] != "u2" {
		t.Errorf("Expected deduplicated endpoints [u1 u2], got %v", config.RPCs)
	}
}

func TestBuildConfigsSkipReasons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
		reason string
	}{
		{
			name: "missing network",
			mutate: func(doc *Document) {
				delete(doc.Networks, "Alpha")
			},
			reason: ReasonNoNetwork,
		},
		{
			name: "network missing chain id",
			mutate: func(doc *Document) {
				network := doc.Networks["Alpha"]
				network.ChainID = nil
				doc.Networks["Alpha"] = network
			},
			reason: ReasonNoChainID,
		},
		{
			name: "orderbook missing address",
			mutate: func(doc *Document) {
				orderbook := doc.Orderbooks["Alpha"]
				orderbook.Address = ""
				doc.Orderbooks["Alpha"] = orderbook
			},
			reason: ReasonIncompleteData,
		},
		{
			name: "orderbook missing deployment block",
			mutate: func(doc *Document) {
				orderbook := doc.Orderbooks["Alpha"]
				orderbook.DeploymentBlock = nil
				doc.Orderbooks["Alpha"] = orderbook
			},
			reason: ReasonIncompleteData,
		},
		{
			name: "rpcs empty after trimming",
			mutate: func(doc *Document) {
				network := doc.Networks["Alpha"]
				network.RPCs = []string{"", "   "}
				doc.Networks["Alpha"] = network
			},
			reason: ReasonNoRPCEndpoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDocument()
			tt.mutate(doc)

			configs, skips := BuildConfigs(doc, nil)
			if len(configs) != 0 {
				t.Fatalf("Expected no configs, got %+v", configs)
			}
			if len(skips) != 1 {
				t.Fatalf("Expected exactly one skip, got %+v", skips)
			}
			if skips[0].Orderbook != "Alpha" {
				t.Errorf("Expected skip for Alpha, got %q", skips[0].Orderbook)
			}
			if skips[0].Reason != tt.reason {
				t.Errorf("Expected reason %q, got %q", tt.reason, skips[0].Reason)
			}
		})
	}
}

func TestBuildConfigsSkipDoesNotAffectSiblings(t *testing.T) {
	doc := testDocument()
	doc.Networks["Beta"] = Network{Name: "Beta", ChainID: uintPtr(20), RPCs: []string{"b1"}}
	doc.Orderbooks["Beta"] = Orderbook{Name: "Beta", DeploymentBlock: uintPtr(1)}

	configs, skips := BuildConfigs(doc, nil)
	if len(configs) != 1 || configs[0].Orderbook != "Alpha" {
		t.Fatalf("Expected Alpha to survive Beta's exclusion, got %+v", configs)
	}
	if len(skips) != 1 || skips[0].Orderbook != "Beta" || skips[0].Reason != ReasonIncompleteData {
		t.Fatalf("Expected one incomplete-data skip for Beta, got %+v", skips)
	}
}

func TestBuildConfigsSelectionIsCaseInsensitive(t *testing.T) {
	doc := testDocument()
	doc.Networks["Beta"] = Network{Name: "Beta", ChainID: uintPtr(20), RPCs: []string{"b1"}}
	doc.Orderbooks["Beta"] = Orderbook{Name: "Beta", Address: "0xdef", DeploymentBlock: uintPtr(1)}

	configs, skips := BuildConfigs(doc, []string{"ALPHA"})
	if len(skips) != 0 {
		t.Fatalf("Expected no skips, got %+v", skips)
	}
	if len(configs) != 1 || configs[0].Orderbook != "Alpha" {
		t.Fatalf("Expected only Alpha selected, got %+v", configs)
	}
}

func TestBuildConfigsOrderedByName(t *testing.T) {
	doc := testDocument()
	doc.Networks["Beta"] = Network{Name: "Beta", ChainID: uintPtr(20), RPCs: []string{"b1"}}
	doc.Orderbooks["Beta"] = Orderbook{Name: "Beta", Address: "0xdef", DeploymentBlock: uintPtr(1)}

	configs, _ := BuildConfigs(doc, nil)
	if len(configs) != 2 || configs[0].Orderbook != "Alpha" || configs[1].Orderbook != "Beta" {
		t.Fatalf("Expected deterministic name order, got %+v", configs)
	}
}
