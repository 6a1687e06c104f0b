package topology

// =============================================================================
// Kinds - Canonical Device Classification
// =============================================================================

// Canonical node kinds. Canonicalizers normalize their source-specific role
// and product-type hints into this vocabulary; anything unresolved falls back
// to KindDevice.
const (
	KindGateway     = "gateway"
	KindSwitch      = "switch"
	KindAccessPoint = "ap"
	KindServer      = "server"
	KindCamera      = "camera"
	KindSensor      = "sensor"
	KindPhone       = "phone"
	KindInterface   = "interface"
	KindDevice      = "device"
)

// kindLayers is the fixed kind→layer table for the hierarchical layout:
// perimeter devices (gateways, firewalls, routers) at the top row, the
// switching fabric one row below, access points beside the switches they
// hang off, endpoints below that, and sub-device interfaces last.
var kindLayers = map[string]int{
	KindGateway:     0,
	KindSwitch:      1,
	KindAccessPoint: 1,
	KindServer:      2,
	KindCamera:      2,
	KindSensor:      2,
	KindPhone:       2,
	KindDevice:      2,
	KindInterface:   3,
}

// defaultLayer is assigned to kinds outside the table.
const defaultLayer = 2

// LayerFor returns the hierarchical layer for a kind.
func LayerFor(kind string) int {
	if layer, ok := kindLayers[kind]; ok {
		return layer
	}
	return defaultLayer
}
