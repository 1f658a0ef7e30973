// Package opnconfig discovers the appliance's interfaces and gateways from
// its configuration document. Discovery runs once at startup; a topology
// change needs a restart.
package opnconfig

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/remote"
)

// ConfigPath is the appliance's configuration document.
const ConfigPath = "/conf/config.xml"

// Topology is what the dashboard monitors.
type Topology struct {
	// GatewayInterfaces are the physical interfaces (e.g. "igb0") that carry
	// a gateway, sorted. Firewall logs are scoped to these.
	GatewayInterfaces []string
	// OtherInterfaces are the remaining physical interfaces, ordered by
	// their logical name (lan, opt1, ...). Internal dynamic interfaces are left out.
	OtherInterfaces []string
	// Gateways are the configured gateway names, sorted.
	Gateways []string
}

// Interfaces returns every monitored interface, gateway interfaces first.
func (t *Topology) Interfaces() []string {
	out := make([]string, 0, len(t.GatewayInterfaces)+len(t.OtherInterfaces))
	out = append(out, t.GatewayInterfaces...)
	return append(out, t.OtherInterfaces...)
}

type document struct {
	Interfaces *struct {
		Items []interfaceNode `xml:",any"`
	} `xml:"interfaces"`
	Gateways *struct {
		Items []gatewayNode `xml:"gateway_item"`
	} `xml:"gateways"`
}

type interfaceNode struct {
	XMLName         xml.Name
	If              *string `xml:"if"`
	InternalDynamic string  `xml:"internal_dynamic"`
}

type gatewayNode struct {
	Name      *string `xml:"name"`
	Interface *string `xml:"interface"`
}

// Discover reads and parses the configuration document.
func Discover(f remote.FileReader) (*Topology, error) {
	data, err := f.ReadFile(ConfigPath)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds the topology from a configuration document.
func Parse(data []byte) (*Topology, error) {
	var doc document
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTopology,
			fmt.Sprintf("%s is not valid XML", ConfigPath), "")
	}
	if doc.Interfaces == nil {
		return nil, topologyErr("interfaces not found in config.xml")
	}
	if doc.Gateways == nil {
		return nil, topologyErr("gateways not found in config.xml")
	}

	// logical name -> physical interface
	physical := make(map[string]string, len(doc.Interfaces.Items))
	for _, node := range doc.Interfaces.Items {
		if node.If == nil {
			return nil, topologyErr(fmt.Sprintf("interfaces.%s.if not found in config.xml", node.XMLName.Local))
		}
		if node.InternalDynamic == "1" {
			continue
		}
		physical[node.XMLName.Local] = *node.If
	}

	// gateway name -> logical interface
	gatewayIface := make(map[string]string, len(doc.Gateways.Items))
	for _, node := range doc.Gateways.Items {
		if node.Name == nil {
			return nil, topologyErr("gateways.gateway_item.name not found in config.xml")
		}
		if node.Interface == nil {
			return nil, topologyErr("gateways.gateway_item.interface not found in config.xml")
		}
		gatewayIface[*node.Name] = *node.Interface
	}

	topo := &Topology{}
	gatewaySet := make(map[string]bool)
	boundLogical := make(map[string]bool)
	for _, name := range sortedKeys(gatewayIface) {
		logical := gatewayIface[name]
		iface, ok := physical[logical]
		if !ok {
			return nil, topologyErr(fmt.Sprintf(
				"gateway %s is defined on interface %s but this interface does not exist", name, logical))
		}
		topo.Gateways = append(topo.Gateways, name)
		boundLogical[logical] = true
		if !gatewaySet[iface] {
			gatewaySet[iface] = true
			topo.GatewayInterfaces = append(topo.GatewayInterfaces, iface)
		}
	}
	sort.Strings(topo.GatewayInterfaces)

	for _, logical := range sortedKeys(physical) {
		if !boundLogical[logical] {
			topo.OtherInterfaces = append(topo.OtherInterfaces, physical[logical])
		}
	}
	return topo, nil
}

func topologyErr(msg string) error {
	return errors.New(errors.ErrTopology, msg, "Check the appliance configuration under Interfaces and System > Gateways.")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
