package opnconfig

import (
	"testing"

	"github.com/rileyhilliard/fwdash/internal/errors"
	sshtest "github.com/rileyhilliard/fwdash/pkg/sshutil/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `<?xml version="1.0"?>
<opnsense>
  <version>24.7</version>
  <interfaces>
    <wan>
      <enable>1</enable>
      <if>igb0</if>
      <ipaddr>dhcp</ipaddr>
    </wan>
    <lan>
      <enable>1</enable>
      <if>igb1</if>
      <ipaddr>192.168.1.1</ipaddr>
    </lan>
    <opt1>
      <if>igb2</if>
    </opt1>
    <openvpn>
      <internal_dynamic>1</internal_dynamic>
      <if>openvpn</if>
    </openvpn>
    <lo0>
      <internal_dynamic>1</internal_dynamic>
      <if>lo0</if>
    </lo0>
  </interfaces>
  <gateways>
    <gateway_item>
      <interface>wan</interface>
      <gateway>dynamic</gateway>
      <name>WAN_GW</name>
    </gateway_item>
    <gateway_item>
      <interface>wan</interface>
      <name>WAN_DHCP6</name>
    </gateway_item>
    <gateway_item>
      <interface>opt1</interface>
      <name>BACKUP_GW</name>
    </gateway_item>
  </gateways>
</opnsense>`

func TestParse(t *testing.T) {
	topo, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"igb0", "igb2"}, topo.GatewayInterfaces)
	assert.Equal(t, []string{"igb1"}, topo.OtherInterfaces)
	assert.Equal(t, []string{"BACKUP_GW", "WAN_DHCP6", "WAN_GW"}, topo.Gateways)
	assert.Equal(t, []string{"igb0", "igb2", "igb1"}, topo.Interfaces())
}

func TestParse_GatewayOnUnknownInterface(t *testing.T) {
	doc := `<opnsense><interfaces><wan><if>igb0</if></wan></interfaces>
<gateways><gateway_item><name>WAN_GW</name><interface>opt9</interface></gateway_item></gateways></opnsense>`

	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTopology))
	assert.Contains(t, err.Error(), "gateway WAN_GW is defined on interface opt9 but this interface does not exist")
}

func TestParse_GatewayOnInternalDynamicInterface(t *testing.T) {
	doc := `<opnsense><interfaces><ovpn><if>ovpns1</if><internal_dynamic>1</internal_dynamic></ovpn></interfaces>
<gateways><gateway_item><name>VPN_GW</name><interface>ovpn</interface></gateway_item></gateways></opnsense>`

	_, err := Parse([]byte(doc))
	assert.True(t, errors.IsCode(err, errors.ErrTopology))
}

func TestParse_MissingSections(t *testing.T) {
	tests := map[string]string{
		"no interfaces":        `<opnsense><gateways/></opnsense>`,
		"no gateways":          `<opnsense><interfaces/></opnsense>`,
		"interface no if":      `<opnsense><interfaces><wan><enable>1</enable></wan></interfaces><gateways/></opnsense>`,
		"gateway no name":      `<opnsense><interfaces/><gateways><gateway_item><interface>wan</interface></gateway_item></gateways></opnsense>`,
		"gateway no interface": `<opnsense><interfaces/><gateways><gateway_item><name>GW</name></gateway_item></gateways></opnsense>`,
		"not xml":              `{"json": true}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.True(t, errors.IsCode(err, errors.ErrTopology))
		})
	}
}

func TestParse_NoGateways(t *testing.T) {
	topo, err := Parse([]byte(`<opnsense><interfaces><lan><if>em0</if></lan></interfaces><gateways/></opnsense>`))
	require.NoError(t, err)
	assert.Empty(t, topo.GatewayInterfaces)
	assert.Empty(t, topo.Gateways)
	assert.Equal(t, []string{"em0"}, topo.OtherInterfaces)
}

func TestDiscover(t *testing.T) {
	m := sshtest.NewMockClient("fw")
	m.SetFile(ConfigPath, []byte(sampleConfig))

	topo, err := Discover(m)
	require.NoError(t, err)
	assert.Len(t, topo.Gateways, 3)

	_, err = Discover(sshtest.NewMockClient("empty"))
	assert.Error(t, err)
}
