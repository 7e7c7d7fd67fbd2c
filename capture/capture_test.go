package capture

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "dfilter/entity"
)

func get(t *testing.T, rec nt.Record, key string) string {
	t.Helper()

	val, ok := rec.Get(key)
	require.True(t, ok, "missing %s", key)
	return val.String()
}

func serialize(t *testing.T, lyrs ...gopacket.SerializableLayer) []byte {
	t.Helper()

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, lyrs...))
	return buf.Bytes()
}

func samplePcap(t *testing.T) []byte {
	t.Helper()

	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 1},
		DstMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 2},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.IP{10, 0, 0, 1},
		DstIP:    net.IP{8, 8, 8, 8},
	}
	tcp := &layers.TCP{SrcPort: 51000, DstPort: 443, SYN: true, Seq: 1, Window: 1024}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	syn := serialize(t, eth, ip, tcp)

	ip2 := *ip
	ip2.Protocol = layers.IPProtocolUDP
	udp := &layers.UDP{SrcPort: 5353, DstPort: 53}
	require.NoError(t, udp.SetNetworkLayerForChecksum(&ip2))
	dns := &layers.DNS{
		ID: 0xabcd,
		RD: true,
		Questions: []layers.DNSQuestion{
			{Name: []byte("example.com"), Type: layers.DNSTypeA, Class: layers.DNSClassIN},
		},
	}
	query := serialize(t, eth, &ip2, udp, dns)

	var out bytes.Buffer
	wtr := pcapgo.NewWriter(&out)
	require.NoError(t, wtr.WriteFileHeader(65535, layers.LinkTypeEthernet))

	start := time.Unix(1700000000, 0)
	for idx, data := range [][]byte{syn, query} {
		ci := gopacket.CaptureInfo{
			Timestamp:     start.Add(time.Duration(idx) * 1500 * time.Millisecond),
			CaptureLength: len(data),
			Length:        len(data),
		}
		require.NoError(t, wtr.WritePacket(ci, data))
	}

	return out.Bytes()
}

func TestReadPcap(t *testing.T) {

	result, err := Read(bytes.NewReader(samplePcap(t)))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	syn := result.Records[0]
	assert.Equal(t, "0.000000", get(t, syn, "time"))
	assert.Equal(t, "10.0.0.1", get(t, syn, "source"))
	assert.Equal(t, "8.8.8.8", get(t, syn, "destination"))
	assert.Equal(t, "TCP", get(t, syn, "protocol"))
	assert.Equal(t, "54", get(t, syn, "length"))
	assert.Equal(t, "51000 → 443 [SYN] Seq=1 Ack=0 Win=1024 Len=0", get(t, syn, "info"))
	assert.Equal(t, "443", get(t, syn, "dstport"))

	dns := result.Records[1]
	assert.Equal(t, "1.500000", get(t, dns, "time"))
	assert.Equal(t, "DNS", get(t, dns, "protocol"))
	assert.Equal(t, "Standard query 0xabcd A example.com", get(t, dns, "info"))
	assert.Equal(t, "53", get(t, dns, "dstport"))
}

func TestReadFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "sample.pcap")
	require.NoError(t, os.WriteFile(path, samplePcap(t), 0600))

	result, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "absent.pcap"))
	assert.ErrorContains(t, err, "failed to open")
}

// shape emitted by the wasm dissection core
const coreResult = `{
  "packets": [{
    "time": "0.000000",
    "source": "upload",
    "destination": "—",
    "protocol": "RAW",
    "length": 5,
    "info": "{\"info\":\"Analyzed payload\",\"summary\":\"Analyzed payload\",\"time\":\"0.000000\",\"src\":\"upload\",\"dst\":\"—\",\"protocol\":\"RAW\",\"length\":5,\"hex_preview\":\"68 65 6C 6C 6F\",\"ascii_preview\":\"hello\"}",
    "payload": [104, 101, 108, 108, 111]
  }],
  "warnings": [],
  "errors": []
}`

func TestDecodeResult(t *testing.T) {

	result, err := Read(strings.NewReader(coreResult))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Warnings)

	rec := result.Records[0]
	var names []string
	for _, fld := range rec.Fields() {
		names = append(names, fld.Name)
	}
	assert.Equal(t, []string{
		"time", "source", "destination", "protocol", "length", "info", "summary",
		"ascii_preview", "hex_preview",
	}, names)

	assert.Equal(t, "Analyzed payload", get(t, rec, "info"))
	assert.Equal(t, "5", get(t, rec, "length"))
	assert.Equal(t, "hello", get(t, rec, "ascii_preview"))
	assert.False(t, rec.Has("payload"))
}

func TestDecodeResultArray(t *testing.T) {

	result, err := DecodeResult(strings.NewReader(`[
		{"src": "10.0.0.1", "dst": "10.0.0.2", "proto": "UDP", "len": 60, "info": "query", "vlan": 7, "retransmit": true}
	]`))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.Equal(t, "10.0.0.1", get(t, rec, "source"))
	assert.Equal(t, "UDP", get(t, rec, "protocol"))
	assert.Equal(t, "60", get(t, rec, "length"))
	assert.Equal(t, "7", get(t, rec, "vlan"))
	assert.Equal(t, "true", get(t, rec, "retransmit"))
}

func TestDecodeResultWarnings(t *testing.T) {

	result, err := DecodeResult(strings.NewReader(`{"packets":[],"warnings":["Empty payload provided"],"errors":[]}`))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, []string{"Empty payload provided"}, result.Warnings)
}

func TestDecodeResultMalformed(t *testing.T) {

	_, err := DecodeResult(strings.NewReader(`{"packets": [`))
	assert.ErrorContains(t, err, "failed to unmarshal dissection result")
}
