package capture

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	nt "dfilter/entity"
)

// Dissect summarizes a decoded packet as a record.
// elapsed is seconds since the first packet of the capture.
func Dissect(pkt gopacket.Packet, elapsed float64) nt.Record {

	sum := summarize(pkt)

	fields := []nt.Field{
		{Name: nt.KeyTime, Value: nt.Str(fmt.Sprintf("%.6f", elapsed))},
		{Name: nt.KeySource, Value: nt.Str(sum.src)},
		{Name: nt.KeyDestination, Value: nt.Str(sum.dst)},
		{Name: nt.KeyProtocol, Value: nt.Str(sum.protocol)},
		{Name: nt.KeyLength, Value: nt.Num(float64(pkt.Metadata().Length))},
		{Name: nt.KeyInfo, Value: nt.Str(sum.info)},
		{Name: nt.KeySummary, Value: nt.Str(sum.info)},
	}
	if sum.srcPort != "" {
		fields = append(fields,
			nt.Field{Name: "srcport", Value: nt.Str(sum.srcPort)},
			nt.Field{Name: "dstport", Value: nt.Str(sum.dstPort)},
		)
	}

	return nt.NewRecord(fields...)
}

type summary struct {
	protocol string
	src      string
	dst      string
	srcPort  string
	dstPort  string
	info     string
}

// summarize walks the layers from link to application, the last
// recognised layer naming the protocol and info.
func summarize(pkt gopacket.Packet) (sum summary) {

	sum.protocol = "RAW"
	sum.info = fmt.Sprintf("%d bytes", pkt.Metadata().Length)

	if eth, ok := pkt.LinkLayer().(*layers.Ethernet); ok {
		sum.protocol = "ETH"
		sum.src = eth.SrcMAC.String()
		sum.dst = eth.DstMAC.String()
		sum.info = eth.EthernetType.String()
	}

	if arp, ok := pkt.Layer(layers.LayerTypeARP).(*layers.ARP); ok {
		sum.protocol = "ARP"
		sum.src = ipString(arp.SourceProtAddress)
		sum.dst = ipString(arp.DstProtAddress)
		switch arp.Operation {
		case layers.ARPRequest:
			sum.info = fmt.Sprintf("Who has %s? Tell %s", sum.dst, sum.src)
		case layers.ARPReply:
			sum.info = fmt.Sprintf("%s is at %x", sum.src, arp.SourceHwAddress)
		}
		return
	}

	switch ip := pkt.NetworkLayer().(type) {
	case *layers.IPv4:
		sum.protocol = "IPv4"
		sum.src = ip.SrcIP.String()
		sum.dst = ip.DstIP.String()
		sum.info = ip.Protocol.String()
	case *layers.IPv6:
		sum.protocol = "IPv6"
		sum.src = ip.SrcIP.String()
		sum.dst = ip.DstIP.String()
		sum.info = ip.NextHeader.String()
	}

	switch tr := pkt.TransportLayer().(type) {
	case *layers.TCP:
		sum.protocol = "TCP"
		sum.srcPort = fmt.Sprintf("%d", tr.SrcPort)
		sum.dstPort = fmt.Sprintf("%d", tr.DstPort)
		sum.info = fmt.Sprintf("%d → %d [%s] Seq=%d Ack=%d Win=%d Len=%d",
			tr.SrcPort, tr.DstPort, tcpFlags(tr), tr.Seq, tr.Ack, tr.Window, len(tr.Payload))
	case *layers.UDP:
		sum.protocol = "UDP"
		sum.srcPort = fmt.Sprintf("%d", tr.SrcPort)
		sum.dstPort = fmt.Sprintf("%d", tr.DstPort)
		sum.info = fmt.Sprintf("%d → %d Len=%d", tr.SrcPort, tr.DstPort, len(tr.Payload))
	}

	if icmp, ok := pkt.Layer(layers.LayerTypeICMPv4).(*layers.ICMPv4); ok {
		sum.protocol = "ICMP"
		sum.info = fmt.Sprintf("%s id=%d seq=%d", icmp.TypeCode, icmp.Id, icmp.Seq)
	}

	if dns, ok := pkt.Layer(layers.LayerTypeDNS).(*layers.DNS); ok {
		sum.protocol = "DNS"
		sum.info = dnsInfo(dns)
		return
	}

	if app := pkt.ApplicationLayer(); app != nil && isHTTP(app.Payload()) {
		sum.protocol = "HTTP"
		line, _, _ := bytes.Cut(app.Payload(), []byte("\r\n"))
		sum.info = string(line)
	}

	return
}

func tcpFlags(tcp *layers.TCP) string {

	var flags []string
	for _, flag := range []struct {
		set  bool
		name string
	}{
		{tcp.SYN, "SYN"}, {tcp.FIN, "FIN"}, {tcp.RST, "RST"},
		{tcp.PSH, "PSH"}, {tcp.ACK, "ACK"}, {tcp.URG, "URG"},
	} {
		if flag.set {
			flags = append(flags, flag.name)
		}
	}
	return strings.Join(flags, ", ")
}

func dnsInfo(dns *layers.DNS) string {

	kind := "Standard query"
	if dns.QR {
		kind = "Standard query response"
	}

	var questions []string
	for _, qst := range dns.Questions {
		questions = append(questions, fmt.Sprintf("%s %s", qst.Type, qst.Name))
	}
	return fmt.Sprintf("%s 0x%04x %s", kind, dns.ID, strings.Join(questions, " "))
}

var httpPrefixes = [][]byte{
	[]byte("GET "), []byte("POST "), []byte("PUT "), []byte("DELETE "),
	[]byte("HEAD "), []byte("OPTIONS "), []byte("PATCH "), []byte("HTTP/1."),
}

func isHTTP(data []byte) bool {
	for _, prefix := range httpPrefixes {
		if bytes.HasPrefix(data, prefix) {
			return true
		}
	}
	return false
}

func ipString(addr []byte) string {
	if len(addr) != 4 {
		return fmt.Sprintf("%x", addr)
	}
	return fmt.Sprintf("%d.%d.%d.%d", addr[0], addr[1], addr[2], addr[3])
}
