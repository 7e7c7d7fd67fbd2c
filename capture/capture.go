// Package capture turns capture files into packet records.
//
// pcap and pcapng files are decoded with gopacket; json dissection results are read as well.
package capture

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"

	nt "dfilter/entity"
)

// Result is a batch of records with the dissector's diagnostics.
type Result struct {
	Records  []nt.Record
	Warnings []string
	Errors   []string
}

// ReadFile reads records from a pcap, pcapng or dissection json file.
func ReadFile(path string) (result Result, err error) {

	file, err := os.Open(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to open %s", path)
		return
	}
	defer file.Close()

	result, err = Read(file)
	err = errors.Wrapf(err, "failed to read %s", path)
	return
}

// Read sniffs the format of rdr and decodes it.
func Read(rdr io.Reader) (result Result, err error) {

	buf := bufio.NewReader(rdr)
	magic, _ := buf.Peek(4)

	switch {
	case isPcap(magic):
		var src *pcapgo.Reader
		src, err = pcapgo.NewReader(buf)
		if err != nil {
			err = errors.Wrapf(err, "failed to open pcap")
			return
		}
		return readPackets(src, src.LinkType())

	case isPcapNg(magic):
		var src *pcapgo.NgReader
		src, err = pcapgo.NewNgReader(buf, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			err = errors.Wrapf(err, "failed to open pcapng")
			return
		}
		return readPackets(src, src.LinkType())
	}

	return DecodeResult(buf)
}

// unexported

var pcapMagics = []uint32{0xa1b2c3d4, 0xa1b23c4d}

func isPcap(magic []byte) bool {
	if len(magic) < 4 {
		return false
	}
	for _, want := range pcapMagics {
		if binary.BigEndian.Uint32(magic) == want || binary.LittleEndian.Uint32(magic) == want {
			return true
		}
	}
	return false
}

func isPcapNg(magic []byte) bool {
	return bytes.Equal(magic, []byte{0x0a, 0x0d, 0x0d, 0x0a})
}

func readPackets(src gopacket.PacketDataSource, link layers.LinkType) (result Result, err error) {

	source := gopacket.NewPacketSource(src, link)
	source.DecodeOptions = gopacket.DecodeOptions{Lazy: true}

	var first gopacket.CaptureInfo
	for number := 1; ; number++ {
		var pkt gopacket.Packet
		pkt, err = source.NextPacket()
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			result.Warnings = append(result.Warnings, errors.Wrapf(err, "packet %d", number).Error())
			err = nil
			return
		}

		meta := pkt.Metadata().CaptureInfo
		if number == 1 {
			first = meta
		}
		result.Records = append(result.Records, Dissect(pkt, meta.Timestamp.Sub(first.Timestamp).Seconds()))
	}
}
