package capture

import (
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/pkg/errors"

	nt "dfilter/entity"
)

// canonical keys in record order, with the json names the dissector may use
var canonical = []struct {
	key   string
	names []string
}{
	{nt.KeyTime, []string{"time", "timestamp"}},
	{nt.KeySource, []string{"source", "src"}},
	{nt.KeyDestination, []string{"destination", "dst"}},
	{nt.KeyProtocol, []string{"protocol", "proto"}},
	{nt.KeyLength, []string{"length", "len"}},
	{nt.KeyInfo, []string{"info"}},
	{nt.KeySummary, []string{"summary"}},
}

// skipped keys carry bytes for hex display, which records do not hold
var skipped = map[string]bool{
	"payload": true,
}

type wireResult struct {
	Packets  []map[string]json.RawMessage `json:"packets"`
	Warnings []string                     `json:"warnings"`
	Errors   []string                     `json:"errors"`
}

// DecodeResult reads the dissection core's json output:
// an object with packets, warnings and errors, or a bare array of packets.
// A packet's info may itself be a json encoded summary object, whose fields are lifted into the record.
func DecodeResult(rdr io.Reader) (result Result, err error) {

	data, err := io.ReadAll(rdr)
	if err != nil {
		err = errors.Wrapf(err, "failed to read dissection result")
		return
	}

	var wire wireResult
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(data, &wire.Packets)
	} else {
		err = json.Unmarshal(data, &wire)
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to unmarshal dissection result")
		return
	}

	result.Warnings = wire.Warnings
	result.Errors = wire.Errors
	for idx, raw := range wire.Packets {
		var rec nt.Record
		rec, err = decodePacket(raw)
		if err != nil {
			err = errors.Wrapf(err, "packet %d", idx+1)
			return
		}
		result.Records = append(result.Records, rec)
	}

	return
}

func decodePacket(raw map[string]json.RawMessage) (rec nt.Record, err error) {

	values := map[string]nt.Value{}
	for name, msg := range raw {
		if skipped[name] {
			continue
		}
		val, ok, err := decodeValue(msg)
		if err != nil {
			return rec, errors.Wrapf(err, "field %s", name)
		}
		if ok {
			values[name] = val
		}
	}

	liftSummary(values)

	var fields []nt.Field
	used := map[string]bool{}
	for _, cn := range canonical {
		for _, name := range cn.names {
			if val, ok := values[name]; ok && !used[name] {
				fields = append(fields, nt.Field{Name: cn.key, Value: val})
				used[name] = true
				break
			}
		}
	}

	var extra []string
	for name := range values {
		if !used[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		fields = append(fields, nt.Field{Name: name, Value: values[name]})
	}

	return nt.NewRecord(fields...), nil
}

// liftSummary unpacks an info string holding a json object.
func liftSummary(values map[string]nt.Value) {

	info, ok := values["info"].Raw.(string)
	if !ok || !strings.HasPrefix(strings.TrimSpace(info), "{") {
		return
	}

	var inner map[string]json.RawMessage
	if json.Unmarshal([]byte(info), &inner) != nil {
		return
	}

	delete(values, "info")
	for name, msg := range inner {
		val, ok, err := decodeValue(msg)
		if err != nil || !ok {
			continue
		}
		if name != "info" && name != "summary" && covered(values, name) {
			continue
		}
		values[name] = val
	}
}

// covered reports whether name, or another json name for the same canonical key, is present.
func covered(values map[string]nt.Value, name string) bool {

	if _, ok := values[name]; ok {
		return true
	}
	for _, cn := range canonical {
		if !slices.Contains(cn.names, name) {
			continue
		}
		for _, other := range cn.names {
			if _, ok := values[other]; ok {
				return true
			}
		}
	}
	return false
}

// decodeValue keeps strings and numbers, other json kinds are stringified or dropped.
func decodeValue(msg json.RawMessage) (val nt.Value, ok bool, err error) {

	var raw any
	err = json.Unmarshal(msg, &raw)
	if err != nil {
		return
	}

	switch raw := raw.(type) {
	case string:
		return nt.Str(raw), true, nil
	case float64:
		return nt.Num(raw), true, nil
	case bool:
		if raw {
			return nt.Str("true"), true, nil
		}
		return nt.Str("false"), true, nil
	}
	return
}
