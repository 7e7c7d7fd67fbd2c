// Package message holds messages shared between the viewer's components.
package message

import nt "dfilter/entity"

// ErrorMsg contains an error
type ErrorMsg struct {
	Err error
}

// RecordsMsg contains every record of the source
type RecordsMsg struct {
	Records []nt.Record
}
