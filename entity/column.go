package entity

// Column describes a record field shown in the packet list.
type Column struct {
	Field  string `yaml:"field"`
	Title  string `yaml:"title,omitempty"`
	Width  int    `yaml:"width"`
	Hidden bool   `yaml:"hidden,omitempty"`
}

// Header returns the column's display title.
func (col Column) Header() string {
	if col.Title != "" {
		return col.Title
	}
	return col.Field
}
