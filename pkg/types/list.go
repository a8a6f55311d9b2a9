package types

// Page is one server-side page of records.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Option is the {value, label} pair held by multi-select widgets.
type Option struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// IDName is the minimal shape returned by option and type-ahead endpoints.
type IDName struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AsOption converts an API record to a widget option.
func (n IDName) AsOption() Option {
	return Option{Value: n.ID, Label: n.Name}
}

// OptionsFrom converts a list of API records to widget options.
func OptionsFrom(items []IDName) []Option {
	out := make([]Option, 0, len(items))
	for _, item := range items {
		out = append(out, item.AsOption())
	}
	return out
}

// OptionValues flattens options to their ids.
func OptionValues(opts []Option) []int64 {
	out := make([]int64, 0, len(opts))
	for _, opt := range opts {
		out = append(out, opt.Value)
	}
	return out
}
