package config

//go:generate go tool go-enum --marshal --names --values

// How segment children holding further segments are told apart from leaf
// values.
// ENUM(structure, newline)
type NestedDetection int
