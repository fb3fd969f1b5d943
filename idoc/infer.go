package idoc

import (
	"regexp"

	"go.uber.org/zap"
)

// optional minus, digits, optional fraction - nothing else is a number
var numberPattern = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

// InferType guesses type of scalar value.
func InferType(value string) Type {
	if numberPattern.MatchString(value) {
		return TypeFloat
	}
	return TypeString
}

// Infer builds typed definition for normalized record. Result shares nothing
// with the input so definitions reachable from several parents never alias.
// Absent entries have nothing to be emitted for and are left out.
func Infer(rec Record, log *zap.Logger) *RecordDefinition {
	def := &RecordDefinition{
		Name:       rec.Name,
		Attributes: make([]TypedAttribute, 0, len(rec.Attributes)),
	}
	for _, attr := range rec.Attributes {
		if attr.IsAbsent() {
			log.Debug("Skipping absent attribute", zap.String("kind", rec.Name))
			continue
		}
		typed := TypedAttribute{Name: attr.Name}
		if attr.Nested {
			typed.Type = TypeObject
			typed.Record = Infer(Record{Name: attr.Name, Attributes: attr.Children}, log)
		} else {
			typed.Type = InferType(attr.Value)
			typed.Value = attr.Value
		}
		def.Attributes = append(def.Attributes, typed)
	}
	return def
}
