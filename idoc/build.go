package idoc

import (
	"go.uber.org/zap"

	"idoc2raml/config"
)

// Build runs fragments through collection, normalization and type inference
// and returns typed definitions of top level record kinds in document order.
func Build(fragments []Fragment, detection config.NestedDetection, log *zap.Logger) ([]*RecordDefinition, error) {
	c, err := Collect(fragments, detection, log)
	if err != nil {
		return nil, err
	}
	log.Debug("Fragments collected", zap.Int("fragments", len(fragments)), zap.Int("kinds", c.Len()))

	records := Normalize(c, log)
	defs := make([]*RecordDefinition, 0, len(records))
	for _, rec := range records {
		defs = append(defs, Infer(rec, log))
	}
	return defs, nil
}
