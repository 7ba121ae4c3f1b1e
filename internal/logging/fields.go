package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/idelchi/sectorc/pkg/blockcipher"
	"github.com/idelchi/sectorc/pkg/ciphermode"
)

// Field names used across the processor.
const (
	FieldFile      = "file"
	FieldOperation = "operation"
	FieldMode      = "mode"
	FieldCipher    = "cipher"
	FieldUnitSize  = "unit_size"
	FieldUnits     = "units"
	FieldStartUnit = "start_unit"
	FieldWorkers   = "workers"
)

// Stream returns the fields describing an encrypted stream. Keys, IVs and tweaks are never included.
func Stream(kind ciphermode.Kind, alg blockcipher.Algorithm, unitSize int) logrus.Fields {
	return logrus.Fields{
		FieldMode:     kind.String(),
		FieldCipher:   alg.String(),
		FieldUnitSize: unitSize,
	}
}

// Segment returns the fields describing a run of units handed to the mode layer.
func Segment(start uint64, units, workers int) logrus.Fields {
	return logrus.Fields{
		FieldStartUnit: start,
		FieldUnits:     units,
		FieldWorkers:   workers,
	}
}
