package metrics

import (
	"github.com/branched-services/go-storagedapp"
)

type Metricer interface {
	RecordInfo(version string, contract string)
	RecordUp()

	storagedapp.Metricer
}
