package metrics

import (
	"errors"
	"testing"
)

func TestNoopMetrics(t *testing.T) {
	var m Metricer = NoopMetrics{}
	m.RecordInfo("v", "c")
	m.RecordUp()
	m.RecordConnection("connected")
	m.RecordOperation("get")(errors.New("ignored"))
}
