package metrics

type NoopMetrics struct{}

func (n NoopMetrics) RecordInfo(version string, contract string) {}

func (n NoopMetrics) RecordUp() {}

func (n NoopMetrics) RecordConnection(state string) {}

func (n NoopMetrics) RecordOperation(op string) (onDone func(err error)) {
	return func(err error) {}
}

var _ Metricer = NoopMetrics{}
