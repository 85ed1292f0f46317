package metrics

// NoopCollector implements all metrics interfaces with no-ops; used in tests
// and wherever metrics are not wired up.
type NoopCollector struct{}

func NewNoopCollector() *NoopCollector { return &NoopCollector{} }

func (nc *NoopCollector) OnBundleValidated(valid bool)       {}
func (nc *NoopCollector) OnReceiptValidated(valid bool)      {}
func (nc *NoopCollector) OnConflictDetected()                {}
func (nc *NoopCollector) OnFraudProofVerified(accepted bool) {}
func (nc *NoopCollector) OnBisectionRound()                  {}
