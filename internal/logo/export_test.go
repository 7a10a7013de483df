package logo

// ConfigForTest returns a copy of the processor configuration for assertions in tests.
func (processor *Processor) ConfigForTest() Options { return processor.config }

// AmplifiedDifferenceForTest exposes amplifiedDifference.
func AmplifiedDifferenceForTest(a, b uint8) uint8 { return amplifiedDifference(a, b) }
