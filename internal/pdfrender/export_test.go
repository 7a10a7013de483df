package pdfrender

// Exported test-only accessors for unexported functions and fields.
// This file is compiled only during tests and does not affect the public API.

// ParsePdfInfoOutputForTest exposes parsePdfInfoOutput for tests in external package.
func ParsePdfInfoOutputForTest(s string) (int, error) { return parsePdfInfoOutput(s) }

// BuildGhostscriptArgsForTest exposes buildGhostscriptArgs.
func BuildGhostscriptArgsForTest(dpi, page int, outPath, pdfPath string) []string {
	return buildGhostscriptArgs(dpi, page, outPath, pdfPath)
}

// NewGhostscriptRendererForTest builds the ghostscript backend around exec.
func NewGhostscriptRendererForTest(exec CommandExecutor) PageRenderer {
	return newGhostscriptRenderer(exec)
}

// ConfigForTest returns a copy of the processor configuration for assertions in tests.
func (processor *Processor) ConfigForTest() Options { return processor.config }

// ValidateConfigForTest exposes validateConfig.
func (processor *Processor) ValidateConfigForTest() error { return processor.validateConfig() }

// RendererForTest returns the selected backend.
func (processor *Processor) RendererForTest() PageRenderer { return processor.renderer }

// Allow tests to inject a fake renderer.
func (processor *Processor) SetRendererForTest(renderer PageRenderer) {
	processor.renderer = renderer
}
