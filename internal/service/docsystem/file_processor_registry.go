package docsystem

import (
	"strings"

	docsysSvc "cms/internal/domain/services/docsystem"
)

// FileProcessorRegistry is the ordered list of import processors. The first
// processor accepting a filename wins, so archives go before single files.
// It is fixed at construction and safe for concurrent reads.
type FileProcessorRegistry struct {
	processors []docsysSvc.FileProcessor
}

// NewFileProcessorRegistry creates a registry trying processors in the given order
func NewFileProcessorRegistry(processors ...docsysSvc.FileProcessor) *FileProcessorRegistry {
	return &FileProcessorRegistry{processors: processors}
}

// GetProcessor returns the processor for filename, or nil when none accepts it
func (r *FileProcessorRegistry) GetProcessor(filename string) docsysSvc.FileProcessor {
	for _, p := range r.processors {
		if p.CanProcess(filename) {
			return p
		}
	}
	return nil
}

// String lists processor names in routing order, for startup logs
func (r *FileProcessorRegistry) String() string {
	names := make([]string, len(r.processors))
	for i, p := range r.processors {
		names[i] = p.Name()
	}
	return strings.Join(names, ", ")
}
