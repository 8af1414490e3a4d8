// Package meta loads orchestrator configuration documents. Documents are
// fetched through afs (so they may live on any supported file system) and
// environment placeholders are expanded before decoding.
package meta

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Service loads configuration documents.
type Service struct {
	fs afs.Service
}

// New creates a new meta service
func New() *Service {
	return &Service{fs: afs.New()}
}

// Load fetches the YAML document at URL, expands ${env.NAME} placeholders
// and decodes the result into target.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	data = Expand(data)
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	return nil
}
