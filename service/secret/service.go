// Package secret turns a secured credentials resource into environment
// variables for the grading program. It supplements the plain local secrets
// file that the program reads on its own.
package secret

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
	"github.com/viant/toolbox"
)

// Service reveals secured grader credentials.
type Service struct {
	scyService *scy.Service
}

// New creates a new secret service
func New() *Service {
	return &Service{scyService: scy.New()}
}

// Environ loads the secret at sourceURL (optionally encrypted with key) and
// flattens it into environment variables. Plain secrets are parsed as
// dotenv-style KEY=VALUE lines; structured secrets are converted field by
// field.
func (s *Service) Environ(ctx context.Context, sourceURL, key string) (map[string]string, error) {
	resource := scy.NewResource(nil, sourceURL, key)
	loaded, err := s.scyService.Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load secret from %s: %w", sourceURL, err)
	}
	if loaded.IsPlain || loaded.Target == nil {
		return ParseEnv(loaded.String()), nil
	}
	aMap := map[string]interface{}{}
	if err := toolbox.DefaultConverter.AssignConverted(&aMap, loaded.Target); err != nil {
		return nil, fmt.Errorf("failed to convert secret data: %w", err)
	}
	aMap = toolbox.DeleteEmptyKeys(aMap)
	ret := make(map[string]string, len(aMap))
	for k, v := range aMap {
		ret[strings.ToUpper(k)] = toolbox.AsString(v)
	}
	return ret, nil
}

// ParseEnv parses dotenv-style content; malformed lines and comments are
// skipped.
func ParseEnv(content string) map[string]string {
	ret := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		index := strings.Index(line, "=")
		if index <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:index])
		value := strings.TrimSpace(line[index+1:])
		value = strings.Trim(value, `"'`)
		ret[key] = value
	}
	return ret
}
