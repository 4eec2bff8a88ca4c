package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("kv: key not found")

// Namespaces used by the application. A namespace is the entity type; the
// key is the owning user, optionally joined with a job id.
const (
	NamespaceJobs      = "jobs"
	NamespaceProfile   = "profile"
	NamespaceJobResume = "job_resume"
	NamespaceUser      = "user"
)

// Store is the keyed persistence abstraction every backend satisfies.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}

// FlatKey joins namespace and key the way a browser local-storage layout
// would: jobs_{email}, profile_{email}, job_resume_{email}_{jobId}.
func FlatKey(namespace, key string) string {
	return namespace + "_" + key
}

// CompositeKey joins parts with "_" after trimming each one.
func CompositeKey(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return strings.Join(out, "_")
}

func validate(namespace, key string) error {
	if strings.TrimSpace(namespace) == "" {
		return fmt.Errorf("kv: empty namespace")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("kv: empty key")
	}
	return nil
}

// GetJSON decodes the value under (namespace, key) into out. found is false
// when the key does not exist.
func GetJSON(ctx context.Context, s Store, namespace, key string, out any) (bool, error) {
	b, err := s.Get(ctx, namespace, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("kv: decode %s: %w", FlatKey(namespace, key), err)
	}
	return true, nil
}

func PutJSON(ctx context.Context, s Store, namespace, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", FlatKey(namespace, key), err)
	}
	return s.Put(ctx, namespace, key, b)
}
