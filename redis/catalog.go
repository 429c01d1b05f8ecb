package rediscontainer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/amidgo/bootcontainers"
	"github.com/redis/go-redis/v9"
)

const (
	KindPrefix = "prefix"
	KindKey    = "key"
)

const (
	keySeparator = ":"
	scanCount    = 100
)

// Schema names a key as its prefix and the remainder after the first ':'.
type Schema struct {
	Prefix string
	Key    string
}

type scanner interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

type catalog struct {
	client scanner
}

// Catalog treats key prefixes before the first ':' as namespaces and the rest of the key as objects.
// Keys without a separator belong to no namespace.
func Catalog(client redis.Cmdable) containers.Catalog {
	return catalog{client: client}
}

func (c catalog) Namespaces(ctx context.Context) ([]string, error) {
	keys, err := c.scan(ctx, "*")
	if err != nil {
		return nil, err
	}

	var prefixes []string

	for _, key := range keys {
		prefix, _, ok := strings.Cut(key, keySeparator)
		if !ok || slices.Contains(prefixes, prefix) {
			continue
		}

		prefixes = append(prefixes, prefix)
	}

	return prefixes, nil
}

func (c catalog) Objects(ctx context.Context, prefix string) ([]string, error) {
	keys, err := c.scan(ctx, escapePattern(prefix)+keySeparator+"*")
	if err != nil {
		return nil, err
	}

	objects := make([]string, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, strings.TrimPrefix(key, prefix+keySeparator))
	}

	return objects, nil
}

func (c catalog) scan(ctx context.Context, match string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)

	for {
		page, next, err := c.client.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("scan keys by %q, %w", match, err)
		}

		keys = append(keys, page...)

		if next == 0 {
			return keys, nil
		}

		cursor = next
	}
}

var patternEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapePattern(s string) string {
	return patternEscaper.Replace(s)
}

func Verify(ctx context.Context, cnt Container, schema Schema) error {
	client, err := cnt.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect to redis container, %w", err)
	}
	defer client.Close()

	return containers.VerifySchema(ctx, Catalog(client),
		containers.SchemaObject{Kind: KindPrefix, Name: schema.Prefix},
		containers.SchemaObject{Kind: KindKey, Name: schema.Key},
	)
}
