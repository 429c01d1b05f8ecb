package containers

import (
	"context"
	"fmt"
	"strings"
)

// Catalog lists the named entities of a data store, two levels deep:
// keyspaces and tables, schemas and tables, buckets and objects.
type Catalog interface {
	Namespaces(ctx context.Context) ([]string, error)
	Objects(ctx context.Context, namespace string) ([]string, error)
}

type SchemaObject struct {
	Kind string
	Name string
}

// VerifySchema checks that namespace exists and then that object exists inside it.
// Names are compared case-insensitively, so every namespace matching namespace.Name is
// searched for the object. The first missing entity aborts the check with a
// *SchemaNotFoundError; the object lookup is never issued for a missing namespace.
func VerifySchema(ctx context.Context, catalog Catalog, namespace, object SchemaObject) error {
	namespaces, err := catalog.Namespaces(ctx)
	if err != nil {
		return NewResourceAccessError(fmt.Sprintf("list %ss", namespace.Kind), err)
	}

	catalogNamespaces := matchNames(namespaces, namespace.Name)
	if len(catalogNamespaces) == 0 {
		return &SchemaNotFoundError{Kind: namespace.Kind, Name: namespace.Name}
	}

	for _, catalogNamespace := range catalogNamespaces {
		objects, err := catalog.Objects(ctx, catalogNamespace)
		if err != nil {
			return NewResourceAccessError(fmt.Sprintf("list %ss of %s %s", object.Kind, namespace.Kind, catalogNamespace), err)
		}

		if len(matchNames(objects, object.Name)) > 0 {
			return nil
		}
	}

	return &SchemaNotFoundError{Kind: object.Kind, Name: object.Name}
}

func matchNames(names []string, name string) []string {
	var matched []string

	for _, n := range names {
		if strings.EqualFold(n, name) {
			matched = append(matched, n)
		}
	}

	return matched
}
