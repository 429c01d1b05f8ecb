package containers_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/amidgo/bootcontainers"
	"github.com/stretchr/testify/require"
)

func Test_ResourceErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("broken pipe")

	cases := []struct {
		name     string
		err      error
		expected string
		cause    error
	}{
		{name: "access empty", err: &containers.ResourceAccessError{}, expected: "resource access failed"},
		{name: "access message", err: containers.NewResourceAccessError("read schema.cql", nil), expected: "read schema.cql"},
		{name: "access cause", err: containers.NewResourceAccessError("", cause), expected: "broken pipe", cause: cause},
		{name: "access both", err: containers.NewResourceAccessError("read schema.cql", cause), expected: "read schema.cql, broken pipe", cause: cause},
		{name: "not found empty", err: &containers.ResourceNotFoundError{}, expected: "resource not found"},
		{name: "not found both", err: containers.NewResourceNotFoundError("open schema.cql", fs.ErrNotExist), expected: "open schema.cql, file does not exist", cause: fs.ErrNotExist},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.EqualError(t, tc.err, tc.expected)

			if tc.cause != nil {
				require.ErrorIs(t, tc.err, tc.cause)
			}
		})
	}
}

func Test_ProvisionError(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such image")

	err := error(&containers.ProvisionError{Image: "cassandra:3.11.15", Err: cause})

	require.EqualError(t, err, "provision container cassandra:3.11.15, no such image")
	require.ErrorIs(t, err, cause)
}
