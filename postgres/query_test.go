package postgrescontainer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ExecQuery_InvalidType(t *testing.T) {
	t.Parallel()

	err := execQuery(context.Background(), nil, 42)

	require.ErrorIs(t, err, errInvalidQueryType)
	require.ErrorContains(t, err, "actual int")
}
