package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetActiveCouriersQuery_Valid(t *testing.T) {
	query := queries.NewGetActiveCouriersQuery()
	err := query.Validate()
	require.NoError(t, err)
}

func TestGetActiveCouriersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetActiveCouriersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetActiveCouriersQueryIsNotConstructed)
}
