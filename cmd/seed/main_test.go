package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
)

func TestSeedFillsEmptyTablesOnce(t *testing.T) {
	ctx := context.Background()
	repo := infraRepo.NewMemoryRepository()

	nb, ns, err := seed(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 8, nb)
	assert.Equal(t, 9, ns)

	list, err := repo.ListServices(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 9)
	assert.Equal(t, "Kids Haircut", list[0].Name)
	for _, s := range list {
		assert.Equal(t, 30, s.DurationMinutes)
	}

	nb, ns, err = seed(ctx, repo)
	require.NoError(t, err)
	assert.Zero(t, nb)
	assert.Zero(t, ns)
}
