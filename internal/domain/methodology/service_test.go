package methodology

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/docstore"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
)

var coach = user.Viewer{UserID: "prof-1", Role: user.RoleProfissional}

func TestAddRemoveByValue(t *testing.T) {
	svc := NewService(NewRepo(docstore.NewMemory()))
	ctx := context.Background()

	empty, err := svc.List(ctx, coach, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Metodologias)

	_, err = svc.Add(ctx, coach, "Rondo")
	require.NoError(t, err)
	_, err = svc.Add(ctx, coach, " Rondo ")
	require.NoError(t, err)
	l, err := svc.Add(ctx, coach, "Jogo reduzido")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rondo", "Jogo reduzido"}, l.Metodologias)

	l, err = svc.Remove(ctx, coach, "Rondo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jogo reduzido"}, l.Metodologias)

	_, err = svc.Add(ctx, coach, "  ")
	assert.True(t, IsErrBadRequest(err))
	_, err = svc.Add(ctx, user.Viewer{UserID: "a1", Role: user.RoleAtleta}, "x")
	assert.True(t, IsErrUnauthorized(err))
}

func TestConcurrentFirstAdds(t *testing.T) {
	svc := NewService(NewRepo(docstore.NewMemory()))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Add(ctx, coach, fmt.Sprintf("m%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	l, err := svc.List(ctx, coach, "")
	require.NoError(t, err)
	assert.Len(t, l.Metodologias, 10)
}
