package project

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billbook/billbook/pkg/client"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func setup(t *testing.T) (*ServiceImpl, client.Service) {
	clients := client.NewService(client.NewRepositoryStub(), nil)
	return NewService(clients), clients
}

func TestFromClient(t *testing.T) {
	t.Run("should map client fields onto the project", func(t *testing.T) {
		p := FromClient(client.Client{
			Id:          "7",
			Name:        "Acme",
			ProjectName: "Website",
			Budget:      decimal.NewNullDecimal(decimal.NewFromInt(1200)),
		})

		assert.Equal(t, "7", p.Id)
		assert.Equal(t, "7", p.ClientId)
		assert.Equal(t, "Website", p.Name)
		assert.True(t, decimal.NewFromInt(1200).Equal(p.Budget))
	})

	t.Run("should use a zero budget when the client has none", func(t *testing.T) {
		p := FromClient(client.Client{Id: "8"})

		assert.True(t, p.Budget.IsZero())
	})
}

func TestServiceImpl_List(t *testing.T) {
	// given
	service, clients := setup(t)
	_, err := clients.Create(ctx, client.Client{Name: "A", Email: "a@x.test", Phone: "1", ProjectName: "Alpha"})
	require.NoError(t, err)
	_, err = clients.Create(ctx, client.Client{Name: "B", Email: "b@x.test", Phone: "2", ProjectName: "Beta"})
	require.NoError(t, err)

	// when
	projects, err := service.List(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Alpha", projects[0].Name)
	assert.Equal(t, "Beta", projects[1].Name)
}

func TestServiceImpl_Get(t *testing.T) {
	service, clients := setup(t)
	created, err := clients.Create(ctx, client.Client{Name: "A", Email: "a@x.test", Phone: "1", ProjectName: "Alpha"})
	require.NoError(t, err)

	t.Run("should derive the project of a client", func(t *testing.T) {
		p, err := service.Get(ctx, created.Id)

		require.NoError(t, err)
		assert.Equal(t, "Alpha", p.Name)
	})

	t.Run("should translate a missing client", func(t *testing.T) {
		_, err := service.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}

func TestHandler(t *testing.T) {
	service, clients := setup(t)
	created, err := clients.Create(ctx, client.Client{
		Name: "A", Email: "a@x.test", Phone: "1", ProjectName: "Alpha",
		Budget: decimal.NewNullDecimal(decimal.NewFromInt(900)),
	})
	require.NoError(t, err)
	handler := NewHandler(service)
	r := mux.NewRouter()
	r.HandleFunc("/api/projects", handler.List).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}", handler.Get).Methods("GET")

	t.Run("should list projects", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var projects []ProjectDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&projects))
		assert.Equal(t, []ProjectDTO{{Id: created.Id, Name: "Alpha", Budget: 900, ClientId: created.Id}}, projects)
	})

	t.Run("should return 404 for unknown project", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
