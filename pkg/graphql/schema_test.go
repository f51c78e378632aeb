package graphql

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pingSchema(t *testing.T) graphql.Schema {
	t.Helper()
	s, err := NewSchema(graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"ping": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{"name": &graphql.ArgumentConfig{Type: graphql.String}},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					return "pong " + name, nil
				},
			},
		},
	}))
	require.NoError(t, err)
	return s
}

func TestHandlerPost(t *testing.T) {
	h := Handler(pingSchema(t))
	body := `{"query":"query($n:String){ ping(name:$n) }","variables":{"n":"cpu"}}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"ping":"pong cpu"}}`, rec.Body.String())
}

func TestHandlerRejectsEmptyQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(pingSchema(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
