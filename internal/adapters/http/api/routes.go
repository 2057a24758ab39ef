package api

import (
	"net/http"

	"github.com/okian/pokeapi/internal/adapters/http/openapi"
)

// route binds a pattern to a handler and its documentation.
type route struct {
	method   string
	pattern  string
	endpoint string // metrics label
	handle   func(*Server, http.ResponseWriter, *http.Request)
	doc      openapi.Operation
}

var (
	pokemonList  = openapi.JSON(openapi.ArrayOf(openapi.Ref(openapi.PokemonRef)))
	pokemonBody  = &openapi.RequestBody{Required: true, Content: openapi.JSON(openapi.Ref(openapi.PokemonRef))}
	serverError  = openapi.Response{Description: "Internal server error"}
	invalidInput = openapi.Response{Description: "Invalid request"}
)

// routeTable is the single source for registration and documentation.
var routeTable = []route{
	{
		method: http.MethodGet, pattern: "/pokemons", endpoint: "pokemons_list",
		handle: (*Server).handleList,
		doc: openapi.Operation{
			Summary:     "Get all pokemons",
			OperationID: "listPokemons",
			Tags:        []string{"pokemons"},
			Responses: map[string]openapi.Response{
				"200": {Description: "A list of pokemons", Content: pokemonList},
				"500": serverError,
			},
		},
	},
	{
		method: http.MethodGet, pattern: "/pokemons/{id}", endpoint: "pokemons_get",
		handle: (*Server).handleGet,
		doc: openapi.Operation{
			Summary:     "Get a pokemon by its ID",
			OperationID: "getPokemon",
			Tags:        []string{"pokemons"},
			Parameters:  []openapi.Parameter{openapi.PathID("ID of the pokemon to get")},
			Responses: map[string]openapi.Response{
				"200": {Description: "The pokemon object", Content: pokemonList},
				"400": invalidInput,
				"404": {Description: "Pokemon not found"},
				"500": serverError,
			},
		},
	},
	{
		method: http.MethodPost, pattern: "/pokemons", endpoint: "pokemons_create",
		handle: (*Server).handleCreate,
		doc: openapi.Operation{
			Summary:     "Create a new pokemon",
			OperationID: "createPokemon",
			Tags:        []string{"pokemons"},
			RequestBody: pokemonBody,
			Responses: map[string]openapi.Response{
				"200": {Description: "The created pokemon"},
				"400": invalidInput,
				"500": serverError,
			},
		},
	},
	{
		method: http.MethodPut, pattern: "/pokemons/{id}", endpoint: "pokemons_update",
		handle: (*Server).handleUpdate,
		doc: openapi.Operation{
			Summary:     "Update a pokemon by its ID",
			OperationID: "updatePokemon",
			Tags:        []string{"pokemons"},
			Parameters:  []openapi.Parameter{openapi.PathID("ID of the pokemon to update")},
			RequestBody: pokemonBody,
			Responses: map[string]openapi.Response{
				"200": {Description: "The updated pokemon"},
				"400": invalidInput,
				"500": serverError,
			},
		},
	},
	{
		method: http.MethodDelete, pattern: "/pokemons/{id}", endpoint: "pokemons_delete",
		handle: (*Server).handleDelete,
		doc: openapi.Operation{
			Summary:     "Delete a pokemon by its ID",
			OperationID: "deletePokemon",
			Tags:        []string{"pokemons"},
			Parameters:  []openapi.Parameter{openapi.PathID("ID of the pokemon to delete")},
			Responses: map[string]openapi.Response{
				"200": {Description: "Pokemon deleted successfully"},
				"400": invalidInput,
				"500": serverError,
			},
		},
	},
}

// Routes returns the documented routes.
func Routes() []openapi.Route {
	out := make([]openapi.Route, len(routeTable))
	for i, rt := range routeTable {
		out[i] = openapi.Route{Method: rt.method, Pattern: rt.pattern, Operation: rt.doc}
	}
	return out
}
