package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/railboard/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	stationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Station",
		Fields: graphql.Fields{
			"name":                   &graphql.Field{Type: graphql.String},
			"are_services_available": &graphql.Field{Type: graphql.Boolean},
			"message":                &graphql.Field{Type: graphql.String},
		},
	})

	statusType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ServiceStatus",
		Fields: graphql.Fields{
			"status": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(domain.ServiceStatus); ok {
						return string(s.Status), nil
					}
					return nil, nil
				},
			},
			"abnormality_message": &graphql.Field{Type: graphql.String},
		},
	})

	callingPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CallingPoint",
		Fields: graphql.Fields{
			"name":         &graphql.Field{Type: graphql.String},
			"time":         &graphql.Field{Type: graphql.String},
			"is_cancelled": &graphql.Field{Type: graphql.Boolean},
			"alert":        &graphql.Field{Type: graphql.String},
		},
	})

	serviceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Service",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"status": &graphql.Field{Type: statusType},
			"time": &graphql.Field{
				Type:        graphql.String,
				Description: "Scheduled departure as HH:MM",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(domain.Service); ok {
						return s.Time.String(), nil
					}
					return nil, nil
				},
			},
			"calling_points": &graphql.Field{Type: graphql.NewList(callingPointType)},
			"length": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(domain.Service); ok && s.Length != nil {
						return *s.Length, nil
					}
					return nil, nil
				},
			},
			"platform": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(domain.Service); ok && s.Platform != nil {
						return *s.Platform, nil
					}
					return nil, nil
				},
			},
		},
	})

	boardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Board",
		Fields: graphql.Fields{
			"station":  &graphql.Field{Type: stationType},
			"services": &graphql.Field{Type: graphql.NewList(serviceType)},
		},
	})

	originType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Origin",
		Fields: graphql.Fields{
			"origin_name":         &graphql.Field{Type: graphql.String},
			"calling_point_names": &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"origins": &graphql.Field{
				Type:        graphql.NewList(originType),
				Description: "Configured origins and their calling points",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Boards.Origins(p.Context)
				},
			},
			"boards": &graphql.Field{
				Type:        graphql.NewList(boardType),
				Description: "Scrape every configured origin; failed origins are omitted",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					results, err := deps.Boards.Boards(p.Context)
					if err != nil {
						return nil, err
					}
					boards := make([]domain.StationAndServices, 0, len(results))
					for _, r := range results {
						if r.OK() {
							boards = append(boards, *r.Board)
						}
					}
					return boards, nil
				},
			},
			"board": &graphql.Field{
				Type:        boardType,
				Description: "Scrape one configured origin",
				Args: graphql.FieldConfigArgument{
					"origin": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					origin, _ := p.Args["origin"].(string)
					board, err := deps.Boards.Board(p.Context, origin)
					if err != nil {
						return nil, err
					}
					return *board, nil
				},
			},
			"latest": &graphql.Field{
				Type:        graphql.NewList(boardType),
				Description: "Most recently published board per station",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if deps.Latest == nil {
						return []domain.StationAndServices{}, nil
					}
					return deps.Latest.All(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
