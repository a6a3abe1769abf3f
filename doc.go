// Package dune is a toolkit for building HTTP and WebSocket services on
// top of net/http. It dispatches requests through an ordered route table
// with typed path parameters, validates and serializes request data with
// declarative schemas, and negotiates response encoding from the Accept
// header.
//
// # API
//
// Create an API, register routes, and serve it like any http.Handler:
//
//	api := dune.New(dune.Config{Title: "pets", Version: "1.0"})
//	api.Route("/pets/{id:int}", func(ctx context.Context, req *dune.Request, resp *dune.Response) error {
//		resp.Media = map[string]any{"id": req.Param("id")}
//		return nil
//	})
//	api.Run(":8080")
//
// # Path parameters
//
// Route patterns carry typed parameters in braces. The converter after
// the colon decides both the matched syntax and the Go type handed to
// the handler:
//
//	/users/{name}            str (default), any segment
//	/orders/{id:int}         digits, int64
//	/price/{value:float}     decimal, float64
//	/items/{key:uuid}        canonical UUID, uuid.UUID
//	/files/{path:path}       one or more segments, string
//
// A parameter that matches syntactically but fails conversion does not
// match the route; later routes still get a chance.
//
// # Handler groups
//
// Resource groups per-verb handlers under one pattern, with an optional
// Any fallback for unlisted verbs:
//
//	res := dune.NewResource("pets").
//		Get(listPets).
//		Post(createPet)
//	api.Resource("/pets", res)
//
// # Schemas
//
// Input bindings validate a request location before the handler runs;
// output bindings serialize the handler's object through a schema:
//
//	pet := schema.Fields{
//		"name":  {Type: schema.String, Required: true},
//		"price": {Type: schema.Float},
//	}
//	api.Route("/pets", createPet).Methods("POST").BindInput(pet, router.LocationBody)
//
// Validation failures answer 400 with every field error collected; the
// handler never runs.
package dune
