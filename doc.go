// Package hivemeta provides a high-level API for serving HiveServer2-style
// metadata operations (catalogs, schemas, tables and type info) over Apache
// Arrow Flight.
//
// The hivemeta package simplifies building metadata servers by:
//   - Registering Flight service handlers on an existing grpc.Server
//   - Providing a fluent catalog builder for static, in-memory catalogs
//   - Accepting any catalog.Service implementation (see catalog/duckdb for a live one)
//   - Handling authentication with bearer tokens
//
// # Quick Start
//
//	svc, err := hivemeta.NewCatalogBuilder().
//	    Catalog("hive").
//	        Database("sales").
//	            Table("orders").
//	            View("big_orders").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	config := hivemeta.ServerConfig{Service: svc}
//	grpcServer := grpc.NewServer(hivemeta.ServerOptions(config)...)
//	srv, err := hivemeta.NewServer(grpcServer, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//
//	lis, _ := net.Listen("tcp", ":50051")
//	grpcServer.Serve(lis)
//
// # Protocol
//
// A metadata operation is described by a MessagePack command in a CMD flight
// descriptor:
//
//	{"type": "get_tables", "catalog_name": "hive", "schema_pattern": "sales%",
//	 "table_pattern": "%", "table_types": ["TABLE"]}
//
// GetFlightInfo submits the operation and returns a ticket; DoGet waits for the
// operation and streams its result as one Arrow record batch, then closes it.
// GetSchema returns the result layout without running anything.
//
// Patterns use SQL LIKE syntax: % matches any sequence, _ any single character
// and a backslash escapes either. An empty catalog name means the session's
// current catalog; an empty pattern matches every name.
//
// # Sessions
//
// Requests carry an optional hivemeta-session-id header. The open_session and
// close_session actions manage sessions; requests without the header run in a
// fresh anonymous session. Operations can be inspected, canceled and closed with
// the get_operation_status, cancel_operation and close_operation actions.
//
// # Authentication
//
// Use BearerAuth or StaticTokens and pass ServerOptions to grpc.NewServer:
//
//	config := hivemeta.ServerConfig{
//	    Service: svc,
//	    Auth:    hivemeta.StaticTokens(map[string]string{"secret": "alice"}),
//	}
//
// The identity is available to catalog services through IdentityFromContext.
package hivemeta
