// Package resource is a typed object mapping layer over the appliance REST API.
//
// # Overview
//
// A resource class is declared once as a Schema: a URI template with :name
// placeholders, a table of typed fields, and optionally a collection item
// schema or a result schema. Instances hold their attributes in wire form
// (the decoded JSON) and convert on every access through the field's
// Converter.
//
// # Declaring Resources
//
//	var (
//		userSchema = resource.NewSchema("user", resource.URI("/v1/users/:id"))
//		userID     = resource.Declare(userSchema, "id", resource.String)
//		userName   = resource.Declare(userSchema, "name", resource.String)
//		userUID    = resource.Declare(userSchema, "uid", resource.BigInt)
//
//		usersSchema = resource.NewSchema("users",
//			resource.URI("/v1/users/"),
//			resource.Items(userSchema, ""), // bare JSON array
//		)
//	)
//
// Field storage keys default to the snake_case form of the field name; use
// resource.Key to override. Fields declared with resource.Untyped are passed
// through without conversion or validation.
//
// # Verbs
//
// Get, Post, Put and Delete resolve the path, call the Executor and interpret
// the Result:
//
//   - The status and the ETag are always recorded.
//   - A non-2xx status records the error payload, leaves the attributes
//     untouched and returns a *RequestFailedError.
//   - A 2xx status with a body replaces the attributes wholesale.
//   - A schema with a result schema hands back an instance of that schema.
//
// Put sends the ETag of the last GET or PUT as an If-Match precondition.
// Nothing is retried.
//
// # Errors
//
// Every error matches one of the sentinels in errors.go with errors.Is. Typed
// errors (*DataTypeError, *URIError, *ResourceMismatchError,
// *RequestFailedError) carry the field, template, key or HTTP result needed
// to diagnose the failure.
//
// # Concurrency
//
// An instance must not be shared between goroutines without external
// locking. The memo table that keeps nested wrappers stable is guarded by a
// mutex.
package resource
