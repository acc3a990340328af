// Package service provides the provider registry for tool execution.
//
// Providers register under a service ID; tool IDs use the form
// "service.tool" and dispatch to the owning provider:
//
//	registry := service.NewRegistry()
//	registry.Register(fsProvider)
//	result, err := registry.Execute(ctx, "filesystem.read", params, appCtx)
//
// Discover scores registered services against a free-text intent so hosts
// can surface relevant tools dynamically.
package service
