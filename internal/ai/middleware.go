package ai

import "context"

// Middleware wraps a Client with additional behavior such as retries or
// metrics recording.
type Middleware func(next Client) Client

// clientFunc adapts plain functions to the Client interface for middleware
// implementations.
type clientFunc struct {
	complete  func(context.Context, CompletionRequest) (CompletionResponse, error)
	modelName func() string
}

func (f clientFunc) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return f.complete(ctx, req)
}

func (f clientFunc) ModelName() string {
	return f.modelName()
}

// WrapClient builds a Client from the provided functions.
func WrapClient(
	complete func(context.Context, CompletionRequest) (CompletionResponse, error),
	modelName func() string,
) Client {
	return clientFunc{complete: complete, modelName: modelName}
}

// Chain composes middlewares around a base client. The first middleware
// becomes the outermost wrapper: Chain(client, mw1, mw2) produces the call
// stack mw1 -> mw2 -> client.
func Chain(base Client, middlewares ...Middleware) Client {
	client := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		client = middlewares[i](client)
	}

	return client
}
