package grpc

import (
	"net/http"

	"connectrpc.com/connect"
)

// NewRouter returns the service path prefix and the handler serving every
// AuthorizationService procedure below it.
func NewRouter(handler *Handler) (string, http.Handler) {
	mux := http.NewServeMux()

	mux.Handle(CheckProcedure, connect.NewUnaryHandler(
		CheckProcedure,
		handler.Check,
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(
			recoveryInterceptor(),
			loggingInterceptor(),
		),
	))

	return "/" + ServiceName + "/", mux
}

// NewClient builds a Check client for baseURL, e.g. http://localhost:5003.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *connect.Client[CheckRequest, CheckResponse] {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return connect.NewClient[CheckRequest, CheckResponse](httpClient, baseURL+CheckProcedure, opts...)
}
