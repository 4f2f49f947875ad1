package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	httpclient "github.com/snapser-community/snapser-byosnaps/pkg/http"
)

type scenario struct {
	name    string
	method  string
	path    string
	headers map[string]string
	want    int
}

func main() {
	serverAddr := "http://localhost:5003"
	if len(os.Args) > 1 {
		serverAddr = os.Args[1]
	}
	prefix := "byosnap-basic"
	if len(os.Args) > 2 {
		prefix = os.Args[2]
	}

	users := "/v1/" + prefix + "/users/"
	scenarios := []scenario{
		{
			name:    "user reads own game",
			method:  http.MethodGet,
			path:    users + "u1/game",
			headers: map[string]string{"Auth-Type": "user", "User-Id": "u1"},
			want:    http.StatusOK,
		},
		{
			name:    "user reads another users game",
			method:  http.MethodGet,
			path:    users + "u1/game",
			headers: map[string]string{"Auth-Type": "user", "User-Id": "u2"},
			want:    http.StatusUnauthorized,
		},
		{
			name:    "api key saves game",
			method:  http.MethodPost,
			path:    users + "u1/game",
			headers: map[string]string{"Auth-Type": "api-key"},
			want:    http.StatusOK,
		},
		{
			name:    "api key deletes user",
			method:  http.MethodDelete,
			path:    users + "u1",
			headers: map[string]string{"Auth-Type": "api-key"},
			want:    http.StatusUnauthorized,
		},
		{
			name:    "internal deletes user",
			method:  http.MethodDelete,
			path:    users + "u1",
			headers: map[string]string{"Gateway": "internal"},
			want:    http.StatusOK,
		},
	}

	client := httpclient.NewClient(serverAddr, httpclient.WithRetryCount(0))
	ctx := context.Background()

	failed := 0
	for _, s := range scenarios {
		opts := make([]httpclient.RequestOption, 0, len(s.headers))
		for k, v := range s.headers {
			opts = append(opts, httpclient.WithHeader(k, v))
		}

		resp, err := client.Request(ctx, s.method, s.path, opts...)
		if err != nil {
			log.Fatalf("Request failed: %v", err)
		}

		if resp.StatusCode() == s.want {
			fmt.Printf("PASS %-32s %d\n", s.name, resp.StatusCode())
			continue
		}
		failed++
		fmt.Printf("FAIL %-32s want %d, got %d: %s\n", s.name, s.want, resp.StatusCode(), resp.String())
	}

	if failed > 0 {
		os.Exit(1)
	}
}
