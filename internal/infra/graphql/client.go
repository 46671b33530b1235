// Package graphql holds the two GraphQL-backed stores this service writes to:
// the central dailycloak store and the per-organization datahub store. Query
// text is treated as an opaque external API and kept as constants here.
package graphql

import (
	"context"

	gql "github.com/machinebox/graphql"

	"payment-webhook-relay/internal/infra/metrics"
)

const (
	adminSecretHeader = "x-hasura-admin-secret"
	datahubPath       = "/datahub/v1/graphql"
)

// run executes one request with the store's credential attached and records
// the outcome.
func run(ctx context.Context, client *gql.Client, store, operation, secret string, req *gql.Request, resp interface{}) error {
	req.Header.Set(adminSecretHeader, secret)
	err := client.Run(ctx, req, resp)
	metrics.IncGraphQLRequest(store, operation, err == nil)
	return err
}
