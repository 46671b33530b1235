package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		graphqlRequestsTotal,
		stripeRetrievesTotal,
	)
}

var (
	graphqlRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphql_requests_total",
			Help: "GraphQL calls by store (dailycloak/datahub), operation and success.",
		},
		[]string{"store", "operation", "success"},
	)

	stripeRetrievesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stripe_retrieves_total",
			Help: "Stripe payment-intent retrievals by success.",
		},
		[]string{"success"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncGraphQLRequest(store, operation string, success bool) {
	graphqlRequestsTotal.WithLabelValues(norm(store), norm(operation), strconv.FormatBool(success)).Inc()
}

func IncStripeRetrieve(success bool) {
	stripeRetrievesTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}
