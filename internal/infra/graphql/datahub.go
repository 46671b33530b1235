package graphql

import (
	"context"
	"fmt"

	gql "github.com/machinebox/graphql"
	"github.com/rs/zerolog"

	"payment-webhook-relay/internal/domain/model"
	"payment-webhook-relay/internal/domain/ports/repository"
	"payment-webhook-relay/internal/infra/logging"
)

// Compile-time check
var _ repository.DatahubStore = (*Datahub)(nil)

const mutationUpdateCart = `
mutation updateCart($cartId: String!, $set: carts_set_input!, $prepend: carts_prepend_input!) {
  updateCarts(where: {id: {_eq: $cartId}}, _set: $set, _prepend: $prepend) {
    affected_rows
  }
}`

const mutationInsertCartHistory = `
mutation insertCartPaymentHistory($objects: [cartPaymentHistory_insert_input!]!) {
  insertCartPaymentHistory(objects: $objects) {
    affected_rows
  }
}`

// Datahub reaches one organization's own store. The admin secret lives in the
// request headers for the lifetime of a single webhook request.
type Datahub struct {
	client *gql.Client
	secret string
	log    *zerolog.Logger
}

// NewDatahubFactory returns the per-request store constructor. Endpoint and
// credential come from the organization record resolved for the event, so
// clients are never pooled or cached across tenants.
func NewDatahubFactory(dev bool, logger *zerolog.Logger) repository.DatahubFactory {
	return func(org *model.Organization) repository.DatahubStore {
		endpoint := "https://" + org.OrganizationURL + datahubPath
		logger.Debug().
			Str("endpoint", endpoint).
			Str("admin_secret", logging.Redact(org.AdminSecret, dev)).
			Msg("datahub client built")
		return &Datahub{
			client: gql.NewClient(endpoint),
			secret: org.AdminSecret,
			log:    logger,
		}
	}
}

func (s *Datahub) UpdateCart(ctx context.Context, cartID string, patch repository.CartPatch) error {
	set := map[string]interface{}{
		"paymentStatus": string(patch.PaymentStatus),
	}
	if patch.TransactionID != "" {
		set["transactionId"] = patch.TransactionID
	}
	if patch.TransactionRemark != nil {
		set["transactionRemark"] = patch.TransactionRemark
	}
	prepend := map[string]interface{}{}
	if patch.PrependHistory != nil {
		prepend["transactionRemarkHistory"] = []interface{}{patch.PrependHistory}
	}

	req := gql.NewRequest(mutationUpdateCart)
	req.Var("cartId", cartID)
	req.Var("set", set)
	req.Var("prepend", prepend)

	var resp struct {
		UpdateCarts struct {
			AffectedRows int `json:"affected_rows"`
		} `json:"updateCarts"`
	}
	if err := run(ctx, s.client, "datahub", "updateCart", s.secret, req, &resp); err != nil {
		return fmt.Errorf("datahub update cart: %w", err)
	}
	return nil
}

func (s *Datahub) InsertHistory(ctx context.Context, cartID string, entries ...*model.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	objects := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		objects = append(objects, map[string]interface{}{
			"id":                e.ID,
			"cartId":            cartID,
			"type":              string(e.Type),
			"status":            string(e.Status),
			"transactionRemark": e.Snapshot,
		})
	}

	req := gql.NewRequest(mutationInsertCartHistory)
	req.Var("objects", objects)

	var resp struct {
		InsertCartPaymentHistory struct {
			AffectedRows int `json:"affected_rows"`
		} `json:"insertCartPaymentHistory"`
	}
	if err := run(ctx, s.client, "datahub", "insertCartPaymentHistory", s.secret, req, &resp); err != nil {
		return fmt.Errorf("datahub insert history: %w", err)
	}
	return nil
}
