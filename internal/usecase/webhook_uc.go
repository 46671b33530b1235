// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"payment-webhook-relay/internal/domain"
	"payment-webhook-relay/internal/domain/model"
	"payment-webhook-relay/internal/domain/ports/adapter"
	"payment-webhook-relay/internal/domain/ports/repository"
	"payment-webhook-relay/internal/infra/logging"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// Policy collapses the revision knobs of the handler into one parameter set:
// which fields to strip, whether to maintain history arrays, whether to write
// audit rows, and whether the legacy SMS / 3-D Secure short-circuit applies.
type Policy struct {
	TrackHistory    bool
	StripLines      bool
	AuditTrail      bool
	LegacyRetryFlow bool
}

// Result reports what HandleEvent did with an authenticated event.
type Result struct {
	Received  bool
	Linked    bool
	Duplicate bool
	RecordID  string
	CartID    string
}

type WebhookUseCase interface {
	// HandleEvent resolves a verified event to a customerPaymentIntent record
	// and fans the resulting status out to dailycloak and the organization's
	// datahub. Unlinked events return domain.ErrEventNotLinked; unrecognized
	// object kinds return domain.ErrUnmappedKind. Both are acknowledged
	// upstream without any mutation.
	HandleEvent(ctx context.Context, ev *model.WebhookEvent) (*Result, error)
}

type webhookUC struct {
	provider   adapter.PaymentProvider
	dailycloak repository.DailycloakStore
	datahub    repository.DatahubFactory
	deliveries repository.DeliveryLog // nil disables the dedup guard
	policy     Policy
	log        *zerolog.Logger
}

func NewWebhookUseCase(
	provider adapter.PaymentProvider,
	dailycloak repository.DailycloakStore,
	datahub repository.DatahubFactory,
	deliveries repository.DeliveryLog,
	policy Policy,
	logger *zerolog.Logger,
) *webhookUC {
	return &webhookUC{
		provider:   provider,
		dailycloak: dailycloak,
		datahub:    datahub,
		deliveries: deliveries,
		policy:     policy,
		log:        logger,
	}
}

// Decline codes worth a 3-D Secure retry when no alternate payment method is
// configured.
var retryableDeclineCodes = map[string]bool{
	"do_not_honor":            true,
	"transaction_not_allowed": true,
}

const (
	eventInvoiceActionRequired = "invoice.payment_action_required"
	eventInvoicePaymentFailed  = "invoice.payment_failed"
)

func (u *webhookUC) HandleEvent(ctx context.Context, ev *model.WebhookEvent) (*Result, error) {
	ctx = logging.WithEventID(ctx, ev.ID)
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "WebhookUC.HandleEvent")()

	if u.deliveries != nil {
		first, err := u.deliveries.FirstDelivery(ctx, ev.ID)
		if err != nil {
			// The guard is best-effort; a broken delivery log must not block
			// event processing.
			log.Warn().Err(err).Msg("delivery log unavailable, processing without dedup")
		} else if !first {
			log.Info().Str("type", ev.Type).Msg("duplicate delivery, acknowledged without processing")
			return &Result{Received: true, Duplicate: true}, nil
		}
	}

	res, err := u.process(ctx, ev)
	if err != nil {
		// Release the delivery record: the vendor redelivers on a non-2xx and
		// that redelivery must not be mistaken for a duplicate.
		if u.deliveries != nil {
			if ferr := u.deliveries.Forget(ctx, ev.ID); ferr != nil {
				log.Warn().Err(ferr).Msg("could not release delivery record")
			}
		}
		return nil, err
	}
	log.Info().
		Str("type", ev.Type).
		Str("cart_id", res.CartID).
		Msg("event processed")
	return res, nil
}

func (u *webhookUC) process(ctx context.Context, ev *model.WebhookEvent) (*Result, error) {
	switch ev.Kind {
	case model.KindInvoice, model.KindPaymentIntent:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnmappedKind, string(ev.Kind))
	}

	objectID := ev.ObjectID()
	records, err := u.dailycloak.FindByStripeID(ctx, ev.Kind, objectID)
	if err != nil {
		return nil, fmt.Errorf("lookup customer payment intent: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrEventNotLinked, ev.Kind, objectID)
	}
	rec := records[0]
	ctx = logging.WithRecordID(ctx, rec.ID)

	hub := u.datahub(rec.Organization)

	if ev.Kind == model.KindInvoice {
		return u.handleInvoice(ctx, ev, rec, hub)
	}
	return u.handlePaymentIntent(ctx, ev, rec, hub)
}

// handleInvoice runs the invoice pipeline: fetch the linked payment intent
// under the connected account, apply the legacy retry policy when enabled,
// update the dailycloak record, mirror onto the tenant cart and append audit
// rows. Steps are sequential for write-ordering consistency.
func (u *webhookUC) handleInvoice(ctx context.Context, ev *model.WebhookEvent, rec *model.CustomerPaymentIntent, hub repository.DatahubStore) (*Result, error) {
	inv := ev.Invoice

	var intent *model.PaymentIntent
	if inv.PaymentIntentID != "" {
		fetched, err := u.provider.RetrievePaymentIntent(ctx, inv.PaymentIntentID, rec.Organization.StripeAccountID)
		if err != nil {
			return nil, fmt.Errorf("retrieve payment intent %s: %w", inv.PaymentIntentID, err)
		}
		intent = fetched
	}

	if u.policy.LegacyRetryFlow {
		if ev.Type == eventInvoiceActionRequired {
			patch := repository.RecordPatch{IncSMSAttempt: 1}
			if err := u.dailycloak.UpdatePaymentIntent(ctx, rec.ID, patch); err != nil {
				return nil, fmt.Errorf("increment sms attempt: %w", err)
			}
		}
		if ev.Type == eventInvoicePaymentFailed && intent != nil &&
			retryableDeclineCodes[intent.DeclineCode] && !inv.HasDefaultPaymentMethod {
			flag := true
			patch := repository.RecordPatch{
				IncPaymentRetryAttempt: 1,
				Requires3DSecure:       &flag,
			}
			if err := u.dailycloak.UpdatePaymentIntent(ctx, rec.ID, patch); err != nil {
				return nil, fmt.Errorf("flag 3ds retry: %w", err)
			}
			// Short-circuit: the retry flow replaces the generic update.
			return &Result{Received: true, Linked: true, RecordID: rec.ID, CartID: rec.CartID}, nil
		}
	}

	invDetails := inv.Details
	var intentDetails map[string]interface{}
	if intent != nil {
		intentDetails = intent.Details
	}
	if u.policy.StripLines {
		invDetails = model.StripLines(invDetails)
		intentDetails = model.StripLines(intentDetails)
	}

	statusSource := inv.Status
	if intent != nil {
		statusSource = intent.Status
	}
	status, err := model.MapStripeStatus(statusSource)
	if err != nil {
		return nil, err
	}

	patch := repository.RecordPatch{
		Status:               &status,
		StripeInvoiceID:      &inv.ID,
		StripeInvoiceDetails: invDetails,
	}
	if intent != nil {
		patch.TransactionRemark = intentDetails
	}
	if u.policy.TrackHistory {
		patch.PrependInvoiceHistory = invDetails
		if intent != nil {
			patch.PrependRemarkHistory = intentDetails
		}
	}
	if err := u.dailycloak.UpdatePaymentIntent(ctx, rec.ID, patch); err != nil {
		return nil, fmt.Errorf("update customer payment intent: %w", err)
	}

	transactionID := inv.PaymentIntentID
	if transactionID == "" {
		transactionID = inv.ID
	}
	remark := intentDetails
	if remark == nil {
		remark = invDetails
	}
	cart := repository.CartPatch{
		PaymentStatus:     status,
		TransactionID:     transactionID,
		TransactionRemark: remark,
	}
	if u.policy.TrackHistory {
		cart.PrependHistory = remark
	}
	if err := hub.UpdateCart(ctx, rec.CartID, cart); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}

	if u.policy.AuditTrail {
		entries := []*model.HistoryEntry{
			model.NewHistoryEntry(model.HistoryInvoice, status, invDetails),
		}
		if intent != nil {
			entries = append(entries, model.NewHistoryEntry(model.HistoryPaymentIntent, status, intentDetails))
		}
		if err := u.dailycloak.InsertHistory(ctx, rec.ID, entries...); err != nil {
			return nil, fmt.Errorf("insert dailycloak history: %w", err)
		}
		if err := hub.InsertHistory(ctx, rec.CartID, entries...); err != nil {
			return nil, fmt.Errorf("insert datahub history: %w", err)
		}
	}

	return &Result{Received: true, Linked: true, RecordID: rec.ID, CartID: rec.CartID}, nil
}

// handlePaymentIntent is the invoice pipeline minus the vendor fetch.
func (u *webhookUC) handlePaymentIntent(ctx context.Context, ev *model.WebhookEvent, rec *model.CustomerPaymentIntent, hub repository.DatahubStore) (*Result, error) {
	pi := ev.PaymentIntent

	status, err := model.MapStripeStatus(pi.Status)
	if err != nil {
		return nil, err
	}

	details := pi.Details
	if u.policy.StripLines {
		details = model.StripLines(details)
	}

	patch := repository.RecordPatch{
		Status:            &status,
		TransactionRemark: details,
	}
	if u.policy.TrackHistory {
		patch.PrependRemarkHistory = details
	}
	if err := u.dailycloak.UpdatePaymentIntent(ctx, rec.ID, patch); err != nil {
		return nil, fmt.Errorf("update customer payment intent: %w", err)
	}

	cart := repository.CartPatch{
		PaymentStatus:     status,
		TransactionID:     pi.ID,
		TransactionRemark: details,
	}
	if u.policy.TrackHistory {
		cart.PrependHistory = details
	}
	if err := hub.UpdateCart(ctx, rec.CartID, cart); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}

	if u.policy.AuditTrail {
		entry := model.NewHistoryEntry(model.HistoryPaymentIntent, status, details)
		if err := u.dailycloak.InsertHistory(ctx, rec.ID, entry); err != nil {
			return nil, fmt.Errorf("insert dailycloak history: %w", err)
		}
		if err := hub.InsertHistory(ctx, rec.CartID, entry); err != nil {
			return nil, fmt.Errorf("insert datahub history: %w", err)
		}
	}

	return &Result{Received: true, Linked: true, RecordID: rec.ID, CartID: rec.CartID}, nil
}
