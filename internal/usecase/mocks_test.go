//go:build !integration

package usecase_test

import (
	"context"

	"github.com/rs/zerolog"

	"payment-webhook-relay/internal/domain/model"
	"payment-webhook-relay/internal/domain/ports/repository"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

// --- Mock PaymentProvider ---

type retrieveCall struct {
	ID      string
	Account string
}

type MockPaymentProvider struct {
	VerifyEventFunc           func(payload []byte, sigHeader string) (*model.WebhookEvent, error)
	RetrievePaymentIntentFunc func(ctx context.Context, id, stripeAccount string) (*model.PaymentIntent, error)
	RetrieveCalls             []retrieveCall
}

func (m *MockPaymentProvider) VerifyEvent(payload []byte, sigHeader string) (*model.WebhookEvent, error) {
	if m.VerifyEventFunc != nil {
		return m.VerifyEventFunc(payload, sigHeader)
	}
	return nil, nil
}

func (m *MockPaymentProvider) RetrievePaymentIntent(ctx context.Context, id, stripeAccount string) (*model.PaymentIntent, error) {
	m.RetrieveCalls = append(m.RetrieveCalls, retrieveCall{ID: id, Account: stripeAccount})
	if m.RetrievePaymentIntentFunc != nil {
		return m.RetrievePaymentIntentFunc(ctx, id, stripeAccount)
	}
	return &model.PaymentIntent{ID: id, Status: "succeeded", Details: map[string]interface{}{"id": id}}, nil
}

// --- Mock DailycloakStore ---

type historyCall struct {
	OwnerID string
	Entries []*model.HistoryEntry
}

type MockDailycloakStore struct {
	FindByStripeIDFunc func(ctx context.Context, kind model.ObjectKind, objectID string) ([]*model.CustomerPaymentIntent, error)
	UpdateFunc         func(ctx context.Context, recordID string, patch repository.RecordPatch) error

	FindCalls    int
	UpdateCalls  []repository.RecordPatch
	HistoryCalls []historyCall
}

func (m *MockDailycloakStore) FindByStripeID(ctx context.Context, kind model.ObjectKind, objectID string) ([]*model.CustomerPaymentIntent, error) {
	m.FindCalls++
	if m.FindByStripeIDFunc != nil {
		return m.FindByStripeIDFunc(ctx, kind, objectID)
	}
	return nil, nil
}

func (m *MockDailycloakStore) UpdatePaymentIntent(ctx context.Context, recordID string, patch repository.RecordPatch) error {
	m.UpdateCalls = append(m.UpdateCalls, patch)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, recordID, patch)
	}
	return nil
}

func (m *MockDailycloakStore) InsertHistory(ctx context.Context, recordID string, entries ...*model.HistoryEntry) error {
	m.HistoryCalls = append(m.HistoryCalls, historyCall{OwnerID: recordID, Entries: entries})
	return nil
}

// --- Mock DatahubStore ---

type MockDatahubStore struct {
	UpdateCartFunc func(ctx context.Context, cartID string, patch repository.CartPatch) error

	CartCalls    []repository.CartPatch
	CartIDs      []string
	HistoryCalls []historyCall
}

func (m *MockDatahubStore) UpdateCart(ctx context.Context, cartID string, patch repository.CartPatch) error {
	m.CartCalls = append(m.CartCalls, patch)
	m.CartIDs = append(m.CartIDs, cartID)
	if m.UpdateCartFunc != nil {
		return m.UpdateCartFunc(ctx, cartID, patch)
	}
	return nil
}

func (m *MockDatahubStore) InsertHistory(ctx context.Context, cartID string, entries ...*model.HistoryEntry) error {
	m.HistoryCalls = append(m.HistoryCalls, historyCall{OwnerID: cartID, Entries: entries})
	return nil
}

// --- Mock DeliveryLog ---

type MockDeliveryLog struct {
	FirstDeliveryFunc func(ctx context.Context, eventID string) (bool, error)
	ForgetFunc        func(ctx context.Context, eventID string) error

	Calls       int
	ForgetCalls []string
}

func (m *MockDeliveryLog) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	m.Calls++
	if m.FirstDeliveryFunc != nil {
		return m.FirstDeliveryFunc(ctx, eventID)
	}
	return true, nil
}

func (m *MockDeliveryLog) Forget(ctx context.Context, eventID string) error {
	m.ForgetCalls = append(m.ForgetCalls, eventID)
	if m.ForgetFunc != nil {
		return m.ForgetFunc(ctx, eventID)
	}
	return nil
}
