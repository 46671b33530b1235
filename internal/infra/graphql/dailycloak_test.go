//go:build !integration

package graphql

import (
	"reflect"
	"testing"

	"payment-webhook-relay/internal/domain/model"
	"payment-webhook-relay/internal/domain/ports/repository"
)

func TestRecordPatchVars(t *testing.T) {
	t.Run("empty patch yields empty variables", func(t *testing.T) {
		set, inc, prepend := recordPatchVars(repository.RecordPatch{})
		if len(set) != 0 || len(inc) != 0 || len(prepend) != 0 {
			t.Fatalf("expected empty vars, got set=%v inc=%v prepend=%v", set, inc, prepend)
		}
	})

	t.Run("full patch", func(t *testing.T) {
		status := model.PaymentStatusSucceeded
		invoiceID := "in_1"
		requires := true
		remark := map[string]interface{}{"id": "pi_1", "status": "succeeded"}
		invoice := map[string]interface{}{"id": "in_1", "status": "paid"}

		set, inc, prepend := recordPatchVars(repository.RecordPatch{
			Status:                 &status,
			TransactionRemark:      remark,
			StripeInvoiceID:        &invoiceID,
			StripeInvoiceDetails:   invoice,
			Requires3DSecure:       &requires,
			IncSMSAttempt:          1,
			IncPaymentRetryAttempt: 1,
			PrependRemarkHistory:   remark,
			PrependInvoiceHistory:  invoice,
		})

		wantSet := map[string]interface{}{
			"status":               "SUCCEEDED",
			"transactionRemark":    remark,
			"stripeInvoiceId":      "in_1",
			"stripeInvoiceDetails": invoice,
			"requires3dSecure":     true,
		}
		if !reflect.DeepEqual(set, wantSet) {
			t.Errorf("set = %v, want %v", set, wantSet)
		}
		wantInc := map[string]interface{}{"smsAttempt": 1, "paymentRetryAttempt": 1}
		if !reflect.DeepEqual(inc, wantInc) {
			t.Errorf("inc = %v, want %v", inc, wantInc)
		}

		// Snapshots are wrapped in single-element arrays so the jsonb
		// prepend keeps history newest first.
		wantPrepend := map[string]interface{}{
			"transactionRemarkHistory": []interface{}{remark},
			"stripeInvoiceHistory":     []interface{}{invoice},
		}
		if !reflect.DeepEqual(prepend, wantPrepend) {
			t.Errorf("prepend = %v, want %v", prepend, wantPrepend)
		}
	})

	t.Run("counter patch leaves set empty", func(t *testing.T) {
		set, inc, _ := recordPatchVars(repository.RecordPatch{IncSMSAttempt: 1})
		if len(set) != 0 {
			t.Errorf("expected no set vars, got %v", set)
		}
		if inc["smsAttempt"] != 1 {
			t.Errorf("expected smsAttempt inc, got %v", inc)
		}
	})
}
