package payment

import "encoding/json"

// SecretID names which signing secret verifies a payload.
type SecretID string

const (
	SecretPlatform SecretID = "platform"
	SecretConnect  SecretID = "connect"
)

// ChooseSecret decides which webhook secret to try for a raw payload.
// Connected-account events carry a top-level "account" field; the raw body is
// probed as JSON for the decision while verification itself still runs over
// the exact bytes. Unparseable bodies fall through to the platform secret and
// fail verification there.
func ChooseSecret(rawBody []byte) SecretID {
	var probe struct {
		Account string `json:"account"`
	}
	if err := json.Unmarshal(rawBody, &probe); err == nil && probe.Account != "" {
		return SecretConnect
	}
	return SecretPlatform
}
