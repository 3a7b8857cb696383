package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Shopify webhook headers.
const (
	HeaderTopic      = "X-Shopify-Topic"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
	HeaderHmac       = "X-Shopify-Hmac-Sha256"
)

// Verifier validates webhook deliveries for one originating store.
type Verifier struct {
	secret         []byte
	expectedDomain string
}

func NewVerifier(secret, expectedDomain string) *Verifier {
	return &Verifier{
		secret:         []byte(secret),
		expectedDomain: expectedDomain,
	}
}

// Verify reports whether the delivery is authentic: the HMAC-SHA256 of the
// raw body under the shared secret must match the claimed signature, and
// the declared origin domain must match the configured store. Malformed
// input is simply not authentic; Verify never fails.
func (v *Verifier) Verify(body []byte, signature, shopDomain string) bool {
	if shopDomain != v.expectedDomain {
		return false
	}
	return validSignature(body, signature, v.secret)
}

func validSignature(body []byte, signature string, secret []byte) bool {
	if signature == "" || len(secret) == 0 {
		return false
	}
	claimed, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), claimed)
}
