package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Mercado Pago signs webhooks with an x-signature header of the form
// "ts=<unix>,v1=<hmac>", where v1 is HMAC-SHA256 over the manifest
// "id:{data.id};request-id:{x-request-id};ts:{ts};" keyed by the shared
// webhook secret.

func extractSignatureParts(xSignature string) (ts, v1 string) {
	for _, chunk := range strings.Split(xSignature, ",") {
		k, v, ok := strings.Cut(chunk, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "ts":
			ts = strings.TrimSpace(v)
		case "v1":
			v1 = strings.TrimSpace(v)
		}
	}
	return ts, v1
}

func signManifest(secret []byte, dataID, requestID, ts string) string {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

// verifySignature checks the x-signature header against the manifest. An
// empty secret skips verification entirely. That is a development-mode
// bypass and must not survive into production deployments.
func verifySignature(secret, xSignature, xRequestID, dataID string) bool {
	if secret == "" {
		return true
	}

	ts, v1 := extractSignatureParts(xSignature)
	if ts == "" || v1 == "" || xRequestID == "" || dataID == "" {
		return false
	}

	expected := signManifest([]byte(secret), dataID, xRequestID, ts)
	return hmac.Equal([]byte(expected), []byte(v1))
}
