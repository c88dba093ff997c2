package mercadopago

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	const (
		secret    = "shhh"
		dataID    = "12345"
		requestID = "req_abc"
		ts        = "1700000000"
	)
	valid := signManifest([]byte(secret), dataID, requestID, ts)

	tests := []struct {
		name       string
		secret     string
		xSignature string
		xRequestID string
		dataID     string
		want       bool
	}{
		{
			name:   "valid signature",
			secret: secret, xSignature: "ts=" + ts + ",v1=" + valid,
			xRequestID: requestID, dataID: dataID, want: true,
		},
		{
			name:   "whitespace around parts tolerated",
			secret: secret, xSignature: "ts=" + ts + ", v1=" + valid,
			xRequestID: requestID, dataID: dataID, want: true,
		},
		{
			name:   "tampered digest",
			secret: secret, xSignature: "ts=" + ts + ",v1=deadbeef",
			xRequestID: requestID, dataID: dataID, want: false,
		},
		{
			name:   "tampered data id",
			secret: secret, xSignature: "ts=" + ts + ",v1=" + valid,
			xRequestID: requestID, dataID: "99999", want: false,
		},
		{
			name:   "tampered timestamp",
			secret: secret, xSignature: "ts=1700000001,v1=" + valid,
			xRequestID: requestID, dataID: dataID, want: false,
		},
		{
			name:   "missing header",
			secret: secret, xSignature: "",
			xRequestID: requestID, dataID: dataID, want: false,
		},
		{
			name:   "missing request id",
			secret: secret, xSignature: "ts=" + ts + ",v1=" + valid,
			xRequestID: "", dataID: dataID, want: false,
		},
		{
			name:   "no secret configured skips verification",
			secret: "", xSignature: "",
			xRequestID: "", dataID: dataID, want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verifySignature(tt.secret, tt.xSignature, tt.xRequestID, tt.dataID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractSignatureParts(t *testing.T) {
	ts, v1 := extractSignatureParts("ts=123,v1=abc")
	assert.Equal(t, "123", ts)
	assert.Equal(t, "abc", v1)

	ts, v1 = extractSignatureParts("v1=abc")
	assert.Equal(t, "", ts)
	assert.Equal(t, "abc", v1)

	ts, v1 = extractSignatureParts("")
	assert.Equal(t, "", ts)
	assert.Equal(t, "", v1)
}
