package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Sends a signed mercado-pago-style webhook to a local server, or a plain
// dummy-provider webhook with -provider dummy. Useful for exercising the
// reconciliation pipeline without a real gateway.

type mpPayload struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Type   string `json:"type"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

type dummyPayload struct {
	EventID   string `json:"event_id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

func main() {
	base := flag.String("base", "http://localhost:8080", "Server base URL")
	provider := flag.String("provider", "mercado_pago", "Provider route (mercado_pago, dummy)")
	secret := flag.String("secret", os.Getenv("MERCADOPAGO_WEBHOOK_SECRET"), "Webhook secret (mercado_pago only)")
	eventID := flag.String("event-id", "evt_"+randomHex(8), "Event ID")
	paymentRef := flag.String("payment-ref", "", "Provider payment id the webhook points at")
	status := flag.String("status", "paid", "Status (dummy only)")
	action := flag.String("action", "payment.updated", "Action (mercado_pago only)")
	dryRun := flag.Bool("dry-run", false, "Only print the request, don't send")

	flag.Parse()

	if *paymentRef == "" {
		fmt.Fprintln(os.Stderr, "Error: -payment-ref is required")
		os.Exit(1)
	}

	var body []byte
	headers := map[string]string{"Content-Type": "application/json"}

	switch *provider {
	case "dummy":
		p := dummyPayload{EventID: *eventID, PaymentID: *paymentRef, Status: *status}
		body, _ = json.Marshal(p)

	case "mercado_pago":
		p := mpPayload{ID: *eventID, Action: *action, Type: "payment"}
		p.Data.ID = *paymentRef
		body, _ = json.Marshal(p)

		requestID := "req_" + randomHex(8)
		ts := strconv.FormatInt(time.Now().Unix(), 10)
		headers["x-request-id"] = requestID
		if *secret != "" {
			manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", *paymentRef, requestID, ts)
			m := hmac.New(sha256.New, []byte(*secret))
			m.Write([]byte(manifest))
			headers["x-signature"] = fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(m.Sum(nil)))
		}

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown provider %q\n", *provider)
		os.Exit(1)
	}

	url := fmt.Sprintf("%s/api/v1/payments/webhook/%s", *base, *provider)
	fmt.Printf("POST %s\n", url)
	for k, v := range headers {
		fmt.Printf("%s: %s\n", k, v)
	}
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
