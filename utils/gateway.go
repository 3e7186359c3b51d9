package utils

import (
	"coursedesk/config"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

// GatewayTransaction is the sandbox gateway's view of a UPI transaction.
type GatewayTransaction struct {
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	Utr           string  `json:"utr"`
}

// LookupGatewayTransaction queries the payment gateway sandbox for a
// caller-supplied transaction reference. Confirmation is a manual admin
// decision; this lookup only gives the admin corroborating data, so the
// caller treats every failure as "no data".
func LookupGatewayTransaction(transactionID string) (*GatewayTransaction, error) {
	cfg := config.AppConfig
	if cfg.GatewayApiKey == "defaultSecret" || transactionID == "" {
		return nil, fmt.Errorf("gateway lookup not configured")
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("x-api-key", cfg.GatewayApiKey).
		SetHeader("x-api-secret", cfg.GatewaySecretKey).
		SetHeader("accept", "application/json").
		Get(cfg.GatewayApiURL + "transactions/" + transactionID)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway lookup failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	var txn GatewayTransaction
	if err := json.Unmarshal(resp.Body(), &txn); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %v", err)
	}

	log.Printf("[GATEWAY] Transaction %s status=%s amount=%.2f", txn.TransactionID, txn.Status, txn.Amount)
	return &txn, nil
}
