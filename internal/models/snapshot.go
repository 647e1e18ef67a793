// Package models defines the records exchanged with the fraud analytics backend.
// These are transient: each is built for one request/response cycle and discarded
// once it has been rendered.
//
// Terminology:
//   - AnalyticsSnapshot: the aggregate dataset backing the dashboard view.
//   - TransactionQuery: one transaction's attributes submitted for scoring.
//   - PredictionResult: the scoring endpoint's response.
package models

import (
	"errors"
	"fmt"
)

// AnalyticsSnapshot is the payload returned by the analytics endpoint.
// Section pointers are nil when the section was absent from the payload.
type AnalyticsSnapshot struct {
	KPIs                   *KPIs          `json:"kpis"`
	FraudVsNonFraud        *FraudSplit    `json:"fraud_vs_non_fraud"`
	FraudByNetwork         *OrderedCounts `json:"fraud_by_network"`
	TransactionsOverTime   *OrderedCounts `json:"transactions_over_time"`
	FraudByTransactionType *OrderedCounts `json:"fraud_by_transaction_type"`
}

// KPIs holds the headline dashboard figures
type KPIs struct {
	TotalTransactions int64   `json:"total_transactions"`
	FraudTransactions int64   `json:"fraud_transactions"`
	FraudRate         float64 `json:"fraud_rate"` // percentage, 0-100
}

// FraudSplit holds the two proportions shown in the fraud/non-fraud chart
type FraudSplit struct {
	Fraud    int64 `json:"fraud"`
	NonFraud int64 `json:"non_fraud"`
}

// Validate checks that all KPI fields are valid
func (k *KPIs) Validate() error {
	if k.TotalTransactions < 0 {
		return errors.New("total transactions must not be negative")
	}
	if k.FraudTransactions < 0 {
		return errors.New("fraud transactions must not be negative")
	}
	if k.FraudTransactions > k.TotalTransactions {
		return errors.New("fraud transactions must be <= total transactions")
	}
	return nil
}

// Validate checks that both counts are non-negative
func (f *FraudSplit) Validate() error {
	if f.Fraud < 0 || f.NonFraud < 0 {
		return errors.New("fraud split counts must not be negative")
	}
	return nil
}

// Validate checks that every section is present and well-formed.
// Key order and values are not altered.
func (s *AnalyticsSnapshot) Validate() error {
	if s.KPIs == nil {
		return errors.New("kpis section is missing")
	}
	if err := s.KPIs.Validate(); err != nil {
		return fmt.Errorf("invalid kpis: %w", err)
	}
	if s.FraudVsNonFraud == nil {
		return errors.New("fraud_vs_non_fraud section is missing")
	}
	if err := s.FraudVsNonFraud.Validate(); err != nil {
		return fmt.Errorf("invalid fraud_vs_non_fraud: %w", err)
	}

	mappings := []struct {
		name   string
		counts *OrderedCounts
	}{
		{"fraud_by_network", s.FraudByNetwork},
		{"transactions_over_time", s.TransactionsOverTime},
		{"fraud_by_transaction_type", s.FraudByTransactionType},
	}
	for _, m := range mappings {
		if m.counts == nil {
			return fmt.Errorf("%s section is missing", m.name)
		}
		if err := m.counts.Validate(); err != nil {
			return fmt.Errorf("invalid %s: %w", m.name, err)
		}
	}
	return nil
}
