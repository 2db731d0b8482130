package repository

import "fmt"

const (
	EventsTable = "sentinel.token_events"
	AlertsTable = "sentinel.alerts"
)

// Schema returns idempotent DDL for the pipeline's tables.
func Schema() []string {
	return []string{
		`CREATE DATABASE IF NOT EXISTS sentinel`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ts             DateTime64(3),
			mint           String,
			name           String,
			symbol         String,
			score          Float64,
			liquidity_sol  Float64,
			market_cap_sol Float64,
			holders        UInt32,
			social_score   Float64,
			risk_flags     Array(String),
			sub_scores     String,
			source         String
		) ENGINE = MergeTree()
		ORDER BY (mint, ts)`, EventsTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ts      DateTime64(3),
			mint    String,
			symbol  String,
			score   Float64,
			channel String,
			outcome String
		) ENGINE = MergeTree()
		ORDER BY (mint, ts)`, AlertsTable),
	}
}
