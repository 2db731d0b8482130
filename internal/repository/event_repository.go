package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"Sentinel/internal/domain/models"
	"Sentinel/internal/domain/repository"
	pkgkafka "Sentinel/pkg/kafka"
)

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db          *sql.DB
	eventsTable string
	alertsTable string
}

// NewClickHouseStorage creates ClickHouse storage.
func NewClickHouseStorage(db *sql.DB, eventsTable, alertsTable string) repository.Storage {
	return &ClickHouseStorage{db: db, eventsTable: eventsTable, alertsTable: alertsTable}
}

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseStorage) StoreEvent(ctx context.Context, sc *models.ScoredToken) error {
	e := sc.Event

	subScores, err := json.Marshal(sc.SubScores)
	if err != nil {
		return fmt.Errorf("marshal sub scores: %w", err)
	}

	q := fmt.Sprintf(`INSERT INTO %s
		(ts, mint, name, symbol, score, liquidity_sol, market_cap_sol, holders,
		 social_score, risk_flags, sub_scores, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.eventsTable)
	_, err = s.db.ExecContext(ctx, q,
		sc.ScoredAt,
		e.Mint,
		e.Name,
		e.Symbol,
		sc.Score,
		e.LiquiditySol,
		e.MarketCapSol,
		e.Holders,
		e.SocialScore,
		sc.RiskFlags,
		string(subScores),
		e.Source,
	)
	return err
}

func (s *ClickHouseStorage) StoreAlert(ctx context.Context, a *models.AlertAttempt, channel string) error {
	q := fmt.Sprintf(`INSERT INTO %s
		(ts, mint, symbol, score, channel, outcome)
		VALUES (?, ?, ?, ?, ?, ?)`, s.alertsTable)
	_, err := s.db.ExecContext(ctx, q,
		a.At,
		a.Mint,
		a.Symbol,
		a.Score,
		channel,
		string(a.Outcome),
	)
	return err
}

func (s *ClickHouseStorage) RecentEvents(ctx context.Context, from, to time.Time, minScore float64, limit int) ([]*models.ScoredToken, error) {
	q := fmt.Sprintf(`SELECT ts, mint, name, symbol, score, liquidity_sol,
		market_cap_sol, holders, social_score, risk_flags, sub_scores, source
		FROM %s
		WHERE ts >= ? AND ts <= ? AND score >= ?
		ORDER BY ts DESC LIMIT ?`, s.eventsTable)
	rows, err := s.db.QueryContext(ctx, q, from, to, minScore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScoredToken
	for rows.Next() {
		var (
			e         models.TokenEvent
			sc        models.ScoredToken
			ts        time.Time
			subScores string
		)
		if err := rows.Scan(&ts, &e.Mint, &e.Name, &e.Symbol, &sc.Score,
			&e.LiquiditySol, &e.MarketCapSol, &e.Holders, &e.SocialScore,
			&sc.RiskFlags, &subScores, &e.Source); err != nil {
			return nil, err
		}
		if subScores != "" {
			_ = json.Unmarshal([]byte(subScores), &sc.SubScores)
		}
		sc.ScoredAt = ts
		sc.Event = &e
		out = append(out, &sc)
	}
	return out, rows.Err()
}

func (s *ClickHouseStorage) OutcomeCounts(ctx context.Context, since time.Time) (map[string]uint64, error) {
	q := fmt.Sprintf(`SELECT outcome, count() FROM %s WHERE ts >= ? GROUP BY outcome`, s.alertsTable)
	rows, err := s.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var (
			outcome string
			n       uint64
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka signal fan-out.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	urgentAt float64
}

// NewKafkaPublisher creates Kafka publisher. Scores at or above urgentAt are
// tagged priority high for downstream consumers.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string, urgentAt float64) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic, urgentAt: urgentAt}
}

func (p *KafkaPublisher) Publish(ctx context.Context, sc *models.ScoredToken) error {
	priority := "normal"
	if sc.Score >= p.urgentAt {
		priority = "high"
	}
	return p.producer.Publish(ctx, p.topic, []byte(sc.Event.Mint), map[string]interface{}{
		"mint":       sc.Event.Mint,
		"symbol":     sc.Event.Symbol,
		"score":      sc.Score,
		"risk_flags": sc.RiskFlags,
		"priority":   priority,
		"scored_at":  sc.ScoredAt.UTC().Format(time.RFC3339Nano),
	})
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
