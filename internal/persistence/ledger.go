// Package persistence keeps a SQLite ledger of battles, sieges and fallen
// cities so finished games can be reviewed after the process exits.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// BattleRecord is one resolved battle between two units.
type BattleRecord struct {
	ID                 string  `db:"id"`
	GameID             string  `db:"game_id"`
	Turn               int     `db:"turn"`
	AttackerPlayer     int     `db:"attacker_player"`
	DefenderPlayer     int     `db:"defender_player"`
	AttackerUnit       uint64  `db:"attacker_unit"`
	DefenderUnit       uint64  `db:"defender_unit"`
	X                  int     `db:"x"`
	Y                  int     `db:"y"`
	AttackerUnits      int     `db:"attacker_units"`
	DefenderUnits      int     `db:"defender_units"`
	AttackerCasualties int     `db:"attacker_casualties"`
	DefenderCasualties int     `db:"defender_casualties"`
	AttackerMorale     float64 `db:"attacker_morale"`
	DefenderMorale     float64 `db:"defender_morale"`
	InCity             bool    `db:"in_city"`
	RecordedAt         int64   `db:"recorded_at"`
}

// SiegeRecord is one assault on a city.
type SiegeRecord struct {
	ID             string  `db:"id"`
	GameID         string  `db:"game_id"`
	Turn           int     `db:"turn"`
	AttackerPlayer int     `db:"attacker_player"`
	DefenderPlayer int     `db:"defender_player"`
	AttackerUnit   uint64  `db:"attacker_unit"`
	City           uint64  `db:"city"`
	Battles        int     `db:"battles"`
	GarrisonLeft   int     `db:"garrison_left"`
	FallChance     float64 `db:"fall_chance"`
	Fell           bool    `db:"fell"`
	RecordedAt     int64   `db:"recorded_at"`
}

// FallRecord is a city changing hands.
type FallRecord struct {
	ID           string `db:"id"`
	GameID       string `db:"game_id"`
	Turn         int    `db:"turn"`
	City         uint64 `db:"city"`
	Name         string `db:"name"`
	X            int    `db:"x"`
	Y            int    `db:"y"`
	FormerOwner  int    `db:"former_owner"`
	NewOwner     int    `db:"new_owner"`
	UnitsRehomed int    `db:"units_rehomed"`
	UnitsLost    int    `db:"units_lost"`
	RecordedAt   int64  `db:"recorded_at"`
}

// Casualties sums the losses a player took in recorded battles.
type Casualties struct {
	PlayerID int `db:"player_id"`
	Battles  int `db:"battles"`
	Lost     int `db:"lost"`
}

// Ledger wraps a SQLite connection holding the battle reports.
type Ledger struct {
	conn   *sqlx.DB
	logger zerolog.Logger
}

// Open opens or creates the ledger at path. ":memory:" gives a throwaway
// ledger.
func Open(path string, logger zerolog.Logger) (*Ledger, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// SQLite allows one writer, and each :memory: connection is its own database.
	conn.SetMaxOpenConns(1)

	l := &Ledger{
		conn:   conn,
		logger: logger.With().Str("component", "Ledger").Logger(),
	}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}

	l.logger.Info().Str("path", path).Msg("Battle ledger opened")
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.conn.Close()
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS battles (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		attacker_player INTEGER NOT NULL,
		defender_player INTEGER NOT NULL,
		attacker_unit INTEGER NOT NULL,
		defender_unit INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		attacker_units INTEGER NOT NULL,
		defender_units INTEGER NOT NULL,
		attacker_casualties INTEGER NOT NULL,
		defender_casualties INTEGER NOT NULL,
		attacker_morale REAL NOT NULL,
		defender_morale REAL NOT NULL,
		in_city INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sieges (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		attacker_player INTEGER NOT NULL,
		defender_player INTEGER NOT NULL,
		attacker_unit INTEGER NOT NULL,
		city INTEGER NOT NULL,
		battles INTEGER NOT NULL,
		garrison_left INTEGER NOT NULL,
		fall_chance REAL NOT NULL,
		fell INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS falls (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		city INTEGER NOT NULL,
		name TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		former_owner INTEGER NOT NULL,
		new_owner INTEGER NOT NULL,
		units_rehomed INTEGER NOT NULL,
		units_lost INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_battles_game_turn ON battles(game_id, turn);
	CREATE INDEX IF NOT EXISTS idx_sieges_game_turn ON sieges(game_id, turn);
	CREATE INDEX IF NOT EXISTS idx_falls_game_turn ON falls(game_id, turn);
	`
	_, err := l.conn.Exec(schema)
	return err
}

// stamp fills in the ID and time a record is stored under.
func stamp(id *string, at *int64) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if *at == 0 {
		*at = time.Now().UnixMilli()
	}
}

// RecordBattle appends a battle report.
func (l *Ledger) RecordBattle(ctx context.Context, r BattleRecord) error {
	stamp(&r.ID, &r.RecordedAt)
	_, err := l.conn.NamedExecContext(ctx, `INSERT INTO battles
		(id, game_id, turn, attacker_player, defender_player, attacker_unit, defender_unit,
		 x, y, attacker_units, defender_units, attacker_casualties, defender_casualties,
		 attacker_morale, defender_morale, in_city, recorded_at)
		VALUES (:id, :game_id, :turn, :attacker_player, :defender_player, :attacker_unit, :defender_unit,
		 :x, :y, :attacker_units, :defender_units, :attacker_casualties, :defender_casualties,
		 :attacker_morale, :defender_morale, :in_city, :recorded_at)`, r)
	if err != nil {
		return fmt.Errorf("insert battle %s: %w", r.ID, err)
	}
	return nil
}

// RecordSiege appends a siege report.
func (l *Ledger) RecordSiege(ctx context.Context, r SiegeRecord) error {
	stamp(&r.ID, &r.RecordedAt)
	_, err := l.conn.NamedExecContext(ctx, `INSERT INTO sieges
		(id, game_id, turn, attacker_player, defender_player, attacker_unit, city,
		 battles, garrison_left, fall_chance, fell, recorded_at)
		VALUES (:id, :game_id, :turn, :attacker_player, :defender_player, :attacker_unit, :city,
		 :battles, :garrison_left, :fall_chance, :fell, :recorded_at)`, r)
	if err != nil {
		return fmt.Errorf("insert siege %s: %w", r.ID, err)
	}
	return nil
}

// RecordFall appends a fallen city.
func (l *Ledger) RecordFall(ctx context.Context, r FallRecord) error {
	stamp(&r.ID, &r.RecordedAt)
	_, err := l.conn.NamedExecContext(ctx, `INSERT INTO falls
		(id, game_id, turn, city, name, x, y, former_owner, new_owner,
		 units_rehomed, units_lost, recorded_at)
		VALUES (:id, :game_id, :turn, :city, :name, :x, :y, :former_owner, :new_owner,
		 :units_rehomed, :units_lost, :recorded_at)`, r)
	if err != nil {
		return fmt.Errorf("insert fall %s: %w", r.ID, err)
	}
	return nil
}

// RecentBattles returns up to limit battles of a game, latest turn first.
func (l *Ledger) RecentBattles(ctx context.Context, gameID string, limit int) ([]BattleRecord, error) {
	var battles []BattleRecord
	err := l.conn.SelectContext(ctx, &battles,
		`SELECT * FROM battles WHERE game_id = ? ORDER BY turn DESC, recorded_at DESC LIMIT ?`,
		gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("select battles: %w", err)
	}
	return battles, nil
}

// Sieges returns every siege of a game in turn order.
func (l *Ledger) Sieges(ctx context.Context, gameID string) ([]SiegeRecord, error) {
	var sieges []SiegeRecord
	err := l.conn.SelectContext(ctx, &sieges,
		`SELECT * FROM sieges WHERE game_id = ? ORDER BY turn, recorded_at`, gameID)
	if err != nil {
		return nil, fmt.Errorf("select sieges: %w", err)
	}
	return sieges, nil
}

// Falls returns every city that changed hands in a game, in turn order.
func (l *Ledger) Falls(ctx context.Context, gameID string) ([]FallRecord, error) {
	var falls []FallRecord
	err := l.conn.SelectContext(ctx, &falls,
		`SELECT * FROM falls WHERE game_id = ? ORDER BY turn, recorded_at`, gameID)
	if err != nil {
		return nil, fmt.Errorf("select falls: %w", err)
	}
	return falls, nil
}

// CasualtyTotals sums each player's battle losses in a game, by player ID.
func (l *Ledger) CasualtyTotals(ctx context.Context, gameID string) ([]Casualties, error) {
	var totals []Casualties
	err := l.conn.SelectContext(ctx, &totals, `
		SELECT player_id, COUNT(*) AS battles, SUM(lost) AS lost FROM (
			SELECT attacker_player AS player_id, attacker_casualties AS lost FROM battles WHERE game_id = ?
			UNION ALL
			SELECT defender_player AS player_id, defender_casualties AS lost FROM battles WHERE game_id = ?
		) GROUP BY player_id ORDER BY player_id`, gameID, gameID)
	if err != nil {
		return nil, fmt.Errorf("sum casualties: %w", err)
	}
	return totals, nil
}
